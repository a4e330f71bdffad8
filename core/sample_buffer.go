package core

// Sample is one raw 12-bit ADC conversion, right aligned.
type Sample uint16

// SampleMax is the full-scale ADC reading.
const SampleMax Sample = 4095

const (
	ScreenWidth  = 160
	ScreenHeight = 128

	// ColumnsPerDivision is the horizontal graticule pitch in pixels.
	ColumnsPerDivision = 10

	// MaxSamplesPerColumn bounds the decimation factor of every timebase.
	MaxSamplesPerColumn = 50

	// BufferCapacity holds one full sweep at the deepest decimation.
	BufferCapacity = ScreenWidth * MaxSamplesPerColumn
)

// SampleBuffer is the DMA target. The acquisition driver is its only
// writer and the renderer its only reader; there is no lock.
type SampleBuffer struct {
	data [BufferCapacity]Sample

	// limit shrinks the usable length; zero means BufferCapacity.
	limit int
}

// SetLen restricts the usable buffer to n samples, clamped to
// [1, BufferCapacity].
func (b *SampleBuffer) SetLen(n int) {
	if n < 1 {
		n = 1
	}
	if n >= BufferCapacity {
		n = 0
	}
	b.limit = n
}

// Len returns the usable buffer length.
func (b *SampleBuffer) Len() int {
	if b.limit == 0 {
		return BufferCapacity
	}
	return b.limit
}

// Window returns the first n usable samples as the slice handed to the
// acquisition driver.
func (b *SampleBuffer) Window(n int) []Sample {
	if n > b.Len() {
		n = b.Len()
	}
	if n < 0 {
		n = 0
	}
	return b.data[:n]
}

// Read returns a view of count samples starting at offset, clamped to
// the usable length. It never copies and never panics.
func (b *SampleBuffer) Read(offset, count int) []Sample {
	start, end := clampRange(offset, count, b.Len())
	return b.data[start:end]
}

// clampRange limits [offset, offset+count) to [0, limit).
func clampRange(offset, count, limit int) (int, int) {
	if offset < 0 {
		count += offset
		offset = 0
	}
	if offset > limit {
		offset = limit
	}
	if count < 0 {
		count = 0
	}
	end := offset + count
	if end > limit || end < offset {
		end = limit
	}
	return offset, end
}
