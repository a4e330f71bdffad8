package core

// Span is a vertical run of rows in one column, Top <= Bottom inclusive.
type Span struct {
	Top, Bottom int16
}

// emptySpan marks a column with nothing drawn.
var emptySpan = Span{Top: 1, Bottom: 0}

// Empty reports whether the span covers no rows.
func (s Span) Empty() bool {
	return s.Bottom < s.Top
}

// Height returns the number of rows covered.
func (s Span) Height() int16 {
	if s.Empty() {
		return 0
	}
	return s.Bottom - s.Top + 1
}

// Envelope reduces a column's samples to their minimum and maximum.
// ok is false for an empty slice.
func Envelope(samples []Sample) (lo, hi Sample, ok bool) {
	if len(samples) == 0 {
		return 0, 0, false
	}
	lo, hi = samples[0], samples[0]
	for _, s := range samples[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	return lo, hi, true
}

// Scale maps sample values onto plot rows. Row numbers grow downwards, so
// SampleMax lands on Top and zero on Bottom.
type Scale struct {
	Top, Bottom int16
}

// Row returns the nearest plot row for v. Values above SampleMax clamp
// to Top.
func (s Scale) Row(v Sample) int16 {
	if v > SampleMax {
		v = SampleMax
	}
	h := int32(s.Bottom - s.Top)
	off := (int32(v)*h + int32(SampleMax)/2) / int32(SampleMax)
	return s.Bottom - int16(off)
}

// Span maps an envelope to the rows it covers.
func (s Scale) Span(lo, hi Sample) Span {
	return Span{Top: s.Row(hi), Bottom: s.Row(lo)}
}
