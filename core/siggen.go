package core

import "math"

// WaveTableLen is the number of points per waveform period.
const WaveTableLen = 144

// Frequencies are the selectable signal generator outputs in Hz, in
// half-decade steps.
var Frequencies = [...]uint32{1, 3, 10, 30, 100, 300, 1000, 3000, 10000}

// DefaultFrequencyIndex selects 1 kHz.
const DefaultFrequencyIndex = 6

var (
	// SineTable is one period of a 12-bit sine centred on mid-scale.
	SineTable [WaveTableLen]uint16
	// RampTable is one period of an 8-bit rising sawtooth.
	RampTable [WaveTableLen]uint8
)

func init() {
	for i := range SineTable {
		v := 2047 + 2047*math.Sin(2*math.Pi*float64(i)/WaveTableLen)
		SineTable[i] = uint16(math.Round(v))
		RampTable[i] = uint8(i * 255 / (WaveTableLen - 1))
	}
}

// SignalDriver plays the wave tables back in a loop without CPU help.
type SignalDriver interface {
	// Start begins playback of both tables at rate points per second.
	Start(sine []uint16, ramp []uint8, rate uint32) error
	// SetRate changes the playback rate without restarting the tables.
	SetRate(rate uint32)
}

// Global singleton used by core code.
var signalDriver SignalDriver

// SetSignalDriver is called by target-specific code to register its driver.
func SetSignalDriver(d SignalDriver) {
	signalDriver = d
}

// MustSignal returns the configured driver or panics if missing.
func MustSignal() SignalDriver {
	if signalDriver == nil {
		panic("signal driver not configured")
	}
	return signalDriver
}

// SignalGenerator owns the frequency selection of the built-in test
// signal source.
type SignalGenerator struct {
	drv   SignalDriver
	index int
}

// NewSignalGenerator returns a generator positioned at index (wrapped).
func NewSignalGenerator(drv SignalDriver, index int) *SignalGenerator {
	g := &SignalGenerator{drv: drv}
	g.setIndex(index)
	return g
}

// Start loads the tables and begins playback at the selected frequency.
func (g *SignalGenerator) Start() error {
	return g.drv.Start(SineTable[:], RampTable[:], g.SampleRate())
}

// Frequency returns the selected output frequency in Hz.
func (g *SignalGenerator) Frequency() uint32 {
	return Frequencies[g.index]
}

// Index returns the selected table index.
func (g *SignalGenerator) Index() int {
	return g.index
}

// SampleRate is the table playback rate for the selected frequency.
func (g *SignalGenerator) SampleRate() uint32 {
	return g.Frequency() * WaveTableLen
}

// Advance steps to the next frequency, wrapping to the lowest after the
// highest, retunes the driver and returns the new frequency.
func (g *SignalGenerator) Advance() uint32 {
	g.setIndex(g.index + 1)
	g.drv.SetRate(g.SampleRate())
	return g.Frequency()
}

// Set selects a frequency index and retunes the driver.
func (g *SignalGenerator) Set(index int) {
	g.setIndex(index)
	g.drv.SetRate(g.SampleRate())
}

func (g *SignalGenerator) setIndex(index int) {
	n := len(Frequencies)
	g.index = ((index % n) + n) % n
}
