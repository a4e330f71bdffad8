package core

import (
	"testing"
	"time"
)

// resetCore clears the package-level clock, scheduler and timing ring.
func resetCore(t *testing.T) {
	t.Helper()
	SetTime(0)
	ResetTimers()
	ClearTimingRing()
	SetDelayFunc(func(time.Duration) {})
	t.Cleanup(func() {
		ResetTimers()
		SetDelayFunc(nil)
	})
}

// advance moves the clock forward and runs due timers, like the target
// main loop does.
func advance(d time.Duration) {
	AdvanceTime(TimerFromDuration(d))
	ProcessTimers()
}

type fillCall struct {
	x, y, w, h int16
	c          Color
}

// mockDisplay records every call and keeps a framebuffer so tests can
// look at the resulting picture.
type mockDisplay struct {
	fills     []fillCall
	commands  []byte
	data      []byte
	selects   int
	deselects int
	resets    int
	pix       [ScreenWidth * ScreenHeight]Color
}

func (d *mockDisplay) Select()          { d.selects++ }
func (d *mockDisplay) Deselect()        { d.deselects++ }
func (d *mockDisplay) Reset()           { d.resets++ }
func (d *mockDisplay) Command(cmd byte) { d.commands = append(d.commands, cmd) }
func (d *mockDisplay) Data(b byte)      { d.data = append(d.data, b) }

func (d *mockDisplay) FillRectangle(x, y, w, h int16, c Color) {
	d.fills = append(d.fills, fillCall{x, y, w, h, c})
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			if xx < 0 || yy < 0 || xx >= ScreenWidth || yy >= ScreenHeight {
				continue
			}
			d.pix[int(yy)*ScreenWidth+int(xx)] = c
		}
	}
}

func (d *mockDisplay) at(x, y int) Color {
	return d.pix[y*ScreenWidth+x]
}

// columnRows returns the rows of column x painted in c, top to bottom.
func (d *mockDisplay) columnRows(x int, c Color) (top, bottom int, ok bool) {
	top, bottom = -1, -1
	for y := 0; y < ScreenHeight; y++ {
		if d.at(x, y) == c {
			if top < 0 {
				top = y
			}
			bottom = y
		}
	}
	return top, bottom, top >= 0
}

// mockAcquisition stands in for the DMA engine. With pattern set, Start
// fills the whole window at once; otherwise tests feed samples by hand.
type mockAcquisition struct {
	buf     []Sample
	period  time.Duration
	mode    AcquisitionMode
	written uint32
	starts  int
	stops   int
	overrun bool
	pattern func(i int) Sample
}

func (m *mockAcquisition) Start(buf []Sample, period time.Duration, mode AcquisitionMode) {
	m.buf = buf
	m.period = period
	m.mode = mode
	m.written = 0
	m.starts++
	if m.pattern != nil {
		for i := range buf {
			buf[i] = m.pattern(i)
		}
		m.written = uint32(len(buf))
	}
}

func (m *mockAcquisition) Written() uint32 { return m.written }
func (m *mockAcquisition) Stop()           { m.stops++ }

func (m *mockAcquisition) Overrun() bool {
	o := m.overrun
	m.overrun = false
	return o
}

// feed writes samples the way circular DMA would.
func (m *mockAcquisition) feed(vals ...Sample) {
	for _, v := range vals {
		if len(m.buf) > 0 {
			m.buf[m.written%uint32(len(m.buf))] = v
		}
		m.written++
	}
}

type mockSignal struct {
	started bool
	rate    uint32
	rates   []uint32
	err     error
}

func (m *mockSignal) Start(sine []uint16, ramp []uint8, rate uint32) error {
	if m.err != nil {
		return m.err
	}
	m.started = true
	m.rate = rate
	return nil
}

func (m *mockSignal) SetRate(rate uint32) {
	m.rate = rate
	m.rates = append(m.rates, rate)
}

type mockGPIO struct {
	outputs map[GPIOPin]bool
	inputs  map[GPIOPin]bool
	levels  map[GPIOPin]bool
	writes  int
}

func newMockGPIO() *mockGPIO {
	return &mockGPIO{
		outputs: make(map[GPIOPin]bool),
		inputs:  make(map[GPIOPin]bool),
		levels:  make(map[GPIOPin]bool),
	}
}

func (g *mockGPIO) ConfigureOutput(pin GPIOPin) error {
	g.outputs[pin] = true
	return nil
}

func (g *mockGPIO) ConfigureInputPullUp(pin GPIOPin) error {
	g.inputs[pin] = true
	g.levels[pin] = true
	return nil
}

func (g *mockGPIO) SetPin(pin GPIOPin, value bool) error {
	g.levels[pin] = value
	g.writes++
	return nil
}

func (g *mockGPIO) ReadPin(pin GPIOPin) bool {
	return g.levels[pin]
}
