package sim

import (
	"testing"
	"time"

	"goscope/core"
)

func resetClock(t *testing.T) {
	t.Helper()
	core.SetTime(0)
	core.ResetTimers()
	t.Cleanup(func() {
		core.ResetTimers()
		core.SetDelayFunc(nil)
	})
}

// millis reads back the sample time in milliseconds.
func millis(t time.Duration) core.Sample {
	return core.Sample(t / time.Millisecond)
}

func TestAcquisitionOneShot(t *testing.T) {
	resetClock(t)
	var clk Clock
	a := NewAcquisition(millis)
	buf := make([]core.Sample, 10)
	a.Start(buf, time.Millisecond, core.AcquireOneShot)

	clk.Advance(3500 * time.Microsecond)
	if got := a.Written(); got != 3 {
		t.Fatalf("Written() = %d after 3.5 periods, want 3", got)
	}
	clk.Advance(time.Second)
	if got := a.Written(); got != 10 {
		t.Fatalf("Written() = %d, want capped at 10", got)
	}
	for i, v := range buf {
		if v != core.Sample(i) {
			t.Errorf("buf[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestAcquisitionCircularKeepsNewestLap(t *testing.T) {
	resetClock(t)
	var clk Clock
	clk.Advance(5 * time.Millisecond)

	a := NewAcquisition(millis)
	buf := make([]core.Sample, 4)
	a.Start(buf, time.Millisecond, core.AcquireCircular)
	clk.Advance(10 * time.Millisecond)

	if got := a.Written(); got != 10 {
		t.Fatalf("Written() = %d, want 10", got)
	}
	// Samples 6..9 were taken at 11..14ms and sit at i%4.
	want := []core.Sample{13, 14, 11, 12}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %d, want %d", i, buf[i], want[i])
		}
	}

	a.Stop()
	clk.Advance(10 * time.Millisecond)
	if got := a.Written(); got != 10 {
		t.Errorf("Written() = %d after Stop, want 10", got)
	}
}

func TestAcquisitionOverrun(t *testing.T) {
	a := NewAcquisition(nil)
	a.InjectOverrun()
	if !a.Overrun() || a.Overrun() {
		t.Error("Overrun is not check-and-clear")
	}
}

func TestSignalOutPlayback(t *testing.T) {
	resetClock(t)
	var clk Clock
	s := &SignalOut{}
	if err := s.Start(nil, nil, 1); err != ErrNoWaveform {
		t.Errorf("Start with no tables: %v", err)
	}
	if err := s.Start(core.SineTable[:], core.RampTable[:], 1000*core.WaveTableLen); err != nil {
		t.Fatal(err)
	}
	if s.Frequency() != 1000 {
		t.Errorf("Frequency() = %d", s.Frequency())
	}

	quarter := 250 * time.Microsecond
	if got, want := s.Sine(quarter), core.Sample(core.SineTable[36]); got != want {
		t.Errorf("sine at quarter period = %d, want %d", got, want)
	}
	if got := s.Ramp(time.Millisecond - time.Microsecond); got < 250 {
		t.Errorf("ramp near end of period = %d", got)
	}

	// Changing the rate keeps the phase reached so far.
	clk.Advance(quarter)
	s.SetRate(2000 * core.WaveTableLen)
	if got := s.Sine(quarter); got != core.Sample(core.SineTable[36]) {
		t.Errorf("phase jumped on rate change: %d", got)
	}
	if got := s.Sine(quarter + 125*time.Microsecond); got != core.Sample(core.SineTable[72]) {
		t.Errorf("sine at half period after doubling = %d, want %d", got, core.SineTable[72])
	}
}

func TestFramebufferClipsAndPowers(t *testing.T) {
	f := NewFramebuffer()
	f.FillRectangle(-5, -5, 10, 10, core.Red)
	f.FillRectangle(core.ScreenWidth-2, core.ScreenHeight-2, 10, 10, core.Blue)

	if got := f.Count(core.Red); got != 25 {
		t.Errorf("red pixels = %d, want 25", got)
	}
	if got := f.Count(core.Blue); got != 4 {
		t.Errorf("blue pixels = %d, want 4", got)
	}
	if f.At(0, 0) != core.Red || f.At(-1, 0) != core.Black {
		t.Error("At returned the wrong colour")
	}

	rgba := make([]byte, core.ScreenWidth*core.ScreenHeight*4)
	f.WriteRGBA(rgba)
	if rgba[0] != 0 {
		t.Error("panel that is off should show black")
	}
	f.Select()
	f.Command(cmdDISPON)
	f.Deselect()
	f.WriteRGBA(rgba)
	if rgba[0] != 0xff || rgba[3] != 0xff {
		t.Errorf("first pixel RGBA = % x", rgba[:4])
	}
	if f.Unselected != 0 {
		t.Errorf("Unselected = %d", f.Unselected)
	}
}

func TestGPIOButtons(t *testing.T) {
	g := NewGPIO()
	if err := g.SetPin(LEDPin, true); err == nil {
		t.Error("SetPin on an unconfigured pin should fail")
	}
	if err := g.ConfigureInputPullUp(ButtonPins[0]); err != nil {
		t.Fatal(err)
	}
	if err := g.ConfigureOutput(ButtonPins[0]); err == nil {
		t.Error("reconfiguring an input as output should fail")
	}
	if !g.ReadPin(ButtonPins[0]) {
		t.Error("pull-up should read high")
	}
	g.Hold(ButtonPins[0], true)
	if g.ReadPin(ButtonPins[0]) {
		t.Error("held button should read low")
	}
}

func TestBoardRunsSweeps(t *testing.T) {
	resetClock(t)
	b := NewBoard()
	if err := b.Init(); err != nil {
		t.Fatalf("Init() = %v", err)
	}
	if !b.Display.On() || b.Display.Unselected != 0 {
		t.Fatalf("panel on=%v unselected=%d", b.Display.On(), b.Display.Unselected)
	}

	b.Run(2*time.Millisecond, 100*time.Microsecond)
	if n := b.Scope.Renderer().Sweeps(); n < 3 {
		t.Errorf("Sweeps() = %d after 2ms at 20us/div", n)
	}
	if b.Display.Count(core.Green) == 0 {
		t.Error("no trace drawn")
	}
	if b.Scope.Capture().StaleReads() != 0 {
		t.Errorf("StaleReads() = %d", b.Scope.Capture().StaleReads())
	}
}

func TestBoardButtons(t *testing.T) {
	resetClock(t)
	b := NewBoard()
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		b.Press(core.Button1, 30*time.Millisecond)
	}
	if got := b.Scope.Timebase().Current().Name; got != "1ms" {
		t.Errorf("timebase after five presses = %s, want 1ms", got)
	}

	b.Press(core.Button4, 30*time.Millisecond)
	if b.Signal.Frequency() != 3000 {
		t.Errorf("signal frequency = %d, want 3000", b.Signal.Frequency())
	}
	if b.GPIO.Level(LEDPin) != b.Scope.LED().On() {
		t.Error("indicator pin does not follow the LED state")
	}
}

func TestBoardStripChart(t *testing.T) {
	resetClock(t)
	b := NewBoard()
	b.Scope.Timebase().Set(len(core.Timebases) - 1)
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	if !b.Scope.Renderer().Strip().Active || b.Input.Mode() != core.AcquireCircular {
		t.Fatal("slowest timebase should run as a strip chart")
	}

	// One column is 50 samples at 64ms.
	b.Run(10*time.Second, 10*time.Millisecond)
	if got := b.Scope.Renderer().Strip().Shifts(); got < 2 || got > 4 {
		t.Errorf("Shifts() = %d after 10s, want about 3", got)
	}
	if b.Scope.Capture().StaleReads() != 0 {
		t.Errorf("StaleReads() = %d", b.Scope.Capture().StaleReads())
	}
}
