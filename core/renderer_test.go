package core

import "testing"

type rendererRig struct {
	disp    *mockDisplay
	drv     *mockAcquisition
	buf     SampleBuffer
	capture *Capture
	tb      *Timebase
	led     LED
	gpio    *mockGPIO
	r       Renderer
}

func newRendererRig(t *testing.T, index int, pattern func(i int) Sample) *rendererRig {
	t.Helper()
	resetCore(t)
	rig := &rendererRig{
		disp: &mockDisplay{},
		drv:  &mockAcquisition{pattern: pattern},
		tb:   NewTimebase(index),
		gpio: newMockGPIO(),
	}
	rig.capture = NewCapture(&rig.buf, rig.drv)
	if err := rig.led.Configure(rig.gpio, 25); err != nil {
		t.Fatal(err)
	}
	rig.r.Configure(rig.disp, rig.capture, rig.tb, &rig.led, RendererConfig{
		Top:        8,
		Bottom:     ScreenHeight - 1,
		Foreground: Green,
		Background: Black,
	})
	return rig
}

func (rig *rendererRig) start() {
	tb := rig.tb.Current()
	rig.capture.StartAcquisitionWindow(tb.Period, AcquireOneShot, tb.SweepSamples())
}

func TestRendererSnapshotMidSweep(t *testing.T) {
	// Sample i holds its own index so each column's envelope shows which
	// offsets were read.
	rig := newRendererRig(t, 2, func(i int) Sample { return Sample(i % 4096) })
	rig.start()
	rig.r.Begin()

	for c := 0; c < 40; c++ {
		if rig.r.Step() {
			t.Fatal("sweep finished early")
		}
	}
	// Button press mid-sweep: the remaining columns keep the old stride
	rig.tb.Advance()
	for !rig.r.Step() {
	}

	sw := rig.r.Sweep()
	if sw.Samples != 5 || sw.Setting != 2 || !sw.Complete || sw.Column != ScreenWidth {
		t.Fatalf("sweep state = %+v", sw)
	}
	scale := rig.r.Scale()
	for c := 0; c < ScreenWidth; c++ {
		want := scale.Span(Sample(c*5), Sample(c*5+4))
		if got := rig.r.Column(c); got != want {
			t.Fatalf("column %d span %+v, want %+v", c, got, want)
		}
	}

	// The next sweep uses the timebase selected now
	rig.start()
	rig.r.Begin()
	if rig.r.Sweep().Samples != 10 {
		t.Errorf("next sweep samples = %d, want 10", rig.r.Sweep().Samples)
	}
}

func TestRendererSquareWaveFullHeight(t *testing.T) {
	rig := newRendererRig(t, 5, func(i int) Sample {
		if (i/10)%2 == 0 {
			return 0
		}
		return SampleMax
	})
	rig.start()
	rig.r.RenderSweep()

	for c := 0; c < ScreenWidth; c++ {
		top, bottom, ok := rig.disp.columnRows(c, Green)
		if !ok || top != 8 || bottom != ScreenHeight-1 {
			t.Fatalf("column %d drawn rows %d..%d (ok=%v), want 8..127", c, top, bottom, ok)
		}
	}
}

func TestRendererErasesPreviousSpan(t *testing.T) {
	level := Sample(SampleMax)
	rig := newRendererRig(t, 0, func(int) Sample { return level })
	rig.start()
	rig.r.RenderSweep()

	level = 0
	rig.start()
	rig.r.RenderSweep()

	for c := 0; c < ScreenWidth; c++ {
		if got := rig.disp.at(c, 8); got != Black {
			t.Fatalf("column %d top row still %#04x after the trace moved", c, got)
		}
		if got := rig.disp.at(c, ScreenHeight-1); got != Green {
			t.Fatalf("column %d bottom row %#04x, want trace colour", c, got)
		}
	}

	// A third identical sweep sends nothing to the panel
	before := len(rig.disp.fills)
	rig.start()
	rig.r.RenderSweep()
	if len(rig.disp.fills) != before {
		t.Errorf("unchanged sweep issued %d fills", len(rig.disp.fills)-before)
	}
}

func TestRendererIndicatorAndCount(t *testing.T) {
	rig := newRendererRig(t, 0, func(int) Sample { return 2000 })
	for i := 0; i < 3; i++ {
		rig.start()
		rig.r.RenderSweep()
	}
	if rig.r.Sweeps() != 3 {
		t.Errorf("Sweeps() = %d, want 3", rig.r.Sweeps())
	}
	if !rig.led.On() || !rig.gpio.levels[25] {
		t.Error("indicator should be on after an odd number of sweeps")
	}

	// Step on a finished sweep is a no-op
	fills := len(rig.disp.fills)
	if !rig.r.Step() || len(rig.disp.fills) != fills {
		t.Error("Step after completion should do nothing")
	}
}

func TestRendererStaleSweepStillDraws(t *testing.T) {
	rig := newRendererRig(t, 5, nil)
	rig.start()
	rig.drv.feed(make([]Sample, 100)...)
	rig.r.RenderSweep()

	if rig.capture.StaleReads() == 0 {
		t.Error("reading ahead of the driver should be recorded")
	}
	if rig.r.Sweep().Column != ScreenWidth {
		t.Errorf("sweep stopped at column %d", rig.r.Sweep().Column)
	}
}
