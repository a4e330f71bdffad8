package core

import (
	"testing"
	"time"
)

// stripRig runs the strip chart over a buffer shorter than one column's
// worth of samples times the screen width.
func newStripRig(t *testing.T, bufLen int) *rendererRig {
	t.Helper()
	rig := newRendererRig(t, len(Timebases)-1, nil)
	rig.buf.SetLen(bufLen)
	rig.capture.StartAcquisition(rig.tb.Current().Period, AcquireCircular)
	rig.r.BeginStrip()
	return rig
}

func TestStripWaitsForFullColumn(t *testing.T) {
	rig := newStripRig(t, 400)
	rig.drv.feed(make([]Sample, 49)...)
	if rig.r.StripStep() {
		t.Fatal("scrolled with fewer than N new samples")
	}
	rig.drv.feed(0)
	if !rig.r.StripStep() {
		t.Fatal("did not scroll after N samples")
	}
	if rig.r.StripStep() {
		t.Error("scrolled twice for one column of samples")
	}
	if rig.r.Strip().Shifts() != 1 {
		t.Errorf("Shifts() = %d", rig.r.Strip().Shifts())
	}
}

func TestStripNewestSamplesAcrossWrap(t *testing.T) {
	rig := newStripRig(t, 120)

	// Two columns of low values, then a column that straddles the wrap
	// point (samples 100..149 land at 100..119 and 0..29).
	for i := 0; i < 100; i++ {
		rig.drv.feed(100)
	}
	rig.r.StripStep()
	for i := 0; i < 50; i++ {
		rig.drv.feed(Sample(3000 + i))
	}
	if !rig.r.StripStep() {
		t.Fatal("no scroll after the wrapping column")
	}

	scale := rig.r.Scale()
	want := scale.Span(3000, 3049)
	if got := rig.r.Strip().History(ScreenWidth - 1); got != want {
		t.Errorf("newest column %+v, want %+v", got, want)
	}
	if got := rig.r.Column(ScreenWidth - 1); got != want {
		t.Errorf("drawn newest column %+v, want %+v", got, want)
	}
	if got := rig.r.Column(ScreenWidth - 2); got != scale.Span(100, 100) {
		t.Errorf("previous column %+v did not scroll left", got)
	}
	if rig.capture.StaleReads() != 0 {
		t.Errorf("strip reads ran past the written data %d times", rig.capture.StaleReads())
	}
}

func TestStripWindowSmallerThanColumn(t *testing.T) {
	rig := newStripRig(t, 30)
	// N is 50 but only 30 samples exist: the read is clamped to the window
	for i := 0; i < 75; i++ {
		rig.drv.feed(Sample(i * 10))
	}
	if !rig.r.StripStep() {
		t.Fatal("no scroll")
	}
	// The newest 30 samples are values 45..74 (times ten)
	want := rig.r.Scale().Span(450, 740)
	if got := rig.r.Strip().History(ScreenWidth - 1); got != want {
		t.Errorf("newest column %+v, want %+v", got, want)
	}
}

func TestStripOnlyChangedColumnsRedrawn(t *testing.T) {
	rig := newStripRig(t, 400)
	for col := 0; col < ScreenWidth; col++ {
		rig.drv.feed(make([]Sample, 50)...)
		rig.r.StripStep()
	}
	// Screen is now a flat line; one more identical column changes nothing
	before := len(rig.disp.fills)
	rig.drv.feed(make([]Sample, 50)...)
	rig.r.StripStep()
	if n := len(rig.disp.fills) - before; n != 0 {
		t.Errorf("flat scroll issued %d fills, want 0", n)
	}

	// A spike scrolls in: only the rightmost column changes
	spike := make([]Sample, 50)
	spike[10] = SampleMax
	before = len(rig.disp.fills)
	rig.drv.feed(spike...)
	rig.r.StripStep()
	if n := len(rig.disp.fills) - before; n != 2 {
		t.Errorf("spike scroll issued %d fills, want erase + draw", n)
	}
}

func TestStripTogglesIndicatorPerShift(t *testing.T) {
	rig := newStripRig(t, 400)
	for i := 0; i < 3; i++ {
		rig.drv.feed(make([]Sample, 50)...)
		rig.r.StripStep()
	}
	if !rig.led.On() {
		t.Error("indicator should be on after three shifts")
	}
	if rig.drv.mode != AcquireCircular || rig.drv.period != 64*time.Millisecond {
		t.Errorf("strip acquisition mode %v period %v", rig.drv.mode, rig.drv.period)
	}
}
