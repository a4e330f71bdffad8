package core

// SweepState tracks one fixed-timebase sweep. Samples and Setting are
// captured once at Begin so a button press mid-sweep cannot change the
// stride of the columns still to be drawn.
type SweepState struct {
	Column   int
	Samples  int
	Setting  int
	Complete bool
}

// Renderer turns captured samples into column spans on the plot area.
// Each column is erased and redrawn on its own, so the panel never needs
// a full-frame transfer.
type Renderer struct {
	disp      DisplayDriver
	capture   *Capture
	timebase  *Timebase
	indicator *LED

	scale      Scale
	originX    int16
	foreground Color
	background Color

	// trace holds what is currently drawn in every column.
	trace [ScreenWidth]Span

	sweep  SweepState
	strip  StripState
	sweeps uint32
}

// RendererConfig places the plot on the panel.
type RendererConfig struct {
	OriginX    int16
	Top        int16
	Bottom     int16
	Foreground Color
	Background Color
}

// Configure binds the renderer to its collaborators. indicator may be nil.
func (r *Renderer) Configure(disp DisplayDriver, capture *Capture, tb *Timebase, indicator *LED, cfg RendererConfig) {
	r.disp = disp
	r.capture = capture
	r.timebase = tb
	r.indicator = indicator
	r.scale = Scale{Top: cfg.Top, Bottom: cfg.Bottom}
	r.originX = cfg.OriginX
	r.foreground = cfg.Foreground
	r.background = cfg.Background
	for i := range r.trace {
		r.trace[i] = emptySpan
	}
	r.sweep = SweepState{Complete: true}
}

// Scale returns the value-to-row mapping in use.
func (r *Renderer) Scale() Scale {
	return r.scale
}

// Sweep returns the state of the current fixed sweep.
func (r *Renderer) Sweep() SweepState {
	return r.sweep
}

// Sweeps returns how many fixed sweeps have completed.
func (r *Renderer) Sweeps() uint32 {
	return r.sweeps
}

// Column returns the span currently drawn in column c.
func (r *Renderer) Column(c int) Span {
	if c < 0 || c >= ScreenWidth {
		return emptySpan
	}
	return r.trace[c]
}

// Begin starts a fixed sweep with the timebase selected right now.
func (r *Renderer) Begin() {
	idx := r.timebase.Index()
	r.sweep = SweepState{
		Samples: r.timebase.SamplesPerColumn(idx),
		Setting: idx,
	}
	RecordTiming(EvtSweepStart, GetTime(), uint32(idx), uint32(r.sweep.Samples))
}

// Step draws the next column of the current sweep and reports whether the
// sweep is complete. Calling Step on a complete sweep does nothing.
func (r *Renderer) Step() bool {
	if r.sweep.Complete {
		return true
	}
	c := r.sweep.Column
	n := r.sweep.Samples

	span := emptySpan
	if lo, hi, ok := Envelope(r.capture.Read(c*n, n)); ok {
		span = r.scale.Span(lo, hi)
	}
	r.drawColumn(c, span)

	r.sweep.Column++
	if r.sweep.Column >= ScreenWidth {
		r.finishSweep()
	}
	return r.sweep.Complete
}

// RenderSweep begins a sweep and draws all of its columns.
func (r *Renderer) RenderSweep() {
	r.Begin()
	for !r.Step() {
	}
}

func (r *Renderer) finishSweep() {
	r.sweep.Complete = true
	r.sweeps++
	if r.indicator != nil {
		r.indicator.Toggle()
	}
	RecordTiming(EvtSweepDone, GetTime(), uint32(r.sweep.Setting), uint32(r.sweep.Column))
}

// drawColumn replaces the span drawn at column c. Unchanged columns are
// left alone.
func (r *Renderer) drawColumn(c int, span Span) {
	prev := r.trace[c]
	if prev == span {
		return
	}
	x := r.originX + int16(c)
	if !prev.Empty() {
		r.disp.FillRectangle(x, prev.Top, 1, prev.Height(), r.background)
	}
	if !span.Empty() {
		r.disp.FillRectangle(x, span.Top, 1, span.Height(), r.foreground)
	}
	r.trace[c] = span
}

// Clear erases every drawn column.
func (r *Renderer) Clear() {
	for c := range r.trace {
		r.drawColumn(c, emptySpan)
	}
}
