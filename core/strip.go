package core

// StripState is the scrolling strip-chart mode. Acquisition runs
// circular; every time a column's worth of new samples has arrived the
// newest ones are reduced to a span, pushed into the history ring and the
// plot scrolls left by one column.
type StripState struct {
	Active   bool
	Samples  int
	Setting  int
	consumed uint32 // driver Written() value at the last shift
	shifts   uint32

	history [ScreenWidth]Span
	head    int // oldest column, shown at the left edge
}

// Strip returns the strip-chart state.
func (r *Renderer) Strip() *StripState {
	return &r.strip
}

// Shifts returns how many columns have scrolled in since BeginStrip.
func (s *StripState) Shifts() uint32 {
	return s.shifts
}

// History returns the span shown at screen column x.
func (s *StripState) History(x int) Span {
	if x < 0 || x >= ScreenWidth {
		return emptySpan
	}
	return s.history[(s.head+x)%ScreenWidth]
}

// BeginStrip switches the renderer to strip-chart mode using the timebase
// selected right now. The capture must already be running circular.
func (r *Renderer) BeginStrip() {
	idx := r.timebase.Index()
	r.strip = StripState{
		Active:   true,
		Samples:  r.timebase.SamplesPerColumn(idx),
		Setting:  idx,
		consumed: r.capture.Written(),
	}
	for i := range r.strip.history {
		r.strip.history[i] = emptySpan
	}
	r.sweep = SweepState{Complete: true}
	RecordTiming(EvtSweepStart, GetTime(), uint32(idx), uint32(r.strip.Samples))
}

// EndStrip leaves strip-chart mode.
func (r *Renderer) EndStrip() {
	r.strip.Active = false
}

// StripStep scrolls in at most one new column. It reports whether the
// plot moved.
func (r *Renderer) StripStep() bool {
	s := &r.strip
	if !s.Active {
		return false
	}
	written := r.capture.Written()
	n := s.Samples
	if written-s.consumed < uint32(n) {
		return false
	}
	s.consumed = written

	span := emptySpan
	if lo, hi, ok := r.newestEnvelope(written, n); ok {
		span = r.scale.Span(lo, hi)
	}

	s.history[s.head] = span
	s.head = (s.head + 1) % ScreenWidth
	s.shifts++

	for x := 0; x < ScreenWidth; x++ {
		r.drawColumn(x, s.History(x))
	}
	if r.indicator != nil {
		r.indicator.Toggle()
	}
	RecordTiming(EvtStripShift, GetTime(), written, s.shifts)
	return true
}

// newestEnvelope reduces the n samples ending at running count written.
// The circular window may wrap, so this takes at most two reads, and a
// window shorter than n limits the read to the whole window.
func (r *Renderer) newestEnvelope(written uint32, n int) (lo, hi Sample, ok bool) {
	size := r.capture.Window()
	if n > size {
		n = size
	}
	if uint32(n) > written {
		n = int(written)
	}
	if n <= 0 {
		return 0, 0, false
	}
	end := int(written % uint32(size))
	start := end - n
	if start >= 0 {
		return Envelope(r.capture.Read(start, n))
	}

	// Wrapped: the tail of the window, then its head.
	lo, hi, ok = Envelope(r.capture.Read(size+start, -start))
	lo2, hi2, ok2 := Envelope(r.capture.Read(0, end))
	switch {
	case !ok:
		return lo2, hi2, ok2
	case !ok2:
		return lo, hi, ok
	}
	if lo2 < lo {
		lo = lo2
	}
	if hi2 > hi {
		hi = hi2
	}
	return lo, hi, true
}
