package sim

import (
	"time"

	"goscope/core"
)

// Probe is the analog input: the level seen at virtual time t.
type Probe func(t time.Duration) core.Sample

// Acquisition is a core.AcquisitionDriver that samples a Probe at the
// requested period. Samples are produced lazily, whenever Written is
// asked, from the number of periods elapsed on the core clock.
type Acquisition struct {
	probe Probe

	buf     []core.Sample
	period  time.Duration
	mode    core.AcquisitionMode
	start   uint32
	written uint32
	running bool

	overrun bool
	starts  int
}

// NewAcquisition returns a driver sampling probe.
func NewAcquisition(probe Probe) *Acquisition {
	return &Acquisition{probe: probe}
}

// SetProbe changes the input. It takes effect for samples not yet taken.
func (a *Acquisition) SetProbe(p Probe) {
	a.probe = p
}

func (a *Acquisition) Start(buf []core.Sample, period time.Duration, mode core.AcquisitionMode) {
	a.buf = buf
	a.period = period
	a.mode = mode
	a.start = core.GetTime()
	a.written = 0
	a.running = period > 0 && len(buf) > 0
	a.starts++
}

// Written returns the number of samples taken since Start. One-shot
// acquisitions stop at the buffer length; circular ones keep counting and
// overwrite the oldest samples.
func (a *Acquisition) Written() uint32 {
	if !a.running {
		return a.written
	}
	due := uint32(uint64(tickTime(core.GetTime()-a.start)) / uint64(a.period))
	if a.mode == core.AcquireOneShot && due > uint32(len(a.buf)) {
		due = uint32(len(a.buf))
	}
	a.fill(due)
	return a.written
}

func (a *Acquisition) fill(due uint32) {
	n := uint32(len(a.buf))
	from := a.written
	if due-from > n {
		// Only the newest lap survives in the ring.
		from = due - n
	}
	origin := tickTime(a.start)
	for i := from; i < due; i++ {
		var v core.Sample
		if a.probe != nil {
			v = a.probe(origin + time.Duration(i)*a.period)
		}
		if v > core.SampleMax {
			v = core.SampleMax
		}
		a.buf[i%n] = v
	}
	a.written = due
}

// Stop freezes the sample count at its current value.
func (a *Acquisition) Stop() {
	if a.running {
		a.Written()
	}
	a.running = false
}

// Overrun reports and clears an injected overrun.
func (a *Acquisition) Overrun() bool {
	o := a.overrun
	a.overrun = false
	return o
}

// InjectOverrun makes the next Overrun call report true.
func (a *Acquisition) InjectOverrun() {
	a.overrun = true
}

// Starts returns how many acquisitions have been started.
func (a *Acquisition) Starts() int {
	return a.starts
}

// Mode returns the mode of the last Start.
func (a *Acquisition) Mode() core.AcquisitionMode {
	return a.mode
}

// Period returns the sampling period of the last Start.
func (a *Acquisition) Period() time.Duration {
	return a.period
}
