// Package sim provides host implementations of the instrument drivers so
// the real core.Scope can run on a desktop or in tests.
//
// Every fake is driven by the core virtual clock: nothing happens between
// calls to Clock.Advance, which makes simulations repeatable.
package sim

import (
	"time"

	"goscope/core"
)

// Clock pumps the core tick counter and scheduler, standing in for the
// target main loop's time update.
type Clock struct {
	elapsed time.Duration
}

// Advance moves virtual time forward by d and runs due timers.
func (c *Clock) Advance(d time.Duration) {
	c.elapsed += d
	core.AdvanceTime(core.TimerFromDuration(d))
	core.ProcessTimers()
}

// Sleep has the signature core.SetDelayFunc expects, so init delays move
// virtual time instead of blocking.
func (c *Clock) Sleep(d time.Duration) {
	c.Advance(d)
}

// Elapsed returns the virtual time advanced so far.
func (c *Clock) Elapsed() time.Duration {
	return c.elapsed
}

// tickTime converts a tick count to a duration since tick zero.
func tickTime(ticks uint32) time.Duration {
	return time.Duration(ticks) * time.Second / core.TimerFreq
}
