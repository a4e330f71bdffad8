//go:build tinygo

package core

import "runtime/interrupt"

// Guards the timer list and the button event queue against the GPIO and
// DMA interrupt handlers.
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
