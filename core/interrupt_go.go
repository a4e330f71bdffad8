//go:build !tinygo

package core

// irqState stands in for interrupt.State on the host, where nothing
// preempts the foreground loop.
type irqState uintptr

func disableInterrupts() irqState {
	return 0
}

func restoreInterrupts(irqState) {}
