//go:build tinygo

package core

import "sync/atomic"

// Written from the main loop clock pump, read from interrupt handlers.
var systemTicks uint32

func getSystemTicks() uint32 {
	return atomic.LoadUint32(&systemTicks)
}

func setSystemTicks(ticks uint32) {
	atomic.StoreUint32(&systemTicks, ticks)
}
