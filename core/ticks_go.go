//go:build !tinygo

package core

var systemTicks uint32

// getSystemTicks returns the tick counter. Host builds drive it by hand
// through SetTime/AdvanceTime.
func getSystemTicks() uint32 {
	return systemTicks
}

func setSystemTicks(ticks uint32) {
	systemTicks = ticks
}
