package core

import "time"

// TimerFreq is the system tick rate. The RP2040 TIMER peripheral counts
// microseconds, and the host build follows the same unit.
const TimerFreq = 1000000

var (
	bootTime uint32

	// delayFunc backs DelayMS. The simulator swaps it for a virtual clock.
	delayFunc = time.Sleep
)

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	return getSystemTicks()
}

// SetTime sets the current system time (called by the target clock pump
// and by host tests)
func SetTime(ticks uint32) {
	setSystemTicks(ticks)
}

// AdvanceTime moves the system time forward by ticks.
func AdvanceTime(ticks uint32) {
	setSystemTicks(getSystemTicks() + ticks)
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return us * (TimerFreq / 1000000)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return ticks / (TimerFreq / 1000000)
}

// TimerFromDuration converts a duration to timer ticks, truncating.
func TimerFromDuration(d time.Duration) uint32 {
	return uint32(int64(d) * TimerFreq / int64(time.Second))
}

// TimerInit records the boot time used by Uptime.
func TimerInit() {
	bootTime = GetTime()
}

// Uptime returns ticks since TimerInit. Wraps after ~71 minutes at 1 MHz.
func Uptime() uint32 {
	return GetTime() - bootTime
}

// timeBefore reports whether a is earlier than b, tolerating counter wrap.
func timeBefore(a, b uint32) bool {
	return int32(a-b) < 0
}

// SetDelayFunc replaces the sleep used by DelayMS.
func SetDelayFunc(f func(time.Duration)) {
	if f == nil {
		f = time.Sleep
	}
	delayFunc = f
}

// DelayMS blocks for ms milliseconds. Only used during init sequences
// (display reset pulses); the runtime loop never sleeps on it.
func DelayMS(ms uint32) {
	delayFunc(time.Duration(ms) * time.Millisecond)
}

// ProcessTimers runs every scheduled timer that is due
func ProcessTimers() {
	currentTime = GetTime()
	TimerDispatch()
}
