package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TimingEvent captures one instrument event for post-mortem analysis
type TimingEvent struct {
	EventType uint8  // Event type code
	Clock     uint32 // System clock at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtSweepStart = 1 // Value1 = timebase index, Value2 = samples per column
	EvtSweepDone  = 2 // Value1 = timebase index, Value2 = columns drawn
	EvtTimebase   = 3 // Value1 = new timebase index
	EvtFrequency  = 4 // Value1 = new frequency in Hz
	EvtStaleRead  = 5 // Value1 = offset+count requested, Value2 = samples written
	EvtOverrun    = 6 // Value1 = overrun count
	EvtStripShift = 7 // Value1 = samples consumed (low 32 bits)
	EvtButton     = 8 // Value1 = button number
)

const (
	TimingRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (set by platform code)
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled gates DebugPrintln; timing capture is always on
	debugEnabled bool

	timingRing     [TimingRingSize]TimingEvent
	timingRingHead uint8
	timingEnabled  = true
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(string) {}
	}
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled {
		debugPrintln(msg)
	}
}

// RecordTiming captures an event in the ring buffer. Safe to call from the
// render loop; it never blocks or allocates.
func RecordTiming(eventType uint8, clock, value1, value2 uint32) {
	if !timingEnabled {
		return
	}
	idx := timingRingHead
	timingRing[idx] = TimingEvent{
		EventType: eventType,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	}
	timingRingHead = (idx + 1) % TimingRingSize
}

// TimingEvents appends the recorded events to dst, oldest first.
func TimingEvents(dst []TimingEvent) []TimingEvent {
	start := timingRingHead
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := timingRing[(start+i)%TimingRingSize]
		if evt.EventType == 0 {
			continue
		}
		dst = append(dst, evt)
	}
	return dst
}

// EventName returns the short name printed in ring dumps
func EventName(eventType uint8) string {
	switch eventType {
	case EvtSweepStart:
		return "SWEEP_START"
	case EvtSweepDone:
		return "SWEEP_DONE"
	case EvtTimebase:
		return "TIMEBASE"
	case EvtFrequency:
		return "FREQUENCY"
	case EvtStaleRead:
		return "STALE_READ!"
	case EvtOverrun:
		return "OVERRUN!"
	case EvtStripShift:
		return "STRIP_SHIFT"
	case EvtButton:
		return "BUTTON"
	}
	return "UNKNOWN"
}

// DumpTimingRing writes the ring through the debug writer, oldest first.
// It bypasses SetDebugEnabled so a crash handler can always dump.
func DumpTimingRing() {
	debugPrintln("[TIMING] === Timing Ring Dump ===")
	start := timingRingHead
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := &timingRing[(start+i)%TimingRingSize]
		if evt.EventType == 0 {
			continue
		}
		debugPrintln("[TIMING] " + EventName(evt.EventType) +
			" clock=" + utoa(evt.Clock) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[TIMING] === End Dump ===")
}

// ClearTimingRing clears the timing buffer
func ClearTimingRing() {
	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingRingHead = 0
}
