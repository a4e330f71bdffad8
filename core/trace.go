package core

import "goscope/protocol"

// TraceWriter sends one framed trace message to the host.
type TraceWriter func(frame []byte) error

// Tracer frames instrument events onto the debug link. With no writer
// set every call is a no-op. Write errors are counted and dropped.
type Tracer struct {
	enc      protocol.TraceEncoder
	out      TraceWriter
	failures uint32
}

// SetOutput installs the frame writer; nil disables tracing.
func (t *Tracer) SetOutput(w TraceWriter) {
	t.out = w
}

// Failures returns how many frames the writer rejected.
func (t *Tracer) Failures() uint32 {
	return t.failures
}

func (t *Tracer) send(frame []byte) {
	if err := t.out(frame); err != nil {
		t.failures++
	}
}

// Sweep reports a finished sweep.
func (t *Tracer) Sweep(setting, samples int, sweeps uint32) {
	if t.out == nil {
		return
	}
	t.send(t.enc.Sweep(uint32(setting), uint32(samples), sweeps, GetTime()))
}

// Timebase reports the selected timebase.
func (t *Tracer) Timebase(setting int, tb TimebaseSetting) {
	if t.out == nil {
		return
	}
	t.send(t.enc.Timebase(uint32(setting), uint32(tb.PerDivision.Microseconds()), tb.Strip))
}

// Frequency reports the signal generator frequency.
func (t *Tracer) Frequency(hz uint32) {
	if t.out == nil {
		return
	}
	t.send(t.enc.Frequency(hz))
}

// Overrun reports the running overrun count.
func (t *Tracer) Overrun(count uint32) {
	if t.out == nil {
		return
	}
	t.send(t.enc.Overrun(count))
}

// Log sends a debug line. It has the DebugWriter signature so targets can
// route DebugPrintln through the trace link.
func (t *Tracer) Log(msg string) {
	if t.out == nil {
		return
	}
	t.send(t.enc.Log(msg))
}
