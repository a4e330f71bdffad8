package core

import "time"

// Capture binds the sample buffer to the acquisition driver and tracks
// when a one-shot window has been filled.
//
// Readiness follows the fill-time rule: StartAcquisition arms a scheduler
// timer for start + period*window, and its handler raises the ready flag.
// Reads are never refused. A read that reaches past what the driver has
// written is recorded as EvtStaleRead and returns whatever the buffer
// holds.
type Capture struct {
	buf *SampleBuffer
	drv AcquisitionDriver

	period time.Duration
	mode   AcquisitionMode
	window int

	startTime  uint32
	ready      bool
	readyTimer Timer

	overruns   uint32
	staleReads uint32
}

// NewCapture creates a capture over buf fed by drv.
func NewCapture(buf *SampleBuffer, drv AcquisitionDriver) *Capture {
	c := &Capture{}
	c.init(buf, drv)
	return c
}

func (c *Capture) init(buf *SampleBuffer, drv AcquisitionDriver) {
	c.buf = buf
	c.drv = drv
	c.window = buf.Len()
	c.readyTimer.Handler = func(*Timer) uint8 {
		c.ready = true
		return SF_DONE
	}
}

// StartAcquisition starts sampling over the whole usable buffer.
func (c *Capture) StartAcquisition(period time.Duration, mode AcquisitionMode) {
	c.StartAcquisitionWindow(period, mode, c.buf.Len())
}

// StartAcquisitionWindow starts sampling into the first count samples of
// the buffer. count is clamped to the usable length.
func (c *Capture) StartAcquisitionWindow(period time.Duration, mode AcquisitionMode, count int) {
	CancelTimer(&c.readyTimer)
	c.drv.Stop()

	if count > c.buf.Len() {
		count = c.buf.Len()
	}
	if count < 1 {
		count = 1
	}
	c.period = period
	c.mode = mode
	c.window = count
	c.ready = false

	c.startTime = GetTime()
	c.drv.Start(c.buf.Window(count), period, mode)

	c.readyTimer.WakeTime = c.startTime + TimerFromDuration(c.FillTime())
	ScheduleTimer(&c.readyTimer)
}

// Stop halts the driver and disarms the ready timer.
func (c *Capture) Stop() {
	CancelTimer(&c.readyTimer)
	c.drv.Stop()
}

// FillTime is how long the current window takes to fill once.
func (c *Capture) FillTime() time.Duration {
	return c.period * time.Duration(c.window)
}

// Ready reports whether one full fill time has elapsed since the last start.
func (c *Capture) Ready() bool {
	return c.ready
}

// Read returns a view of count samples at offset within the active window.
func (c *Capture) Read(offset, count int) []Sample {
	start, end := clampRange(offset, count, c.window)
	if written := c.drv.Written(); written < uint32(end) {
		c.staleReads++
		RecordTiming(EvtStaleRead, GetTime(), uint32(end), written)
	}
	return c.buf.Read(start, end-start)
}

// Written forwards the driver's running sample count.
func (c *Capture) Written() uint32 {
	return c.drv.Written()
}

// Overrun checks and clears the converter overrun flag.
func (c *Capture) Overrun() bool {
	if !c.drv.Overrun() {
		return false
	}
	c.overruns++
	RecordTiming(EvtOverrun, GetTime(), c.overruns, 0)
	return true
}

// Window returns the number of samples in the active acquisition.
func (c *Capture) Window() int {
	return c.window
}

// Period returns the sampling period of the active acquisition.
func (c *Capture) Period() time.Duration {
	return c.period
}

// Mode returns the active acquisition mode.
func (c *Capture) Mode() AcquisitionMode {
	return c.mode
}

// Overruns returns how many overruns have been seen since boot.
func (c *Capture) Overruns() uint32 {
	return c.overruns
}

// StaleReads returns how many reads ran ahead of the driver.
func (c *Capture) StaleReads() uint32 {
	return c.staleReads
}
