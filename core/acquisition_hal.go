package core

import "time"

// AcquisitionMode selects what the driver does when it reaches the end of
// the buffer.
type AcquisitionMode uint8

const (
	// AcquireOneShot stops after the last sample (fixed timebases).
	AcquireOneShot AcquisitionMode = iota
	// AcquireCircular wraps to offset 0 and keeps going (strip chart).
	AcquireCircular
)

func (m AcquisitionMode) String() string {
	if m == AcquireCircular {
		return "circular"
	}
	return "one-shot"
}

// AcquisitionDriver moves ADC conversions into a buffer without CPU help.
// On the RP2040 this is a PWM-paced DMA channel reading the ADC result
// register; the simulator synthesizes samples from a virtual clock.
type AcquisitionDriver interface {
	// Start restarts sampling at offset 0 of buf, one conversion every
	// period. Any previous acquisition is abandoned.
	Start(buf []Sample, period time.Duration, mode AcquisitionMode)

	// Written returns the number of samples stored since Start. It is
	// monotonic; in circular mode it keeps counting past len(buf).
	Written() uint32

	// Overrun reports and clears the converter's sticky error flag.
	Overrun() bool

	// Stop halts sampling.
	Stop()
}

// Global singleton used by core code.
var acquisitionDriver AcquisitionDriver

// SetAcquisitionDriver is called by target-specific code to register its driver.
func SetAcquisitionDriver(d AcquisitionDriver) {
	acquisitionDriver = d
}

// MustAcquisition returns the configured driver or panics if missing.
func MustAcquisition() AcquisitionDriver {
	if acquisitionDriver == nil {
		panic("acquisition driver not configured")
	}
	return acquisitionDriver
}
