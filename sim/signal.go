package sim

import (
	"errors"
	"time"

	"goscope/core"
)

var ErrNoWaveform = errors.New("sim: empty waveform table")

// SignalOut is a core.SignalDriver that plays the tables back in virtual
// time. Sine and Ramp return the DAC levels at a given instant, so the
// sine output can be looped back into an Acquisition probe.
type SignalOut struct {
	sine []uint16
	ramp []uint8
	rate uint32

	// origin is where the current rate took over, so rate changes do not
	// jump the phase backwards.
	origin time.Duration
	phase  uint64
}

func (s *SignalOut) Start(sine []uint16, ramp []uint8, rate uint32) error {
	if len(sine) == 0 || len(ramp) == 0 {
		return ErrNoWaveform
	}
	s.sine = sine
	s.ramp = ramp
	s.rate = rate
	s.origin = tickTime(core.GetTime())
	s.phase = 0
	return nil
}

func (s *SignalOut) SetRate(rate uint32) {
	now := tickTime(core.GetTime())
	s.phase = s.index(now)
	s.origin = now
	s.rate = rate
}

// Rate returns the table playback rate in entries per second.
func (s *SignalOut) Rate() uint32 {
	return s.rate
}

// Frequency returns the waveform frequency in Hz.
func (s *SignalOut) Frequency() uint32 {
	if len(s.sine) == 0 {
		return 0
	}
	return s.rate / uint32(len(s.sine))
}

func (s *SignalOut) index(t time.Duration) uint64 {
	if t < s.origin {
		t = s.origin
	}
	return s.phase + uint64(t-s.origin)*uint64(s.rate)/uint64(time.Second)
}

// Sine returns the 12-bit sine output at t. It has the Probe signature.
func (s *SignalOut) Sine(t time.Duration) core.Sample {
	if len(s.sine) == 0 {
		return 0
	}
	return core.Sample(s.sine[s.index(t)%uint64(len(s.sine))])
}

// Ramp returns the 8-bit ramp output at t.
func (s *SignalOut) Ramp(t time.Duration) uint8 {
	if len(s.ramp) == 0 {
		return 0
	}
	return s.ramp[s.index(t)%uint64(len(s.ramp))]
}

// RampProbe scales the ramp output to the ADC range, for looping the
// ramp into the input instead of the sine.
func (s *SignalOut) RampProbe(t time.Duration) core.Sample {
	return core.Sample(uint32(s.Ramp(t)) * uint32(core.SampleMax) / 255)
}
