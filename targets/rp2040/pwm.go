//go:build rp2040

package main

import (
	"machine"
	"time"
)

// pwmPeripheral is the part of TinyGo's unexported *pwmGroup the pacer uses
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	SetPeriod(period uint64) error
	Period() uint64
	Enable(enable bool)
}

// Pacer is a PWM slice used only as a timer: each counter wrap raises the
// slice's DREQ, which the capture DMA waits on. The slice's pins are never
// routed to PWM.
type Pacer struct {
	pwm   pwmPeripheral
	slice uint8
}

// NewPacer claims a PWM slice for pacing.
func NewPacer(slice uint8) *Pacer {
	return &Pacer{pwm: getPWMPeripheral(slice), slice: slice}
}

// Configure starts the counter wrapping once per period.
func (p *Pacer) Configure(period time.Duration) error {
	if err := p.pwm.Configure(machine.PWMConfig{Period: uint64(period.Nanoseconds())}); err != nil {
		return err
	}
	p.pwm.Enable(true)
	return nil
}

// SetPeriod changes the wrap period of a running pacer.
func (p *Pacer) SetPeriod(period time.Duration) error {
	return p.pwm.SetPeriod(uint64(period.Nanoseconds()))
}

// Period returns the period the hardware achieved, which can differ from
// the request by the divider resolution.
func (p *Pacer) Period() time.Duration {
	return time.Duration(p.pwm.Period())
}

// DREQ returns the DMA request line raised at each wrap.
func (p *Pacer) DREQ() uint32 {
	return dreqPWMWrap0 + uint32(p.slice)
}

// getPWMPeripheral returns the PWM peripheral for a given slice number.
// TinyGo defines PWM0-PWM7 as globals of the unexported *pwmGroup type.
func getPWMPeripheral(slice uint8) pwmPeripheral {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}
