//go:build rp2040

package main

import (
	"goscope/core"
	"machine"
)

// Panel on SPI1.
const (
	pinLCDSCK       = machine.GPIO10
	pinLCDMOSI      = machine.GPIO11
	pinLCDCS        = machine.GPIO9
	pinLCDDC        = machine.GPIO8
	pinLCDReset     = machine.GPIO12
	pinLCDBacklight = machine.GPIO13

	lcdBaudRate = 24000000
)

// Analog input. GPIO26 is ADC channel 0.
const (
	pinProbe     = machine.ADC0
	probeChannel = 0
)

// R-2R ladders driven by PIO: eight bits for the 12-bit sine (top byte)
// and six bits for the 8-bit ramp (top six).
const (
	pinSineBase = machine.GPIO0
	sineBits    = 8
	pinRampBase = machine.GPIO14
	rampBits    = 6
)

// Front panel.
var (
	buttonPins = [core.NumButtons]core.GPIOPin{20, 21, 22, 27}
	ledPin     = core.GPIOPin(machine.LED)
)

// pacerSlice is the PWM slice whose wrap paces the capture DMA. Its
// output pins (GPIO14/15) stay under PIO control; only the counter is used.
const pacerSlice = 7
