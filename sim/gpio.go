package sim

import (
	"fmt"

	"goscope/core"
)

// GPIO is an in-memory core.GPIODriver. Pins must be configured before use,
// as on the target.
type GPIO struct {
	outputs map[core.GPIOPin]bool
	inputs  map[core.GPIOPin]bool
	levels  map[core.GPIOPin]bool
}

// NewGPIO returns a driver with no pins configured.
func NewGPIO() *GPIO {
	return &GPIO{
		outputs: make(map[core.GPIOPin]bool),
		inputs:  make(map[core.GPIOPin]bool),
		levels:  make(map[core.GPIOPin]bool),
	}
}

func (g *GPIO) ConfigureOutput(pin core.GPIOPin) error {
	if g.inputs[pin] {
		return fmt.Errorf("sim: pin %d already an input", pin)
	}
	g.outputs[pin] = true
	return nil
}

func (g *GPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	if g.outputs[pin] {
		return fmt.Errorf("sim: pin %d already an output", pin)
	}
	g.inputs[pin] = true
	g.levels[pin] = true
	return nil
}

func (g *GPIO) SetPin(pin core.GPIOPin, value bool) error {
	if !g.outputs[pin] {
		return fmt.Errorf("sim: pin %d is not an output", pin)
	}
	g.levels[pin] = value
	return nil
}

func (g *GPIO) ReadPin(pin core.GPIOPin) bool {
	return g.levels[pin]
}

// Hold drives an input pin the way a pushbutton to ground would: held
// reads low, released floats back to the pull-up.
func (g *GPIO) Hold(pin core.GPIOPin, held bool) {
	if g.inputs[pin] {
		g.levels[pin] = !held
	}
}

// Level returns the last value of pin.
func (g *GPIO) Level(pin core.GPIOPin) bool {
	return g.levels[pin]
}
