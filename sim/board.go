package sim

import (
	"time"

	"goscope/core"
)

// Pin numbers of the simulated front panel. They match the Pico board so
// a Config built for the target also works here.
var (
	ButtonPins = [core.NumButtons]core.GPIOPin{20, 21, 22, 27}
	LEDPin     = core.GPIOPin(25)
)

// Board is a complete simulated instrument: the real core.Scope over the
// sim drivers, with the sine output looped back into the input.
type Board struct {
	Clock   Clock
	Display *Framebuffer
	Input   *Acquisition
	Signal  *SignalOut
	GPIO    *GPIO
	Scope   *core.Scope
}

// NewBoard builds a board with the default configuration. Call Init
// before stepping it.
func NewBoard() *Board {
	b := &Board{
		Display: NewFramebuffer(),
		Signal:  &SignalOut{},
		GPIO:    NewGPIO(),
	}
	b.Input = NewAcquisition(b.Signal.Sine)

	cfg := core.DefaultConfig()
	cfg.ButtonPins = ButtonPins
	cfg.LEDPin = LEDPin
	b.Scope = core.NewScope(cfg, core.Hardware{
		Display:     b.Display,
		Acquisition: b.Input,
		Signal:      b.Signal,
		GPIO:        b.GPIO,
	})
	return b
}

// Init routes init delays through the virtual clock and starts the scope.
func (b *Board) Init() error {
	core.SetDelayFunc(b.Clock.Sleep)
	core.TimerInit()
	return b.Scope.Init()
}

// Run advances virtual time by d in steps of tick, running one pass of
// the foreground loop per step.
func (b *Board) Run(d, tick time.Duration) {
	for end := b.Clock.Elapsed() + d; b.Clock.Elapsed() < end; {
		b.Clock.Advance(tick)
		b.Scope.Step()
	}
}

// Press holds a button down for long enough to pass the debouncer, then
// releases it, stepping the scope in 1ms ticks meanwhile.
func (b *Board) Press(btn core.Button, hold time.Duration) {
	pin := ButtonPins[btn-1]
	b.GPIO.Hold(pin, true)
	b.Run(hold, time.Millisecond)
	b.GPIO.Hold(pin, false)
	b.Run(hold, time.Millisecond)
}
