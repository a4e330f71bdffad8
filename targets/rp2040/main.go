//go:build rp2040

package main

import (
	"goscope/core"
	"machine"
	"time"
)

// Debug counters
var (
	loopPasses uint32
	panics     uint32
)

func main() {
	// Clear any watchdog state left from before the reset
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0}); err != nil {
		return
	}

	InitUSB()
	InitClock()
	core.TimerInit()

	gpio := NewRPGPIODriver()
	core.SetGPIODriver(gpio)

	display, err := NewST7735Display()
	if err != nil {
		errorLoop(2)
	}
	core.SetDisplayDriver(display)

	acquisition, err := NewADCCapture()
	if err != nil {
		errorLoop(3)
	}
	core.SetAcquisitionDriver(acquisition)

	signal, err := NewPIOSignalGenerator()
	if err != nil {
		errorLoop(4)
	}
	core.SetSignalDriver(signal)

	cfg := core.DefaultConfig()
	cfg.ButtonPins = buttonPins
	cfg.LEDPin = ledPin
	scope := core.NewScope(cfg, core.RegisteredHardware())

	// Debug lines travel inside trace frames on the USB link
	scope.Tracer().SetOutput(writeTrace)
	core.SetDebugWriter(scope.Tracer().Log)
	core.SetDebugEnabled(true)

	if err := scope.Init(); err != nil {
		errorLoop(5)
	}

	for {
		// Recover from panics in the loop body to keep the display running
		func() {
			defer func() {
				if r := recover(); r != nil {
					panics++
					core.DumpTimingRing()
				}
			}()

			UpdateSystemTime()
			core.ProcessTimers()
			scope.Step()
			loopPasses++
		}()

		// Yield to the USB stack
		time.Sleep(10 * time.Microsecond)
	}
}

// errorLoop blinks the LED in groups of code flashes forever. Init
// failures land here before the main loop starts.
func errorLoop(code int) {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		for i := 0; i < code; i++ {
			led.High()
			time.Sleep(150 * time.Millisecond)
			led.Low()
			time.Sleep(150 * time.Millisecond)
		}
		time.Sleep(time.Second)
	}
}
