package core

import "time"

// Config holds the compile-time instrument settings.
type Config struct {
	// StatusHeight is the label strip above the plot, in rows.
	StatusHeight int16

	Background Color
	Trace      Color
	Label      Color

	// DebounceTime is how long a button level must hold.
	DebounceTime time.Duration

	// Boot selections.
	TimebaseIndex  int
	FrequencyIndex int

	// BufferLen limits the sample buffer; 0 uses BufferCapacity.
	BufferLen int

	ButtonPins [NumButtons]GPIOPin
	LEDPin     GPIOPin
}

// DefaultConfig returns the power-on settings: fastest timebase, 1 kHz
// test signal, green trace on black.
func DefaultConfig() Config {
	return Config{
		StatusHeight:   8,
		Background:     Black,
		Trace:          Green,
		Label:          White,
		DebounceTime:   20 * time.Millisecond,
		TimebaseIndex:  0,
		FrequencyIndex: DefaultFrequencyIndex,
	}
}

// Hardware bundles the drivers a Scope runs on. GPIO may be nil when the
// buttons are fed through Press and there is no indicator LED.
type Hardware struct {
	Display     DisplayDriver
	Acquisition AcquisitionDriver
	Signal      SignalDriver
	GPIO        GPIODriver
}

// RegisteredHardware collects the drivers registered by target code.
func RegisteredHardware() Hardware {
	hw := Hardware{
		Display:     MustDisplay(),
		Acquisition: MustAcquisition(),
		Signal:      MustSignal(),
	}
	if gpioDriver != nil {
		hw.GPIO = gpioDriver
	}
	return hw
}

// Scope is the whole instrument state, owned by the foreground loop.
// Nothing in it is touched from interrupt context except the event queue.
type Scope struct {
	cfg Config
	hw  Hardware

	buf      SampleBuffer
	capture  Capture
	timebase Timebase
	siggen   SignalGenerator
	renderer Renderer
	status   StatusBar
	led      LED
	buttons  ButtonPoller
	events   EventQueue
	tracer   Tracer

	reportedOverruns uint32
}

// NewScope wires the instrument together. No hardware is touched until Init.
func NewScope(cfg Config, hw Hardware) *Scope {
	s := &Scope{cfg: cfg, hw: hw}
	if cfg.BufferLen > 0 {
		s.buf.SetLen(cfg.BufferLen)
	}
	s.capture.init(&s.buf, hw.Acquisition)
	s.timebase.Set(cfg.TimebaseIndex)
	s.siggen = SignalGenerator{drv: hw.Signal}
	s.siggen.setIndex(cfg.FrequencyIndex)

	s.renderer.Configure(hw.Display, &s.capture, &s.timebase, &s.led, RendererConfig{
		OriginX:    0,
		Top:        cfg.StatusHeight,
		Bottom:     ScreenHeight - 1,
		Foreground: cfg.Trace,
		Background: cfg.Background,
	})
	s.status.Configure(hw.Display, ScreenWidth, cfg.StatusHeight, cfg.Label, cfg.Background)
	return s
}

// Init brings up the panel, the front panel I/O and the signal generator,
// then starts the first acquisition.
func (s *Scope) Init() error {
	if err := ValidateTimebases(); err != nil {
		return err
	}
	if s.hw.GPIO != nil {
		if err := s.led.Configure(s.hw.GPIO, s.cfg.LEDPin); err != nil {
			return err
		}
		hold := TimerFromDuration(s.cfg.DebounceTime)
		if err := s.buttons.Configure(s.hw.GPIO, s.cfg.ButtonPins, hold); err != nil {
			return err
		}
	}

	ConfigurePanel(s.hw.Display)
	s.hw.Display.FillRectangle(0, 0, ScreenWidth, ScreenHeight, s.cfg.Background)

	if err := s.siggen.Start(); err != nil {
		return err
	}
	s.updateStatus()
	s.tracer.Timebase(s.timebase.Index(), s.timebase.Current())
	s.tracer.Frequency(s.siggen.Frequency())
	s.restart()
	DebugPrintln("scope: running " + TimebaseLabel(s.timebase.Current()) + " " + FormatHz(s.siggen.Frequency()))
	return nil
}

// Step is one pass of the foreground loop: sample the buttons, apply
// queued presses, then advance the display.
func (s *Scope) Step() {
	s.PollButtons()
	s.HandleEvents()
	s.Render()
}

// PollButtons samples the button pins once.
func (s *Scope) PollButtons() {
	s.buttons.Poll(GetTime(), &s.events)
}

// Press queues a button press as if it came from the front panel.
func (s *Scope) Press(b Button) bool {
	return s.events.Push(b)
}

// HandleEvents applies every queued button press.
func (s *Scope) HandleEvents() {
	for {
		b, ok := s.events.Pop()
		if !ok {
			return
		}
		s.handleButton(b)
	}
}

func (s *Scope) handleButton(b Button) {
	RecordTiming(EvtButton, GetTime(), uint32(b), 0)
	switch b {
	case Button1:
		tb := s.timebase.Advance()
		RecordTiming(EvtTimebase, GetTime(), uint32(s.timebase.Index()), 0)
		s.tracer.Timebase(s.timebase.Index(), tb)
		s.updateStatus()
		// A fixed sweep picks the new timebase up at its boundary; the
		// strip chart has no boundary, so leave it now.
		if s.renderer.strip.Active {
			s.restart()
		}
	case Button4:
		hz := s.siggen.Advance()
		RecordTiming(EvtFrequency, GetTime(), hz, 0)
		s.tracer.Frequency(hz)
		s.updateStatus()
	default:
		DebugPrintln("scope: button " + itoa(int(b)) + " unassigned")
	}
}

// Render advances the display by one pass. In sweep mode a pass draws a
// whole sweep once the capture is ready; in strip mode it scrolls in at
// most one column. It reports whether the screen changed.
func (s *Scope) Render() bool {
	if s.renderer.strip.Active {
		if !s.renderer.StripStep() {
			return false
		}
		s.checkOverrun()
		return true
	}
	if !s.capture.Ready() {
		return false
	}
	for !s.renderer.Step() {
	}
	sw := s.renderer.sweep
	s.tracer.Sweep(sw.Setting, sw.Samples, s.renderer.sweeps)
	s.checkOverrun()
	s.restart()
	return true
}

// restart begins the next acquisition with the timebase selected now and
// snapshots it for the renderer.
func (s *Scope) restart() {
	tb := s.timebase.Current()
	if tb.Strip {
		s.capture.StartAcquisition(tb.Period, AcquireCircular)
		s.renderer.BeginStrip()
		return
	}
	s.renderer.EndStrip()
	s.capture.StartAcquisitionWindow(tb.Period, AcquireOneShot, tb.SweepSamples())
	s.renderer.Begin()
}

func (s *Scope) checkOverrun() {
	s.capture.Overrun()
	if n := s.capture.Overruns(); n != s.reportedOverruns {
		s.reportedOverruns = n
		s.tracer.Overrun(n)
	}
}

func (s *Scope) updateStatus() {
	s.status.Update(s.timebase.Current(), s.siggen.Frequency())
}

// Timebase returns the timebase controller.
func (s *Scope) Timebase() *Timebase { return &s.timebase }

// SignalGenerator returns the signal generator.
func (s *Scope) SignalGenerator() *SignalGenerator { return &s.siggen }

// Renderer returns the sweep renderer.
func (s *Scope) Renderer() *Renderer { return &s.renderer }

// Capture returns the acquisition binding.
func (s *Scope) Capture() *Capture { return &s.capture }

// Status returns the label strip.
func (s *Scope) Status() *StatusBar { return &s.status }

// Tracer returns the debug trace link.
func (s *Scope) Tracer() *Tracer { return &s.tracer }

// LED returns the sweep indicator.
func (s *Scope) LED() *LED { return &s.led }

// Events returns the button event queue.
func (s *Scope) Events() *EventQueue { return &s.events }
