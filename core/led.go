package core

// LED is the sweep indicator. It toggles once per completed sweep (or per
// strip-chart shift) so a glance shows the refresh rate.
type LED struct {
	drv GPIODriver
	pin GPIOPin
	on  bool
}

// Configure sets the pin as an output and switches the LED off.
func (l *LED) Configure(drv GPIODriver, pin GPIOPin) error {
	l.drv = drv
	l.pin = pin
	if err := drv.ConfigureOutput(pin); err != nil {
		return err
	}
	return l.Set(false)
}

// Set drives the LED.
func (l *LED) Set(on bool) error {
	l.on = on
	if l.drv == nil {
		return nil
	}
	return l.drv.SetPin(l.pin, on)
}

// Toggle inverts the LED. Pin errors are ignored; the indicator is cosmetic.
func (l *LED) Toggle() {
	_ = l.Set(!l.on)
}

// On reports the last value written.
func (l *LED) On() bool {
	return l.on
}
