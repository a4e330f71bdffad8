package core

import "image/color"

// Color is an RGB565 pixel value as sent to the panel.
type Color uint16

const (
	Black Color = 0x0000
	Blue  Color = 0x001f
	Green Color = 0x07e0
	Red   Color = 0xf800
	White Color = 0xffff
)

// ToRGBA expands the 565 value to 8 bits per channel.
func (c Color) ToRGBA() color.RGBA {
	r := uint8(c>>11) & 0x1f
	g := uint8(c>>5) & 0x3f
	b := uint8(c) & 0x1f
	return color.RGBA{
		R: r<<3 | r>>2,
		G: g<<2 | g>>4,
		B: b<<3 | b>>2,
		A: 0xff,
	}
}

// ColorFromRGBA packs an 8-bit-per-channel colour into RGB565.
func ColorFromRGBA(c color.RGBA) Color {
	return Color(uint16(c.R&0xf8)<<8 | uint16(c.G&0xfc)<<3 | uint16(c.B)>>3)
}

// DisplayDriver is the panel interface the renderer draws through. Calls
// are synchronous and cannot fail; a missing panel just shows nothing.
type DisplayDriver interface {
	// Select asserts chip select for a burst of Command/Data calls.
	Select()
	// Deselect releases chip select.
	Deselect()
	// Reset pulses the panel reset line.
	Reset()
	// Command sends one command byte (DC low).
	Command(cmd byte)
	// Data sends one parameter byte (DC high).
	Data(b byte)
	// FillRectangle paints a w x h block at (x, y) with c.
	FillRectangle(x, y, w, h int16, c Color)
}

// Global singleton used by core code.
var displayDriver DisplayDriver

// SetDisplayDriver is called by target-specific code to register its driver.
func SetDisplayDriver(d DisplayDriver) {
	displayDriver = d
}

// MustDisplay returns the configured driver or panics if missing.
func MustDisplay() DisplayDriver {
	if displayDriver == nil {
		panic("display driver not configured")
	}
	return displayDriver
}
