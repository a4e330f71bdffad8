package sim

import (
	"image"

	"goscope/core"
)

// ST7735 commands the framebuffer reacts to.
const (
	cmdSWRESET = 0x01
	cmdDISPOFF = 0x28
	cmdDISPON  = 0x29
)

// Framebuffer is a core.DisplayDriver backed by memory, the size of the
// real panel.
type Framebuffer struct {
	pix [core.ScreenWidth * core.ScreenHeight]core.Color

	on       bool
	selected bool

	Commands []byte
	Fills    int
	// Unselected counts command/data bytes sent without chip select.
	Unselected int
}

// NewFramebuffer returns a blank, switched-off panel.
func NewFramebuffer() *Framebuffer {
	return &Framebuffer{}
}

func (f *Framebuffer) Select()   { f.selected = true }
func (f *Framebuffer) Deselect() { f.selected = false }

func (f *Framebuffer) Reset() {
	f.on = false
	f.pix = [core.ScreenWidth * core.ScreenHeight]core.Color{}
}

func (f *Framebuffer) Command(cmd byte) {
	if !f.selected {
		f.Unselected++
	}
	f.Commands = append(f.Commands, cmd)
	switch cmd {
	case cmdSWRESET:
		f.Reset()
	case cmdDISPON:
		f.on = true
	case cmdDISPOFF:
		f.on = false
	}
}

func (f *Framebuffer) Data(b byte) {
	if !f.selected {
		f.Unselected++
	}
}

// FillRectangle paints the part of the block that lies on the panel.
func (f *Framebuffer) FillRectangle(x, y, w, h int16, c core.Color) {
	f.Fills++
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, core.ScreenWidth), min(y+h, core.ScreenHeight)
	for yy := y0; yy < y1; yy++ {
		row := int(yy) * core.ScreenWidth
		for xx := x0; xx < x1; xx++ {
			f.pix[row+int(xx)] = c
		}
	}
}

// On reports whether the panel has been switched on.
func (f *Framebuffer) On() bool {
	return f.on
}

// At returns the pixel at (x, y), or Black off the panel.
func (f *Framebuffer) At(x, y int) core.Color {
	if x < 0 || y < 0 || x >= core.ScreenWidth || y >= core.ScreenHeight {
		return core.Black
	}
	return f.pix[y*core.ScreenWidth+x]
}

// Count returns how many pixels currently have colour c.
func (f *Framebuffer) Count(c core.Color) int {
	n := 0
	for _, p := range f.pix {
		if p == c {
			n++
		}
	}
	return n
}

// WriteRGBA expands the picture into dst as 8-bit RGBA, row major. A panel
// that is off shows black. dst must hold ScreenWidth*ScreenHeight*4 bytes.
func (f *Framebuffer) WriteRGBA(dst []byte) {
	for i, p := range f.pix {
		if !f.on {
			p = core.Black
		}
		c := p.ToRGBA()
		dst[i*4] = c.R
		dst[i*4+1] = c.G
		dst[i*4+2] = c.B
		dst[i*4+3] = c.A
	}
}

// Image returns a copy of the picture.
func (f *Framebuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, core.ScreenWidth, core.ScreenHeight))
	f.WriteRGBA(img.Pix)
	return img
}
