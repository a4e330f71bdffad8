package core

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// labelFont is small enough for the status strip above the plot.
var labelFont = &tinyfont.TomThumb

const (
	labelBaseline = 6
	labelMargin   = 1
)

// labelCanvas lets tinyfont draw through a DisplayDriver one pixel at a
// time. Labels change only on button presses, so the per-pixel cost is
// paid rarely.
type labelCanvas struct {
	disp          DisplayDriver
	width, height int16
}

var _ drivers.Displayer = (*labelCanvas)(nil)

func (c *labelCanvas) Size() (x, y int16) {
	return c.width, c.height
}

func (c *labelCanvas) SetPixel(x, y int16, col color.RGBA) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.disp.FillRectangle(x, y, 1, 1, ColorFromRGBA(col))
}

func (c *labelCanvas) Display() error {
	return nil
}

// StatusBar shows the timebase on the left and the signal generator
// frequency on the right of the strip above the plot.
type StatusBar struct {
	canvas labelCanvas
	fg, bg Color

	timebase string
	freq     string
}

// Configure binds the bar to a display; height is the strip height.
func (s *StatusBar) Configure(disp DisplayDriver, width, height int16, fg, bg Color) {
	s.canvas = labelCanvas{disp: disp, width: width, height: height}
	s.fg = fg
	s.bg = bg
	s.timebase = ""
	s.freq = ""
}

// Update redraws the strip if either label changed. It reports whether
// anything was drawn.
func (s *StatusBar) Update(tb TimebaseSetting, hz uint32) bool {
	tbText := TimebaseLabel(tb)
	freqText := FormatHz(hz)
	if tbText == s.timebase && freqText == s.freq {
		return false
	}
	s.timebase = tbText
	s.freq = freqText

	s.canvas.disp.FillRectangle(0, 0, s.canvas.width, s.canvas.height, s.bg)
	fg := s.fg.ToRGBA()
	tinyfont.WriteLine(&s.canvas, labelFont, labelMargin, labelBaseline, tbText, fg)
	w, _ := tinyfont.LineWidth(labelFont, freqText)
	tinyfont.WriteLine(&s.canvas, labelFont, s.canvas.width-int16(w)-labelMargin, labelBaseline, freqText, fg)
	return true
}

// Labels returns the texts currently on screen.
func (s *StatusBar) Labels() (timebase, freq string) {
	return s.timebase, s.freq
}

// TimebaseLabel is the status strip text for a timebase, e.g. "1ms/div".
func TimebaseLabel(tb TimebaseSetting) string {
	if tb.Strip {
		return tb.Name + "/div roll"
	}
	return tb.Name + "/div"
}
