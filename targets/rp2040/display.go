//go:build rp2040

package main

import (
	"goscope/core"
	"machine"
	"time"

	"tinygo.org/x/drivers/st7735"
)

// ST7735Display implements core.DisplayDriver on the SPI1 panel. The
// tinygo driver does the power-on sequence and pixel pushes; chip select
// is held here so core can group raw command bytes into bursts.
type ST7735Display struct {
	dev st7735.Device
	cs  machine.Pin
	rst machine.Pin

	fillErrors uint32
}

// NewST7735Display configures SPI1 and runs the panel init sequence in
// landscape orientation.
func NewST7735Display() (*ST7735Display, error) {
	err := machine.SPI1.Configure(machine.SPIConfig{
		Frequency: lcdBaudRate,
		SCK:       pinLCDSCK,
		SDO:       pinLCDMOSI,
		Mode:      0,
	})
	if err != nil {
		return nil, err
	}

	d := &ST7735Display{
		dev: st7735.New(machine.SPI1, pinLCDReset, pinLCDDC, pinLCDCS, pinLCDBacklight),
		cs:  pinLCDCS,
		rst: pinLCDReset,
	}
	d.dev.Configure(st7735.Config{
		Width:    core.ScreenHeight,
		Height:   core.ScreenWidth,
		Rotation: st7735.ROTATION_90,
		Model:    st7735.GREENTAB,
	})
	d.dev.EnableBacklight(true)
	return d, nil
}

func (d *ST7735Display) Select()   { d.cs.Low() }
func (d *ST7735Display) Deselect() { d.cs.High() }

// Reset pulses the reset line. The panel needs Configure again afterwards.
func (d *ST7735Display) Reset() {
	d.rst.High()
	time.Sleep(5 * time.Millisecond)
	d.rst.Low()
	time.Sleep(20 * time.Millisecond)
	d.rst.High()
	time.Sleep(150 * time.Millisecond)
}

func (d *ST7735Display) Command(cmd byte) { d.dev.Command(cmd) }
func (d *ST7735Display) Data(b byte)      { d.dev.Data(b) }

// FillRectangle pushes a solid block. Out-of-range blocks are rejected by
// the driver and counted.
func (d *ST7735Display) FillRectangle(x, y, w, h int16, c core.Color) {
	d.Select()
	if err := d.dev.FillRectangle(x, y, w, h, c.ToRGBA()); err != nil {
		d.fillErrors++
	}
	d.Deselect()
}

// FillErrors returns how many fills the driver rejected.
func (d *ST7735Display) FillErrors() uint32 {
	return d.fillErrors
}
