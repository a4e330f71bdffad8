//go:build rp2040

package main

import (
	"device/rp"
	"goscope/core"
	"machine"
	"runtime/interrupt"
	"time"
)

// ADCCapture implements core.AcquisitionDriver. The ADC free-runs at its
// full 500 kS/s on the probe channel; a DMA channel paced by a PWM wrap
// copies the latest RESULT into the buffer once per period. One-shot mode
// stops at the end of the buffer. Circular mode restarts from the top in
// the completion interrupt and counts laps.
type ADCCapture struct {
	ch    uint8
	pacer *Pacer

	buf     []core.Sample
	mode    core.AcquisitionMode
	running bool

	// laps is written from the DMA interrupt.
	laps uint32

	pacerErrors uint32
}

// capture is the instance the DMA interrupt services.
var capture *ADCCapture

// NewADCCapture configures the ADC, pacer and DMA channel. Sampling does
// not start until Start.
func NewADCCapture() (*ADCCapture, error) {
	machine.InitADC()
	adc := machine.ADC{Pin: pinProbe}
	if err := adc.Configure(machine.ADCConfig{}); err != nil {
		return nil, err
	}
	rp.ADC.CS.ReplaceBits(uint32(probeChannel)<<rp.ADC_CS_AINSEL_Pos, rp.ADC_CS_AINSEL_Msk, 0)
	rp.ADC.DIV.Set(0)
	rp.ADC.CS.SetBits(rp.ADC_CS_START_MANY)

	ch, err := claimDMA()
	if err != nil {
		return nil, err
	}
	c := &ADCCapture{ch: ch, pacer: NewPacer(pacerSlice)}
	capture = c

	rp.DMA.INTE0.SetBits(1 << ch)
	intr := interrupt.New(rp.IRQ_DMA_IRQ_0, captureIRQ)
	intr.Enable()
	return c, nil
}

func (c *ADCCapture) Start(buf []core.Sample, period time.Duration, mode core.AcquisitionMode) {
	c.Stop()
	if len(buf) == 0 {
		return
	}
	if err := c.pacer.Configure(period); err != nil {
		c.pacerErrors++
		core.DebugPrintln("capture: pacer " + err.Error())
		return
	}

	c.buf = buf
	c.mode = mode
	c.laps = 0
	c.running = true

	flags := uint32(dmaEN | dmaHighPriority | dmaSizeHalfword | dmaIncrWrite)
	if mode == core.AcquireOneShot {
		flags |= dmaIRQQuiet
	}
	d := dmaChannelAt(c.ch)
	d.READ_ADDR.Set(registerAddr(&rp.ADC.RESULT))
	d.WRITE_ADDR.Set(bufferAddr(buf))
	d.TRANS_COUNT.Set(uint32(len(buf)))
	d.CTRL_TRIG.Set(dmaCtrl(flags, c.ch, c.pacer.DREQ()))
}

// Written combines completed laps with the progress of the current one.
// Reading both with interrupts off keeps the pair consistent: a finished
// but not yet restarted lap reads as a full count.
func (c *ADCCapture) Written() uint32 {
	if c.buf == nil {
		return 0
	}
	n := uint32(len(c.buf))
	state := interrupt.Disable()
	laps := c.laps
	remaining := dmaChannelAt(c.ch).TRANS_COUNT.Get()
	interrupt.Restore(state)
	return laps*n + n - remaining
}

// Overrun reports and clears the ADC conversion error flag.
func (c *ADCCapture) Overrun() bool {
	if !rp.ADC.CS.HasBits(rp.ADC_CS_ERR_STICKY) {
		return false
	}
	rp.ADC.CS.SetBits(rp.ADC_CS_ERR_STICKY)
	return true
}

func (c *ADCCapture) Stop() {
	c.running = false
	abortDMA(c.ch)
	rp.DMA.INTS0.Set(1 << c.ch)
}

// PacerErrors counts acquisitions that could not start because the period
// was out of the PWM range.
func (c *ADCCapture) PacerErrors() uint32 {
	return c.pacerErrors
}

func captureIRQ(interrupt.Interrupt) {
	c := capture
	if c == nil || rp.DMA.INTS0.Get()&(1<<c.ch) == 0 {
		return
	}
	rp.DMA.INTS0.Set(1 << c.ch)
	if !c.running || c.mode != core.AcquireCircular {
		return
	}
	c.laps++
	d := dmaChannelAt(c.ch)
	d.WRITE_ADDR.Set(bufferAddr(c.buf))
	d.AL1_TRANS_COUNT_TRIG.Set(uint32(len(c.buf)))
}
