//go:build rp2040

package main

import (
	"errors"
	"goscope/core"
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// cyclesPerSample is the length of the playback loop in PIO cycles. The
// delay keeps the clock divider inside its 16-bit range at 1 Hz.
const cyclesPerSample = 32

// buildPlaybackProgram creates the one-instruction DAC program: shift the
// next table entry onto the ladder pins and hold it. Autopull refills the
// OSR from the FIFO every entry.
func buildPlaybackProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Out(rp2pio.OutDestPins, 8).Delay(cyclesPerSample - 1).Encode(), // 0: out pins, 8 [31]
		// .wrap
	}
}

var errSignalTable = errors.New("signal table length mismatch")

// ladder is one R-2R output: a state machine clocking a table out to its
// pins, fed forever by a pair of chained DMA channels. The data channel
// copies one pass of the table into the TX FIFO, then chains to the
// control channel, which rewrites the data channel's read address and so
// restarts it.
type ladder struct {
	sm    rp2pio.StateMachine
	smNum uint8
	base  machine.Pin
	bits  uint8

	table     [core.WaveTableLen]uint32
	tableAddr uint32 // read by the control channel

	data, ctrl uint8
}

// PIOSignalGenerator implements core.SignalDriver with two ladders on PIO0.
type PIOSignalGenerator struct {
	pio    *rp2pio.PIO
	offset uint8
	sine   ladder
	ramp   ladder
	rate   uint32
}

// NewPIOSignalGenerator loads the playback program and claims the state
// machines and DMA channels. Output starts with Start.
func NewPIOSignalGenerator() (*PIOSignalGenerator, error) {
	g := &PIOSignalGenerator{pio: rp2pio.PIO0}
	offset, err := g.pio.AddProgram(buildPlaybackProgram(), -1)
	if err != nil {
		return nil, err
	}
	g.offset = offset

	g.sine = ladder{smNum: 0, base: pinSineBase, bits: sineBits}
	g.ramp = ladder{smNum: 1, base: pinRampBase, bits: rampBits}
	for _, l := range []*ladder{&g.sine, &g.ramp} {
		if err := g.initLadder(l); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *PIOSignalGenerator) initLadder(l *ladder) error {
	l.sm = g.pio.StateMachine(l.smNum)
	l.sm.TryClaim()

	for i := uint8(0); i < l.bits; i++ {
		(l.base + machine.Pin(i)).Configure(machine.PinConfig{Mode: g.pio.PinMode()})
	}

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetOutPins(l.base, l.bits)
	// Shift right, autopull every 8 bits: one FIFO word per sample.
	cfg.SetOutShift(true, true, 8)
	cfg.SetWrap(g.offset, g.offset)
	l.sm.Init(g.offset, cfg)
	l.sm.SetPindirsConsecutive(l.base, l.bits, true)
	l.sm.SetPinsConsecutive(l.base, l.bits, false)

	var err error
	if l.data, err = claimDMA(); err != nil {
		return err
	}
	if l.ctrl, err = claimDMA(); err != nil {
		return err
	}
	return nil
}

// Start converts the tables to ladder codes and begins playback at rate
// entries per second. The 12-bit sine keeps its top 8 bits and the 8-bit
// ramp its top 6, matching the ladder widths.
func (g *PIOSignalGenerator) Start(sine []uint16, ramp []uint8, rate uint32) error {
	if len(sine) != core.WaveTableLen || len(ramp) != core.WaveTableLen {
		return errSignalTable
	}
	for i := range sine {
		g.sine.table[i] = uint32(sine[i] >> 4)
		g.ramp.table[i] = uint32(ramp[i] >> 2)
	}
	if err := g.setClock(rate); err != nil {
		return err
	}
	g.startLadder(&g.sine)
	g.startLadder(&g.ramp)
	return nil
}

// SetRate retunes both state machines without stopping the DMA.
func (g *PIOSignalGenerator) SetRate(rate uint32) {
	if err := g.setClock(rate); err != nil {
		core.DebugPrintln("siggen: rate " + err.Error())
	}
}

// Rate returns the last rate applied.
func (g *PIOSignalGenerator) Rate() uint32 {
	return g.rate
}

func (g *PIOSignalGenerator) setClock(rate uint32) error {
	whole, frac, err := playbackClkDiv(rate, machine.CPUFrequency())
	if err != nil {
		return err
	}
	g.sine.sm.SetClkDiv(whole, frac)
	g.ramp.sm.SetClkDiv(whole, frac)
	g.rate = rate
	return nil
}

var errPlaybackRate = errors.New("playback rate out of clock divider range")

// playbackClkDiv computes the 16.8 fixed-point divider that runs the
// program at rate table entries per second.
func playbackClkDiv(rate, cpuFreq uint32) (whole uint16, frac uint8, err error) {
	if rate == 0 {
		return 0, 0, errPlaybackRate
	}
	div := uint64(cpuFreq) * 256 / (uint64(rate) * cyclesPerSample)
	if div < 256 || div>>8 > 0xffff {
		return 0, 0, errPlaybackRate
	}
	return uint16(div >> 8), uint8(div), nil
}

func (g *PIOSignalGenerator) startLadder(l *ladder) {
	abortDMA(l.data)
	abortDMA(l.ctrl)
	l.sm.SetEnabled(false)
	l.sm.ClearFIFOs()
	l.sm.Restart()

	l.tableAddr = bufferAddr(l.table[:])
	data := dmaChannelAt(l.data)
	ctrl := dmaChannelAt(l.ctrl)

	data.WRITE_ADDR.Set(registerAddr(l.sm.TxReg()))
	data.TRANS_COUNT.Set(core.WaveTableLen)
	data.AL1_CTRL.Set(dmaCtrl(dmaEN|dmaSizeWord|dmaIncrRead|dmaIRQQuiet, l.ctrl, dreqPIO0TX0+uint32(l.smNum)))

	ctrl.READ_ADDR.Set(wordAddr(&l.tableAddr))
	ctrl.WRITE_ADDR.Set(registerAddr(&data.AL3_READ_ADDR_TRIG))
	ctrl.TRANS_COUNT.Set(1)
	// Writing CTRL_TRIG starts the control channel, which starts the data
	// channel, and the pair keep each other going from then on.
	ctrl.CTRL_TRIG.Set(dmaCtrl(dmaEN|dmaSizeWord|dmaIRQQuiet, l.ctrl, dmaTreqPermanent))

	l.sm.SetEnabled(true)
}
