//go:build rp2040

package main

import (
	"device/rp"
	"errors"
	"runtime/volatile"
	"unsafe"
)

// dmaChannel is one channel's register block. Each block is 16 words; the
// alias registers are the same four registers in a different order, and
// writing the last register of each row starts the channel.
type dmaChannel struct {
	READ_ADDR   volatile.Register32
	WRITE_ADDR  volatile.Register32
	TRANS_COUNT volatile.Register32
	CTRL_TRIG   volatile.Register32

	AL1_CTRL             volatile.Register32
	AL1_READ_ADDR        volatile.Register32
	AL1_WRITE_ADDR       volatile.Register32
	AL1_TRANS_COUNT_TRIG volatile.Register32

	AL2_CTRL            volatile.Register32
	AL2_TRANS_COUNT     volatile.Register32
	AL2_READ_ADDR       volatile.Register32
	AL2_WRITE_ADDR_TRIG volatile.Register32

	AL3_CTRL           volatile.Register32
	AL3_WRITE_ADDR     volatile.Register32
	AL3_TRANS_COUNT    volatile.Register32
	AL3_READ_ADDR_TRIG volatile.Register32
}

// CTRL bits
const (
	dmaEN           = 1 << 0
	dmaHighPriority = 1 << 1
	dmaSizeByte     = 0 << 2
	dmaSizeHalfword = 1 << 2
	dmaSizeWord     = 2 << 2
	dmaIncrRead     = 1 << 4
	dmaIncrWrite    = 1 << 5
	dmaChainToPos   = 11
	dmaTreqSelPos   = 15
	dmaIRQQuiet     = 1 << 21
	dmaBusy         = 1 << 24

	dmaTreqPermanent = 0x3f
)

// DREQ numbers
const (
	dreqPIO0TX0  = 0
	dreqPIO1TX0  = 8
	dreqPWMWrap0 = 24
)

const dmaChannels = 12

var (
	errNoDMAChannel = errors.New("no free DMA channel")

	dmaClaimed [dmaChannels]bool
)

// claimDMA reserves a free channel.
func claimDMA() (uint8, error) {
	for i := range dmaClaimed {
		if !dmaClaimed[i] {
			dmaClaimed[i] = true
			return uint8(i), nil
		}
	}
	return 0, errNoDMAChannel
}

func dmaChannelAt(ch uint8) *dmaChannel {
	base := uintptr(unsafe.Pointer(&rp.DMA.CH0_READ_ADDR))
	return (*dmaChannel)(unsafe.Pointer(base + uintptr(ch)*unsafe.Sizeof(dmaChannel{})))
}

// dmaCtrl builds a CTRL value. A channel chained to itself means no chain.
func dmaCtrl(flags uint32, chainTo uint8, treq uint32) uint32 {
	return flags | uint32(chainTo)<<dmaChainToPos | treq<<dmaTreqSelPos
}

// abortDMA stops a channel and waits for in-flight transfers to drain.
func abortDMA(ch uint8) {
	c := dmaChannelAt(ch)
	c.CTRL_TRIG.ClearBits(dmaEN)
	rp.DMA.CHAN_ABORT.Set(1 << ch)
	for rp.DMA.CHAN_ABORT.Get()&(1<<ch) != 0 {
	}
}

func bufferAddr[T any](buf []T) uint32 {
	return uint32(uintptr(unsafe.Pointer(&buf[0])))
}

func wordAddr(p *uint32) uint32 {
	return uint32(uintptr(unsafe.Pointer(p)))
}

func registerAddr(r *volatile.Register32) uint32 {
	return uint32(uintptr(unsafe.Pointer(r)))
}
