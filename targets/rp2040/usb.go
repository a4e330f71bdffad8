//go:build rp2040

package main

import (
	"errors"
	"machine"
)

var errShortWrite = errors.New("usb: short write")

// usb tracks the CDC link the trace frames go out on. Frames are dropped,
// not queued, while the host is away.
var usb struct {
	writeFailures uint32
	disconnected  bool
	skipped       uint32
}

// reconnectProbe is how many frames are dropped between write attempts
// while disconnected.
const reconnectProbe = 64

// InitUSB sets up USB CDC. On the RP2040 machine.Serial is the USB port.
func InitUSB() {
	_ = machine.Serial.Configure(machine.UARTConfig{})
}

// writeTrace sends one trace frame. After repeated failures the link is
// treated as disconnected until a write succeeds again.
func writeTrace(frame []byte) error {
	if usb.disconnected {
		usb.skipped++
		if usb.skipped%reconnectProbe != 0 {
			return errShortWrite
		}
	}
	n, err := machine.Serial.Write(frame)
	if err == nil && n != len(frame) {
		err = errShortWrite
	}
	if err != nil {
		usb.writeFailures++
		if usb.writeFailures > 10 {
			usb.disconnected = true
		}
		return err
	}
	usb.writeFailures = 0
	usb.disconnected = false
	return nil
}
