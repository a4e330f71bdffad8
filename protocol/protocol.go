// Package protocol implements the framed debug trace the firmware streams
// to the host over USB CDC.
//
// Each frame is
//
//	[len][seq][msgid payload...][crc hi][crc lo][0x7E]
//
// where len counts the whole frame, seq carries 0x10 in its high nibble
// and a rolling 4-bit counter in the low nibble, and every integer in the
// payload is VLQ encoded.
package protocol

// Version of the trace format
const Version = "1.0.0"

// Protocol constants
const (
	MessageMax = 128 // Scratch output size, room for one frame plus slack

	// Message sequence masks
	MessageSeqMask = 0x0F
)
