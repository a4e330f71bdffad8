package protocol

import (
	"bytes"
	"strings"
	"testing"
)

func TestTraceEncoderFrameLayout(t *testing.T) {
	var enc TraceEncoder
	frame := enc.Frequency(1000)

	expected := []byte{0x08, 0x10, 0x03, 0x87, 0x68, 0x68, 0xe7, 0x7e}
	if !bytes.Equal(frame, expected) {
		t.Errorf("Frequency(1000) = % x, want % x", frame, expected)
	}

	// Sequence advances and wraps in the low nibble
	for i := 1; i < 16; i++ {
		f := enc.Overrun(uint32(i))
		if f[MessagePositionSeq] != MessageDest|uint8(i) {
			t.Fatalf("frame %d seq = %#x", i, f[MessagePositionSeq])
		}
	}
	f := enc.Overrun(0)
	if f[MessagePositionSeq] != MessageDest {
		t.Errorf("sequence did not wrap: %#x", f[MessagePositionSeq])
	}
}

func collect(t *testing.T, dec *TraceDecoder, stream []byte) ([]TraceMessage, []error) {
	t.Helper()
	var msgs []TraceMessage
	var errs []error
	dec.Receive(NewSliceInputBuffer(stream), func(m TraceMessage) {
		msgs = append(msgs, m)
	}, func(err error) {
		errs = append(errs, err)
	})
	return msgs, errs
}

func TestTraceDecodeMessages(t *testing.T) {
	var enc TraceEncoder
	var stream []byte
	stream = append(stream, MessageValueSync)
	stream = append(stream, enc.Sweep(5, 50, 1234, 0xFFFFFFF0)...)
	stream = append(stream, enc.Timebase(15, 32000000, true)...)
	stream = append(stream, enc.Frequency(3000)...)
	stream = append(stream, enc.Log("sweep done")...)
	stream = append(stream, enc.Overrun(7)...)

	dec := NewTraceDecoder()
	msgs, errs := collect(t, dec, stream)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(msgs) != 5 {
		t.Fatalf("decoded %d messages, want 5", len(msgs))
	}

	sweep := msgs[0]
	if sweep.ID != MsgSweep || sweep.Value(0) != 5 || sweep.Value(1) != 50 ||
		sweep.Value(2) != 1234 || sweep.Value(3) != 0xFFFFFFF0 {
		t.Errorf("sweep = %+v", sweep)
	}
	tb := msgs[1]
	if tb.ID != MsgTimebase || tb.Value(0) != 15 || tb.Value(1) != 32000000 || tb.Value(2) != 1 {
		t.Errorf("timebase = %+v", tb)
	}
	if msgs[2].Name() != "frequency" || msgs[2].Value(0) != 3000 {
		t.Errorf("frequency = %+v", msgs[2])
	}
	if msgs[3].ID != MsgLog || msgs[3].Text != "sweep done" {
		t.Errorf("log = %+v", msgs[3])
	}
	if msgs[4].ID != MsgOverrun || msgs[4].Value(0) != 7 || msgs[4].Value(5) != 0 {
		t.Errorf("overrun = %+v", msgs[4])
	}

	frames, bad, lost := dec.Stats()
	if frames != 5 || bad != 0 || lost != 0 {
		t.Errorf("Stats() = %d, %d, %d", frames, bad, lost)
	}
}

func TestTraceDecodeResync(t *testing.T) {
	var enc TraceEncoder
	good := append([]byte(nil), enc.Frequency(10)...)
	corrupt := append([]byte(nil), enc.Frequency(30)...)
	corrupt[3] ^= 0x01 // payload bit flip breaks the CRC
	after := append([]byte(nil), enc.Frequency(100)...)

	var stream []byte
	stream = append(stream, 0x00, 0x42, 0x99) // line noise before the first sync
	stream = append(stream, MessageValueSync)
	stream = append(stream, good...)
	stream = append(stream, corrupt...)
	stream = append(stream, after...)

	dec := NewTraceDecoder()
	msgs, errs := collect(t, dec, stream)
	if len(msgs) != 2 || msgs[0].Value(0) != 10 || msgs[1].Value(0) != 100 {
		t.Fatalf("messages = %+v", msgs)
	}
	if len(errs) != 1 || errs[0] != ErrBadFrame {
		t.Errorf("errors = %v", errs)
	}
	_, bad, lost := dec.Stats()
	if bad != 1 {
		t.Errorf("bad frames = %d, want 1", bad)
	}
	if lost != 1 {
		t.Errorf("lost frames = %d, want 1 (sequence gap)", lost)
	}
}

func TestTraceDecodePartialFrame(t *testing.T) {
	var enc TraceEncoder
	frame := append([]byte{MessageValueSync}, enc.Log("partial")...)

	dec := NewTraceDecoder()
	fifo := NewFifoBuffer(256)
	var msgs []TraceMessage
	handle := func(m TraceMessage) { msgs = append(msgs, m) }

	fifo.Write(frame[:6])
	dec.Receive(fifo, handle, nil)
	if len(msgs) != 0 {
		t.Fatalf("decoded a message from a partial frame")
	}
	if fifo.Available() != 5 {
		t.Errorf("partial frame should stay buffered, %d bytes left", fifo.Available())
	}

	fifo.Write(frame[6:])
	dec.Receive(fifo, handle, nil)
	if len(msgs) != 1 || msgs[0].Text != "partial" {
		t.Fatalf("messages = %+v", msgs)
	}
	if !fifo.IsEmpty() {
		t.Errorf("FIFO should be drained, %d bytes left", fifo.Available())
	}
}

func TestTraceLogTruncated(t *testing.T) {
	var enc TraceEncoder
	long := strings.Repeat("x", 200)
	frame := enc.Log(long)
	if len(frame) != MessageLengthMax {
		t.Errorf("frame length = %d, want %d", len(frame), MessageLengthMax)
	}

	msgs, errs := collect(t, NewTraceDecoder(), append([]byte{MessageValueSync}, frame...))
	if len(errs) != 0 || len(msgs) != 1 {
		t.Fatalf("msgs=%v errs=%v", msgs, errs)
	}
	if len(msgs[0].Text) != MaxLogText {
		t.Errorf("text length = %d, want %d", len(msgs[0].Text), MaxLogText)
	}
}

func TestTraceUnknownMessage(t *testing.T) {
	var out ScratchOutput
	out.OutputByte(0)
	out.OutputByte(MessageDest)
	EncodeVLQUint(&out, 42)
	out.Update(0, uint8(out.CurPosition()+MessageTrailerSize))
	crc := CRC16(out.Result())
	out.Output([]byte{uint8(crc >> 8), uint8(crc), MessageValueSync})

	msgs, errs := collect(t, NewTraceDecoder(), append([]byte{MessageValueSync}, out.Result()...))
	if len(msgs) != 0 {
		t.Errorf("decoded unknown message: %+v", msgs)
	}
	if len(errs) != 1 || errs[0] != ErrUnknownMsgID {
		t.Errorf("errors = %v", errs)
	}
}
