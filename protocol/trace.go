package protocol

import "errors"

const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10

	// MaxLogText is the longest log line that fits one frame: the
	// payload budget minus the message id and the one-byte length.
	MaxLogText = MessageLengthMax - MessageLengthMin - 2
)

// Trace message ids
const (
	MsgSweep     = 1 // setting, samples per column, sweep count, clock
	MsgTimebase  = 2 // setting, time per division in us, strip flag
	MsgFrequency = 3 // frequency in Hz
	MsgLog       = 4 // text
	MsgOverrun   = 5 // overrun count
)

var (
	ErrBadFrame     = errors.New("bad trace frame")
	ErrUnknownMsgID = errors.New("unknown trace message id")
)

// argCount is the number of integer arguments per message id.
var argCount = [...]int{
	MsgSweep:     4,
	MsgTimebase:  3,
	MsgFrequency: 1,
	MsgLog:       0,
	MsgOverrun:   1,
}

// MessageName returns the message id as printed by the host tools.
func MessageName(id uint8) string {
	switch id {
	case MsgSweep:
		return "sweep"
	case MsgTimebase:
		return "timebase"
	case MsgFrequency:
		return "frequency"
	case MsgLog:
		return "log"
	case MsgOverrun:
		return "overrun"
	}
	return "unknown"
}

// TraceEncoder builds trace frames in a fixed scratch buffer. The
// returned slices alias the scratch buffer and are valid until the next
// call.
type TraceEncoder struct {
	out ScratchOutput
	seq uint8
}

func (e *TraceEncoder) begin(id uint8) {
	e.out.Reset()
	e.out.OutputByte(0)
	e.out.OutputByte(MessageDest | e.seq)
	EncodeVLQUint(&e.out, uint32(id))
}

func (e *TraceEncoder) finish() []byte {
	e.out.Update(MessagePositionLen, uint8(e.out.CurPosition()+MessageTrailerSize))
	crc := CRC16(e.out.Result())
	e.out.OutputByte(uint8(crc >> 8))
	e.out.OutputByte(uint8(crc))
	e.out.OutputByte(MessageValueSync)
	e.seq = (e.seq + 1) & MessageSeqMask
	return e.out.Result()
}

// Sweep frames a completed sweep.
func (e *TraceEncoder) Sweep(setting, samples, sweeps, clock uint32) []byte {
	e.begin(MsgSweep)
	EncodeVLQUint(&e.out, setting)
	EncodeVLQUint(&e.out, samples)
	EncodeVLQUint(&e.out, sweeps)
	EncodeVLQUint(&e.out, clock)
	return e.finish()
}

// Timebase frames a timebase change.
func (e *TraceEncoder) Timebase(setting, perDivUS uint32, strip bool) []byte {
	e.begin(MsgTimebase)
	EncodeVLQUint(&e.out, setting)
	EncodeVLQUint(&e.out, perDivUS)
	var flag uint32
	if strip {
		flag = 1
	}
	EncodeVLQUint(&e.out, flag)
	return e.finish()
}

// Frequency frames a signal generator change.
func (e *TraceEncoder) Frequency(hz uint32) []byte {
	e.begin(MsgFrequency)
	EncodeVLQUint(&e.out, hz)
	return e.finish()
}

// Overrun frames the running ADC overrun count.
func (e *TraceEncoder) Overrun(count uint32) []byte {
	e.begin(MsgOverrun)
	EncodeVLQUint(&e.out, count)
	return e.finish()
}

// Log frames a debug line, truncated to MaxLogText bytes.
func (e *TraceEncoder) Log(text string) []byte {
	if len(text) > MaxLogText {
		text = text[:MaxLogText]
	}
	e.begin(MsgLog)
	EncodeVLQString(&e.out, text)
	return e.finish()
}

// TraceMessage is one decoded frame.
type TraceMessage struct {
	Seq    uint8
	ID     uint8
	Values []uint32
	Text   string
}

// Name returns the message name.
func (m TraceMessage) Name() string {
	return MessageName(m.ID)
}

// Value returns argument i, or zero when absent.
func (m TraceMessage) Value(i int) uint32 {
	if i < 0 || i >= len(m.Values) {
		return 0
	}
	return m.Values[i]
}

// TraceDecoder splits a byte stream into trace messages. It drops bytes
// up to the next sync byte whenever a frame fails validation.
type TraceDecoder struct {
	synced  bool
	haveSeq bool
	nextSeq uint8

	frames    uint32
	badFrames uint32
	lost      uint32
}

// NewTraceDecoder returns a decoder that waits for a sync byte before
// trusting the stream.
func NewTraceDecoder() *TraceDecoder {
	return &TraceDecoder{}
}

// Stats returns good frames, rejected frames and frames inferred lost
// from sequence gaps.
func (d *TraceDecoder) Stats() (frames, bad, lost uint32) {
	return d.frames, d.badFrames, d.lost
}

// Receive decodes every complete frame in input, calling handle for each
// message and onError for each rejected frame (onError may be nil).
// Consumed bytes are popped; a partial frame stays buffered.
func (d *TraceDecoder) Receive(input InputBuffer, handle func(TraceMessage), onError func(error)) {
	data := input.Data()

	reject := func(err error) {
		d.synced = false
		d.badFrames++
		if onError != nil {
			onError(err)
		}
	}

	for len(data) > 0 {
		if !d.synced {
			i := 0
			for i < len(data) && data[i] != MessageValueSync {
				i++
			}
			if i == len(data) {
				data = nil
				break
			}
			data = data[i+1:]
			d.synced = true
			continue
		}

		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}
		if len(data) < MessageLengthMin {
			break
		}

		msgLen := int(data[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
			reject(ErrBadFrame)
			continue
		}
		seq := data[MessagePositionSeq]
		if seq&^MessageSeqMask != MessageDest {
			reject(ErrBadFrame)
			continue
		}
		if len(data) < msgLen {
			break
		}
		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			reject(ErrBadFrame)
			continue
		}
		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
			uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			reject(ErrBadFrame)
			continue
		}

		payload := data[MessageHeaderSize : msgLen-MessageTrailerSize]
		data = data[msgLen:]

		msg, err := parseMessage(seq&MessageSeqMask, payload)
		if err != nil {
			d.badFrames++
			if onError != nil {
				onError(err)
			}
			continue
		}
		d.trackSeq(msg.Seq)
		d.frames++
		handle(msg)
	}

	if consumed := input.Available() - len(data); consumed > 0 {
		input.Pop(consumed)
	}
}

func (d *TraceDecoder) trackSeq(seq uint8) {
	if d.haveSeq && seq != d.nextSeq {
		d.lost += uint32((seq - d.nextSeq) & MessageSeqMask)
	}
	d.haveSeq = true
	d.nextSeq = (seq + 1) & MessageSeqMask
}

func parseMessage(seq uint8, payload []byte) (TraceMessage, error) {
	id, err := DecodeVLQUint(&payload)
	if err != nil {
		return TraceMessage{}, err
	}
	if id == 0 || id >= uint32(len(argCount)) {
		return TraceMessage{}, ErrUnknownMsgID
	}
	msg := TraceMessage{Seq: seq, ID: uint8(id)}
	if n := argCount[id]; n > 0 {
		msg.Values = make([]uint32, n)
		for i := range msg.Values {
			if msg.Values[i], err = DecodeVLQUint(&payload); err != nil {
				return TraceMessage{}, err
			}
		}
	}
	if id == MsgLog {
		if msg.Text, err = DecodeVLQString(&payload); err != nil {
			return TraceMessage{}, err
		}
	}
	return msg, nil
}
