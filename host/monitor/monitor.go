// Package monitor follows the scope's debug trace stream and keeps the
// latest instrument state for display.
package monitor

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"goscope/protocol"
)

// Status is the instrument state reconstructed from trace messages.
type Status struct {
	Connected bool `json:"connected"`

	TimebaseIndex    int    `json:"timebase_index"`
	TimebasePerDivUS uint32 `json:"timebase_per_div_us"`
	Strip            bool   `json:"strip"`
	FrequencyHz      uint32 `json:"frequency_hz"`

	Sweeps          uint32  `json:"sweeps"`
	SweepsPerSecond float64 `json:"sweeps_per_second"`
	SamplesPerCol   uint32  `json:"samples_per_column"`
	Overruns        uint32  `json:"overruns"`

	Frames     uint32 `json:"frames"`
	BadFrames  uint32 `json:"bad_frames"`
	LostFrames uint32 `json:"lost_frames"`

	Updated time.Time `json:"updated"`
}

// LogLine is one debug line from the firmware.
type LogLine struct {
	Time time.Time `json:"time"`
	Text string    `json:"text"`
}

// Monitor decodes trace bytes and tracks Status. It is safe for one
// reader goroutine plus any number of Status/Logs callers.
type Monitor struct {
	logger   *zap.Logger
	errLimit *rate.Limiter
	now      func() time.Time

	mu      sync.Mutex
	dec     *protocol.TraceDecoder
	input   *protocol.FifoBuffer
	status  Status
	logs    []LogLine
	maxLogs int

	// previous sweep report, for the rate estimate
	lastSweeps uint32
	lastClock  uint32
	haveSweep  bool
}

// sweepRateSmoothing weights the newest sweep interval in the running rate.
const sweepRateSmoothing = 0.2

// New returns a monitor logging to logger.
func New(cfg Config, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LogLines <= 0 {
		cfg.LogLines = DefaultConfig().LogLines
	}
	limit := rate.Limit(cfg.ErrorLogsPerSecond)
	if cfg.ErrorLogsPerSecond <= 0 {
		limit = rate.Inf
	}
	return &Monitor{
		logger:   logger,
		errLimit: rate.NewLimiter(limit, 1),
		now:      time.Now,
		dec:      protocol.NewTraceDecoder(),
		input:    protocol.NewFifoBuffer(4 * protocol.MessageMax),
		maxLogs:  cfg.LogLines,
	}
}

// Feed decodes data, which may hold partial frames.
func (m *Monitor) Feed(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for len(data) > 0 {
		n := m.input.Write(data)
		data = data[n:]
		m.dec.Receive(m.input, m.handle, m.decodeError)
		if n == 0 && m.input.Free() == 0 {
			// A full buffer with nothing decodable is garbage.
			m.input.Reset()
		}
	}
	m.status.Frames, m.status.BadFrames, m.status.LostFrames = m.dec.Stats()
}

func (m *Monitor) decodeError(err error) {
	if m.errLimit.Allow() {
		m.logger.Warn("trace frame rejected", zap.Error(err))
	}
}

// handle applies one message. Called with mu held.
func (m *Monitor) handle(msg protocol.TraceMessage) {
	now := m.now()
	m.status.Updated = now
	switch msg.ID {
	case protocol.MsgSweep:
		m.sweep(msg.Value(2), msg.Value(3))
		m.status.TimebaseIndex = int(msg.Value(0))
		m.status.SamplesPerCol = msg.Value(1)
	case protocol.MsgTimebase:
		m.status.TimebaseIndex = int(msg.Value(0))
		m.status.TimebasePerDivUS = msg.Value(1)
		m.status.Strip = msg.Value(2) != 0
		m.status.SweepsPerSecond = 0
		m.haveSweep = false
		m.logger.Info("timebase",
			zap.Int("index", m.status.TimebaseIndex),
			zap.Uint32("per_div_us", m.status.TimebasePerDivUS),
			zap.Bool("strip", m.status.Strip))
	case protocol.MsgFrequency:
		m.status.FrequencyHz = msg.Value(0)
		m.logger.Info("frequency", zap.Uint32("hz", m.status.FrequencyHz))
	case protocol.MsgOverrun:
		m.status.Overruns = msg.Value(0)
		m.logger.Warn("adc overrun", zap.Uint32("count", m.status.Overruns))
	case protocol.MsgLog:
		m.appendLog(LogLine{Time: now, Text: msg.Text})
		m.logger.Debug("firmware", zap.String("text", msg.Text))
	}
}

// sweep updates the count and the smoothed rate from the device clock,
// which counts microseconds and wraps.
func (m *Monitor) sweep(count, clock uint32) {
	if m.haveSweep && count > m.lastSweeps {
		if dt := clock - m.lastClock; dt > 0 {
			r := float64(count-m.lastSweeps) * 1e6 / float64(dt)
			if m.status.SweepsPerSecond == 0 {
				m.status.SweepsPerSecond = r
			} else {
				m.status.SweepsPerSecond += sweepRateSmoothing * (r - m.status.SweepsPerSecond)
			}
		}
	}
	m.status.Sweeps = count
	m.lastSweeps = count
	m.lastClock = clock
	m.haveSweep = true
}

func (m *Monitor) appendLog(l LogLine) {
	if len(m.logs) == m.maxLogs {
		copy(m.logs, m.logs[1:])
		m.logs = m.logs[:len(m.logs)-1]
	}
	m.logs = append(m.logs, l)
}

// SetConnected records the link state.
func (m *Monitor) SetConnected(c bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.Connected = c
	if !c {
		m.input.Reset()
		m.dec = protocol.NewTraceDecoder()
		m.haveSweep = false
	}
}

// Status returns a copy of the current state.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Logs returns the retained debug lines, oldest first.
func (m *Monitor) Logs() []LogLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LogLine, len(m.logs))
	copy(out, m.logs)
	return out
}
