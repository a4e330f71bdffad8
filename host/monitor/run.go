package monitor

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"goscope/host/serial"
)

// readChunk is the serial read size. Trace frames are at most 64 bytes.
const readChunk = 256

// Run follows the trace link until ctx is cancelled. Whenever the port
// cannot be opened or stops delivering, it reconnects with exponential
// backoff capped at maxInterval.
func (m *Monitor) Run(ctx context.Context, open serial.Opener, maxInterval time.Duration) error {
	for {
		port, err := m.connect(ctx, open, maxInterval)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		m.SetConnected(true)
		m.logger.Info("trace link up")
		err = m.follow(ctx, port)
		_ = port.Close()
		m.SetConnected(false)

		if ctx.Err() != nil {
			return nil
		}
		m.logger.Warn("trace link lost", zap.Error(err))
	}
}

func (m *Monitor) connect(ctx context.Context, open serial.Opener, maxInterval time.Duration) (serial.Port, error) {
	var port serial.Port
	attempts := 0
	op := func() error {
		attempts++
		p, err := open()
		if err != nil {
			if m.errLimit.Allow() {
				m.logger.Warn("cannot open trace port", zap.Error(err), zap.Int("attempt", attempts))
			}
			return err
		}
		port = p
		return nil
	}

	b := &backoff.ExponentialBackOff{
		InitialInterval:     50 * time.Millisecond,
		RandomizationFactor: 0.,
		Multiplier:          2.,
		MaxInterval:         maxInterval,
		MaxElapsedTime:      0, // retry until cancelled
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	if err := port.Flush(); err != nil {
		m.logger.Debug("flush failed", zap.Error(err))
	}
	return port, nil
}

// follow feeds the monitor from port until a read fails or ctx ends.
// Timeouts show up as empty reads and are not errors.
func (m *Monitor) follow(ctx context.Context, port serial.Port) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			// Unblocks a pending Read
			_ = port.Close()
		case <-done:
		}
	}()

	buf := make([]byte, readChunk)
	for {
		n, err := port.Read(buf)
		if n > 0 {
			m.Feed(buf[:n])
		}
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, io.EOF):
			return io.ErrUnexpectedEOF
		case err != nil:
			return err
		}
	}
}
