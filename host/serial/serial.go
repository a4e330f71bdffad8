package serial

import (
	"io"
	"time"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - Mock serial (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate. The scope's trace link is USB CDC, which ignores it.
	Baud int

	// ReadTimeout bounds each Read; 0 blocks
	ReadTimeout time.Duration
}

// DefaultConfig returns the configuration for the scope's USB trace port
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100 * time.Millisecond,
	}
}

// Opener opens a port. Reconnect loops take one so tests can substitute
// an in-memory port.
type Opener func() (Port, error)

// OpenerFor returns an Opener for a native port with cfg.
func OpenerFor(cfg *Config) Opener {
	return func() (Port, error) {
		return Open(cfg)
	}
}
