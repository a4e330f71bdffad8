package monitor

import "time"

// Config holds the monitor settings. Field tags match the scopemon YAML
// file.
type Config struct {
	// Device is the scope's USB serial port
	Device string `koanf:"Device" yaml:"Device"`

	// Baud is passed to the port; USB CDC ignores it
	Baud int `koanf:"Baud" yaml:"Baud"`

	// ReadTimeoutMS bounds each serial read
	ReadTimeoutMS int `koanf:"ReadTimeoutMS" yaml:"ReadTimeoutMS"`

	// Addr is the HTTP listen address
	Addr string `koanf:"Addr" yaml:"Addr"`

	// LogLines is how many debug lines /log keeps
	LogLines int `koanf:"LogLines" yaml:"LogLines"`

	// ErrorLogsPerSecond limits how often decode errors are logged
	ErrorLogsPerSecond float64 `koanf:"ErrorLogsPerSecond" yaml:"ErrorLogsPerSecond"`

	// MaxRetryIntervalMS caps the reconnect backoff
	MaxRetryIntervalMS int `koanf:"MaxRetryIntervalMS" yaml:"MaxRetryIntervalMS"`
}

// DefaultConfig returns the settings scopemon starts from before reading
// its file.
func DefaultConfig() Config {
	return Config{
		Device:             "/dev/ttyACM0",
		Baud:               115200,
		ReadTimeoutMS:      100,
		Addr:               ":8000",
		LogLines:           100,
		ErrorLogsPerSecond: 1,
		MaxRetryIntervalMS: 5000,
	}
}

// ReadTimeout returns ReadTimeoutMS as a duration.
func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMS) * time.Millisecond
}

// MaxRetryInterval returns MaxRetryIntervalMS as a duration.
func (c Config) MaxRetryInterval() time.Duration {
	return time.Duration(c.MaxRetryIntervalMS) * time.Millisecond
}
