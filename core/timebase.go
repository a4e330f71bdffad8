package core

import (
	"errors"
	"time"
)

// TimebaseSetting is one entry of the horizontal scale table.
type TimebaseSetting struct {
	Name             string
	PerDivision      time.Duration
	SamplesPerColumn int
	Period           time.Duration
	Strip            bool // scrolling strip chart instead of sweeps
}

// ColumnTime is the time covered by one screen column.
func (s TimebaseSetting) ColumnTime() time.Duration {
	return s.PerDivision / ColumnsPerDivision
}

// SweepSamples is the number of samples one fixed sweep consumes.
func (s TimebaseSetting) SweepSamples() int {
	return s.SamplesPerColumn * ScreenWidth
}

// Timebases is ordered fastest first. The sampling rate tops out at
// 500 kS/s, so the fast end trades decimation for a 2us period and the
// slow end keeps 50 samples per column and stretches the period.
var Timebases = [...]TimebaseSetting{
	{"20us", 20 * time.Microsecond, 1, 2 * time.Microsecond, false},
	{"50us", 50 * time.Microsecond, 2, 2500 * time.Nanosecond, false},
	{"100us", 100 * time.Microsecond, 5, 2 * time.Microsecond, false},
	{"200us", 200 * time.Microsecond, 10, 2 * time.Microsecond, false},
	{"500us", 500 * time.Microsecond, 25, 2 * time.Microsecond, false},
	{"1ms", 1 * time.Millisecond, 50, 2 * time.Microsecond, false},
	{"2ms", 2 * time.Millisecond, 50, 4 * time.Microsecond, false},
	{"5ms", 5 * time.Millisecond, 50, 10 * time.Microsecond, false},
	{"10ms", 10 * time.Millisecond, 50, 20 * time.Microsecond, false},
	{"20ms", 20 * time.Millisecond, 50, 40 * time.Microsecond, false},
	{"50ms", 50 * time.Millisecond, 50, 100 * time.Microsecond, false},
	{"100ms", 100 * time.Millisecond, 50, 200 * time.Microsecond, false},
	{"200ms", 200 * time.Millisecond, 50, 400 * time.Microsecond, false},
	{"500ms", 500 * time.Millisecond, 50, 1 * time.Millisecond, false},
	{"1s", 1 * time.Second, 50, 2 * time.Millisecond, false},
	{"32s", 32 * time.Second, 50, 64 * time.Millisecond, true},
}

var (
	ErrTimebaseOrder  = errors.New("timebase table not strictly increasing")
	ErrTimebasePeriod = errors.New("timebase samples*period does not match column time")
	ErrTimebaseDepth  = errors.New("timebase samples per column out of range")
)

// ValidateTimebases checks the table invariants once at startup.
func ValidateTimebases() error {
	for i, s := range Timebases {
		if s.SamplesPerColumn < 1 || s.SamplesPerColumn > MaxSamplesPerColumn {
			return ErrTimebaseDepth
		}
		if time.Duration(s.SamplesPerColumn)*s.Period != s.ColumnTime() {
			return ErrTimebasePeriod
		}
		if i > 0 && s.PerDivision <= Timebases[i-1].PerDivision {
			return ErrTimebaseOrder
		}
	}
	return nil
}

// Timebase holds the selected table index. Only the button handler
// writes it; the renderer snapshots it at sweep boundaries.
type Timebase struct {
	index int
}

// NewTimebase returns a controller positioned at index (wrapped).
func NewTimebase(index int) *Timebase {
	tb := &Timebase{}
	tb.Set(index)
	return tb
}

// Index returns the selected table index.
func (tb *Timebase) Index() int {
	return tb.index
}

// Set selects index modulo the table length.
func (tb *Timebase) Set(index int) {
	n := len(Timebases)
	tb.index = ((index % n) + n) % n
}

// Current returns the selected setting.
func (tb *Timebase) Current() TimebaseSetting {
	return Timebases[tb.index]
}

// Advance selects the next slower setting, wrapping from the last entry
// back to the fastest, and returns it.
func (tb *Timebase) Advance() TimebaseSetting {
	tb.index = (tb.index + 1) % len(Timebases)
	return Timebases[tb.index]
}

// SamplesPerColumn looks up the decimation factor of a table entry.
func (tb *Timebase) SamplesPerColumn(setting int) int {
	return lookupTimebase(setting).SamplesPerColumn
}

// AcquisitionPeriod looks up the sampling period of a table entry.
func (tb *Timebase) AcquisitionPeriod(setting int) time.Duration {
	return lookupTimebase(setting).Period
}

func lookupTimebase(setting int) TimebaseSetting {
	n := len(Timebases)
	return Timebases[((setting%n)+n)%n]
}
