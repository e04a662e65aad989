package clock

import "time"

// Clock abstracts time.Now so ledger timestamps are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// New returns a Clock backed by the system clock.
func New() Clock {
	return &DefaultClock{}
}

// DefaultClock implements the Clock interface using the system clock
type DefaultClock struct{}

// Now returns the current time
func (c *DefaultClock) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock pinned to a single instant.
type Fixed struct {
	T time.Time
}

func (f *Fixed) Now() time.Time {
	return f.T
}
