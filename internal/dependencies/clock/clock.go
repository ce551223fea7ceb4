package clock

import "time"

// Clock is the time source for room timestamps and sweeper deadlines
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system clock in UTC
type SystemClock struct{}

// New creates a SystemClock
func New() *SystemClock {
	return &SystemClock{}
}

// Now returns the current time in UTC
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
