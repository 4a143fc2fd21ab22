package clock

import "time"

// Clock abstracts wall time so token expiry and rotation logic can be
// driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock. All times are UTC.
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current UTC time
func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}
