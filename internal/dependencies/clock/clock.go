package clock

import "time"

// Clock supplies timestamps for game records and can be mocked for testing
type Clock interface {
	// Now returns the current time in UTC
	Now() time.Time
}

// SystemClock implements Clock using the wall clock.
// Times are truncated to milliseconds, the precision the stores keep.
type SystemClock struct{}

// New creates a new SystemClock
func New() *SystemClock {
	return &SystemClock{}
}

// Now returns the current UTC time
func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
