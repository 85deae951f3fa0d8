// Package clock lets services and jobs read the current time through an
// injectable dependency.
package clock

import "time"

// Clock returns the current instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now, in UTC.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a settable clock for tests.
type Fixed struct {
	now time.Time
}

// NewFixed returns a clock frozen at t until Set or Advance is called.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{now: t.UTC()}
}

func (f *Fixed) Now() time.Time {
	return f.now
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.now = t.UTC()
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}
