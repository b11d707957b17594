package clock

import (
	"errors"
	"time"
)

// ErrBeforeEpoch is returned when the system clock reports a time before 1970-01-01 UTC.
var ErrBeforeEpoch = errors.New("system time is before the Unix epoch")

// Clock reports the current time.
type Clock interface {
	Now() (time.Time, error)
}

// System reads the wall clock.
type System struct{}

func (System) Now() (time.Time, error) {
	return Check(time.Now())
}

// Fixed always reports the same instant. Useful for frozen-time runs and tests.
type Fixed time.Time

func (f Fixed) Now() (time.Time, error) {
	return Check(time.Time(f))
}

// Func adapts a plain function to Clock.
type Func func() (time.Time, error)

func (f Func) Now() (time.Time, error) {
	return f()
}

// Check rejects instants that cannot be expressed as non-negative Unix seconds.
func Check(t time.Time) (time.Time, error) {
	if t.Unix() < 0 {
		return time.Time{}, ErrBeforeEpoch
	}
	return t, nil
}
