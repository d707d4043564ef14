// Package clock abstracts time for services that reason about cutoffs.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// SystemClock returns wall-clock time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }
