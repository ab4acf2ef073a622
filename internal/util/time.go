package util

import "time"

// Clock returns the current time. Components take one so tests can move time by hand.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}

// ManualClock is a settable Clock for tests and tools.
type ManualClock struct {
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	return c.now
}

func (c *ManualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
