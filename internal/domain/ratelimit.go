package domain

import "time"

// RateLimitRecord tracks one client's fixed window.
type RateLimitRecord struct {
	ClientKey            string `json:"clientKey"`
	Count                int    `json:"count"`
	WindowResetAtEpochMs int64  `json:"windowResetAtEpochMs"`
}

func (r RateLimitRecord) ResetAt() time.Time {
	return time.UnixMilli(r.WindowResetAtEpochMs)
}

// RateLimitDecision is the outcome of one admission check.
type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns how long a rejected client should wait, never negative.
func (d RateLimitDecision) RetryAfter(now time.Time) time.Duration {
	if wait := d.ResetAt.Sub(now); wait > 0 {
		return wait
	}
	return 0
}
