// Package retry decides when a failed queue item may be attempted again.
package retry

import (
	"time"

	"github.com/asteroid-belt/solvesync/internal/models"
)

// Policy is an exponential backoff with a cap and a retry ceiling.
type Policy struct {
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	MaxRetries int
}

// DefaultPolicy returns 1s base, 60s cap, 5 attempts.
func DefaultPolicy() Policy {
	return Policy{
		BaseDelay:  time.Second,
		MaxDelay:   time.Minute,
		MaxRetries: 5,
	}
}

// Delay returns the wait required after the given number of failed
// attempts: min(BaseDelay * 2^(retries-1), MaxDelay). Zero retries need
// no wait.
func (p Policy) Delay(retries int) time.Duration {
	if retries <= 0 {
		return 0
	}
	delay := p.BaseDelay
	for i := 1; i < retries; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// EligibleNow reports whether item may be attempted at now.
func (p Policy) EligibleNow(item models.QueueItem, now time.Time) bool {
	if item.Retries <= 0 || item.LastAttempt == nil {
		return true
	}
	return now.Sub(*item.LastAttempt) >= p.Delay(item.Retries)
}

// NextAttempt returns when item becomes eligible.
func (p Policy) NextAttempt(item models.QueueItem) time.Time {
	if item.Retries <= 0 || item.LastAttempt == nil {
		return time.Time{}
	}
	return item.LastAttempt.Add(p.Delay(item.Retries))
}

// Exhausted reports whether an item that has failed retries times must be
// dropped.
func (p Policy) Exhausted(retries int) bool {
	return retries >= p.MaxRetries
}
