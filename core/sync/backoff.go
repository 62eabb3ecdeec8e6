package sync

import (
	"time"

	"meetsync/core/constants"
)

// Backoff is the retry policy for pending operations: exponential delay
// starting at Base, doubling up to Max, with at most MaxAttempts immediate
// attempts before the operation is left queued for the next reconnect.
type Backoff struct {
	Base        time.Duration
	Max         time.Duration
	MaxAttempts int
}

func DefaultBackoff() Backoff {
	return Backoff{
		Base:        constants.RetryBaseDelay,
		Max:         constants.RetryMaxDelay,
		MaxAttempts: constants.RetryMaxImmediateAttempts,
	}
}

// Delay returns the wait before the given retry. attempt is 1-based: the
// delay after the first failed attempt is Base.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := b.Base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= b.Max {
			return b.Max
		}
	}
	if d > b.Max {
		return b.Max
	}
	return d
}
