package queue

import (
	"math/rand/v2"
	"time"
)

// RetryStrategy spaces attempts with capped exponential backoff.
type RetryStrategy struct {
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	Jitter      bool // ±10%
}

func DefaultRetryStrategy() RetryStrategy {
	return RetryStrategy{
		BaseBackoff: 5 * time.Second,
		MaxBackoff:  10 * time.Minute,
		Jitter:      true,
	}
}

// Backoff returns the delay after the given failed attempt: base, 2×base, 4×base...
func (s RetryStrategy) Backoff(attempt int) time.Duration {
	backoff := s.BaseBackoff
	for i := 1; i < attempt && backoff < s.MaxBackoff; i++ {
		backoff *= 2
	}

	if backoff > s.MaxBackoff {
		backoff = s.MaxBackoff
	}

	return s.jitter(backoff)
}

func (s RetryStrategy) jitter(d time.Duration) time.Duration {
	if !s.Jitter {
		return d
	}

	spread := d / 10
	if spread <= 0 {
		return d
	}

	d += time.Duration(rand.Int64N(int64(2*spread))) - spread
	if d < s.BaseBackoff {
		d = s.BaseBackoff
	}

	return d
}
