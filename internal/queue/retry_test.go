package queue_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/mandi/internal/queue"
)

func TestRetryStrategy_Backoff(t *testing.T) {
	s := queue.RetryStrategy{BaseBackoff: time.Second, MaxBackoff: 10 * time.Second}

	tests := map[int]time.Duration{
		0:  time.Second,
		1:  time.Second,
		2:  2 * time.Second,
		3:  4 * time.Second,
		4:  8 * time.Second,
		5:  10 * time.Second,
		80: 10 * time.Second,
	}

	for attempt, want := range tests {
		assert.Equal(t, want, s.Backoff(attempt), "attempt %d", attempt)
	}
}

func TestRetryStrategy_Jitter(t *testing.T) {
	s := queue.RetryStrategy{BaseBackoff: time.Second, MaxBackoff: time.Minute, Jitter: true}

	for range 50 {
		got := s.Backoff(3)
		assert.GreaterOrEqual(t, got, 3600*time.Millisecond)
		assert.Less(t, got, 4400*time.Millisecond)
	}
}
