package ratelimiter

import (
	"sync"
	"time"
)

// TokenBucket allows bursts up to capacity and refills at rate tokens per second.
type TokenBucket struct {
	rate     float64
	capacity float64
	now      func() time.Time

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// NewTokenBucket creates a full bucket.
func NewTokenBucket(rate float64, capacity int, opts ...Option) *TokenBucket {
	s := newSettings(opts)
	return &TokenBucket{
		rate:     rate,
		capacity: float64(capacity),
		now:      s.now,
		tokens:   float64(capacity),
		last:     s.now(),
	}
}

// Allow refills according to elapsed time and takes one token if available.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	if elapsed := now.Sub(tb.last); elapsed > 0 {
		tb.tokens += elapsed.Seconds() * tb.rate
		if tb.tokens > tb.capacity {
			tb.tokens = tb.capacity
		}
		tb.last = now
	}

	if tb.tokens < 1 {
		return false
	}
	tb.tokens--
	return true
}
