package ratelimiter

import (
	"sync"
	"time"
)

// FixedWindowCounter allows limit requests per window. The window restarts
// on the first request after it has elapsed.
type FixedWindowCounter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu    sync.Mutex
	count int
	start time.Time
}

// NewFixedWindowCounter creates a counter whose first window starts now.
func NewFixedWindowCounter(limit int, window time.Duration, opts ...Option) *FixedWindowCounter {
	s := newSettings(opts)
	return &FixedWindowCounter{
		limit:  limit,
		window: window,
		now:    s.now,
		start:  s.now(),
	}
}

// Allow counts the request against the current window.
func (c *FixedWindowCounter) Allow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.start) >= c.window {
		c.start = now
		c.count = 0
	}
	if c.count >= c.limit {
		return false
	}
	c.count++
	return true
}
