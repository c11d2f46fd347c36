package ratelimiter

import (
	"fmt"
	"time"

	"VectorConsole/backend/go/pkg/util"
)

// RateLimiter is the interface for rate limiting.
// Allow returns true if a request is allowed, otherwise false.
type RateLimiter interface {
	Allow() bool
}

// Factory builds a fresh limiter for a newly seen client.
type Factory func() RateLimiter

// Option configures the built-in limiters.
type Option func(*settings)

type settings struct {
	now func() time.Time
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

func newSettings(opts []Option) settings {
	s := settings{now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Keyed keeps one limiter per client key. Least recently seen clients are
// dropped once maxKeys is exceeded, so a returning client starts with a fresh limiter.
type Keyed struct {
	factory  Factory
	limiters *util.LRUCache[string, RateLimiter]
}

// NewKeyed creates a per-key limiter.
func NewKeyed(factory Factory, maxKeys int) (*Keyed, error) {
	if factory == nil {
		return nil, fmt.Errorf("ratelimiter: nil factory")
	}
	cache, err := util.NewLRU[string, RateLimiter](util.CacheConfig{Capacity: maxKeys})
	if err != nil {
		return nil, fmt.Errorf("ratelimiter: %w", err)
	}
	return &Keyed{factory: factory, limiters: cache}, nil
}

// Allow reports whether the client identified by key may proceed.
func (k *Keyed) Allow(key string) bool {
	return k.limiters.GetOrPut(key, k.factory).Allow()
}
