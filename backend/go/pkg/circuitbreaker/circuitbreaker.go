package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State represents the state of the circuit breaker.
type State int

const (
	// Closed lets requests through and counts consecutive failures.
	Closed State = iota
	// Open rejects requests until the timeout elapses.
	Open
	// HalfOpen lets trial requests through; one failure reopens the circuit.
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned by Execute while the circuit is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker guards calls to a dependency that may be failing.
type CircuitBreaker interface {
	// Execute runs fn unless the circuit is open. A non-nil error from fn counts as a failure.
	Execute(fn func() error) error
	State() State
}

// Option configures a breaker.
type Option func(*breaker)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(b *breaker) { b.now = now }
}

// OnStateChange registers a callback invoked (outside the lock) on every transition.
func OnStateChange(fn func(from, to State)) Option {
	return func(b *breaker) { b.onChange = fn }
}

type breaker struct {
	failureThreshold uint32
	successThreshold uint32
	timeout          time.Duration
	now              func() time.Time
	onChange         func(from, to State)

	mu        sync.Mutex
	state     State
	failures  uint32
	successes uint32
	openedAt  time.Time
}

// New creates a closed breaker.
// failureThreshold consecutive failures open it, successThreshold consecutive
// half-open successes close it, and timeout is how long it stays open.
func New(failureThreshold, successThreshold uint32, timeout time.Duration, opts ...Option) CircuitBreaker {
	if failureThreshold == 0 {
		failureThreshold = 1
	}
	if successThreshold == 0 {
		successThreshold = 1
	}
	b := &breaker{
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current()
}

func (b *breaker) Execute(fn func() error) error {
	b.mu.Lock()
	from := b.state
	state := b.current()
	b.mu.Unlock()
	b.notify(from, state)

	if state == Open {
		return ErrCircuitOpen
	}

	err := fn()

	b.mu.Lock()
	from = b.state
	if err != nil {
		b.onFailure()
	} else {
		b.onSuccess()
	}
	to := b.state
	b.mu.Unlock()
	b.notify(from, to)
	return err
}

// current moves Open to HalfOpen once the timeout has elapsed. 调用方持有锁。
func (b *breaker) current() State {
	if b.state == Open && b.now().Sub(b.openedAt) >= b.timeout {
		b.state = HalfOpen
		b.successes = 0
	}
	return b.state
}

func (b *breaker) onSuccess() {
	switch b.state {
	case HalfOpen:
		b.successes++
		if b.successes >= b.successThreshold {
			b.state = Closed
			b.failures = 0
			b.successes = 0
		}
	case Closed:
		b.failures = 0
	}
}

func (b *breaker) onFailure() {
	switch b.state {
	case HalfOpen:
		b.trip()
	case Closed:
		b.failures++
		if b.failures >= b.failureThreshold {
			b.trip()
		}
	}
}

func (b *breaker) trip() {
	b.state = Open
	b.openedAt = b.now()
	b.failures = 0
	b.successes = 0
}

func (b *breaker) notify(from, to State) {
	if from != to && b.onChange != nil {
		b.onChange(from, to)
	}
}
