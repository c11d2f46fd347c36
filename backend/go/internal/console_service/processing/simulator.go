package processing

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"VectorConsole/backend/go/internal/models"
	"VectorConsole/backend/go/pkg/logger"
)

// ErrSimulatorClosed is returned by Dispatch after Close.
var ErrSimulatorClosed = errors.New("processing simulator is closed")

// Timer is the part of *time.Timer the simulator needs.
type Timer interface {
	Stop() bool
}

// Simulator stands in for the processing pipeline: every dispatched job
// completes after a fixed delay, or fails with probability errorRate.
type Simulator struct {
	completer Completer
	delay     time.Duration
	errorRate float64
	log       *logger.Logger

	afterFunc func(time.Duration, func()) Timer
	random    func() float64

	mu      sync.Mutex
	pending map[string]Timer
	closed  bool
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithAfterFunc replaces time.AfterFunc.
func WithAfterFunc(fn func(time.Duration, func()) Timer) SimulatorOption {
	return func(s *Simulator) { s.afterFunc = fn }
}

// WithRandom replaces the failure dice, which must return values in [0, 1).
func WithRandom(fn func() float64) SimulatorOption {
	return func(s *Simulator) { s.random = fn }
}

// WithSimulatorLogger sets the logger.
func WithSimulatorLogger(l *logger.Logger) SimulatorOption {
	return func(s *Simulator) { s.log = l }
}

// NewSimulator creates a Simulator that reports results to c.
func NewSimulator(c Completer, delay time.Duration, errorRate float64, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		completer: c,
		delay:     delay,
		errorRate: errorRate,
		log:       logger.Discard(),
		afterFunc: func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) },
		random:    rand.Float64,
		pending:   make(map[string]Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch schedules the completion of job.
func (s *Simulator) Dispatch(_ context.Context, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSimulatorClosed
	}
	s.pending[job.DocumentID] = s.afterFunc(s.delay, func() { s.fire(job) })
	return nil
}

func (s *Simulator) fire(job Job) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.pending, job.DocumentID)
	failed := s.random() < s.errorRate
	s.mu.Unlock()

	r := Result{DocumentID: job.DocumentID, Status: models.DocumentCompleted}
	if failed {
		r.Status = models.DocumentError
		r.ErrorMessage = FailureMessage
	} else {
		r.VectorCount = EstimateVectors(job.FileSize, job.ChunkSize, job.ChunkOverlap)
	}
	_ = Apply(context.Background(), s.completer, r, s.log)
}

// Pending returns the number of scheduled completions.
func (s *Simulator) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Close stops all scheduled completions.
func (s *Simulator) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, t := range s.pending {
		t.Stop()
		delete(s.pending, id)
	}
	return nil
}
