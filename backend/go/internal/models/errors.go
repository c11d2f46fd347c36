package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by reads, deletes and transitions against unknown ids.
	ErrNotFound = errors.New("not found")
	// ErrInvalidStateTransition is returned when completing or failing a document
	// that is no longer processing.
	ErrInvalidStateTransition = errors.New("invalid state transition")
	// ErrTransport matches any *TransportError.
	ErrTransport = errors.New("transport failure")
)

// TransportError wraps a failure of the backing transport (database, broker or remote API).
// No state is applied when one is returned.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// NotFoundf builds an ErrNotFound-wrapping error naming the missing entity.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}
