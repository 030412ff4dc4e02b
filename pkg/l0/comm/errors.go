package comm

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData indicates a Message is built without payload.
	ErrNoData = errors.New("no data")
	// ErrWriteFailed indicates the sink rejected a write.
	// Errors returned from Send match it with errors.Is.
	ErrWriteFailed = errors.New("write failed")
	// ErrConsumed indicates the Message of a Sender has already been sent.
	ErrConsumed = errors.New("message consumed")
)

// WriteError wraps the sink error with the part of the frame being written.
type WriteError struct {
	Stage string
	Err   error
}

// Error implements error.
func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s failed: %v", e.Stage, e.Err)
}

// Unwrap returns the sink error.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// Is makes WriteError match ErrWriteFailed.
func (e *WriteError) Is(target error) bool {
	return target == ErrWriteFailed
}
