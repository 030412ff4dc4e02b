package framework

import (
	"errors"
	"strings"
)

// AggregatedError collects the errors of runners stopped together.
type AggregatedError struct {
	Errors []error
}

// Error implements error.
func (e *AggregatedError) Error() string {
	switch len(e.Errors) {
	case 0:
		return ""
	case 1:
		return e.Errors[0].Error()
	}
	msg := make([]string, 0, len(e.Errors)+1)
	msg = append(msg, "multiple errors:")
	for _, err := range e.Errors {
		msg = append(msg, "  "+err.Error())
	}
	return strings.Join(msg, "\n")
}

// Add appends errors, nil is skipped.
func (e *AggregatedError) Add(errs ...error) *AggregatedError {
	for _, err := range errs {
		if err != nil {
			e.Errors = append(e.Errors, err)
		}
	}
	return e
}

// Is reports whether any collected error matches target.
func (e *AggregatedError) Is(target error) bool {
	for _, err := range e.Errors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Aggregate returns nil when nothing failed, the error itself when only
// one failed, or the aggregate.
func (e *AggregatedError) Aggregate() error {
	switch len(e.Errors) {
	case 0:
		return nil
	case 1:
		return e.Errors[0]
	}
	return e
}
