package contract

import "fmt"

// InvalidInputError signals a precondition violation handed to the estimation
// pipeline: unsorted observations, inverted intervals, negative durations.
// These are upstream contract errors, so the aggregator skips the offending
// store's row rather than failing the whole report.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// NewInvalidInput builds an InvalidInputError with a formatted reason.
func NewInvalidInput(format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}
