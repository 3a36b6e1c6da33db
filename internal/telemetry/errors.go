package telemetry

import (
	"errors"
	"fmt"
)

var ErrEmptyInput = errors.New("telemetry: no samples")

// ValidationError reports a sample carrying a physically impossible value.
type ValidationError struct {
	Line  int
	Field string
	Value any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("telemetry: line %d: %s must not be negative (got %v)", e.Line, e.Field, e.Value)
}

// MalformedRecordError reports a line that does not decode into a sample.
type MalformedRecordError struct {
	Line int
	Err  error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("telemetry: line %d: malformed record: %v", e.Line, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}
