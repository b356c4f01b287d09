package abi

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLengthMismatch is wrapped by errors reporting a length member that
// disagrees with the trailing data of a record.
var ErrLengthMismatch = errors.New("length mismatch")

var invalidValidationError = "fatal: invalid ValidationError"

// SizeError is returned when a buffer cannot hold a record.
type SizeError struct {
	Record string
	Want   int
	Got    int
	// AtLeast is set for records ending in a flexible array, which accept
	// any length of Want or more.
	AtLeast bool
}

func (e *SizeError) Error() string {
	if e.AtLeast {
		return fmt.Sprintf("%s: need at least %d bytes, got %d", e.Record, e.Want, e.Got)
	}
	return fmt.Sprintf("%s: need exactly %d bytes, got %d", e.Record, e.Want, e.Got)
}

// ValidationError collects every structural problem found in one record.
// Users can inspect the Errors field for the individual failures.
type ValidationError struct {
	Record string
	Errors []error
}

func (vErr *ValidationError) Error() string {
	if len(vErr.Errors) == 0 {
		return invalidValidationError
	}
	var sb strings.Builder
	sb.WriteString("invalid ")
	sb.WriteString(vErr.Record)
	sb.WriteString(":")
	for _, err := range vErr.Errors {
		sb.WriteString("\n")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (vErr *ValidationError) Unwrap() []error {
	return vErr.Errors
}

func createValidationError(record string, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Record: record, Errors: errs}
}

// Validator is implemented by records whose contents can be checked beyond
// their size.
type Validator interface {
	Validate() error
}

// lengthMismatch reports a length field that disagrees with the trailing
// data it describes.
func lengthMismatch(field string, declared uint32, actual int) error {
	return fmt.Errorf("%w: %s is %d but %d trailing bytes are present", ErrLengthMismatch, field, declared, actual)
}
