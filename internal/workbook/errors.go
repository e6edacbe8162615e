package workbook

import (
	"errors"
	"fmt"
)

// ErrDocumentEmpty is returned when no page of a document produced any
// sheet, neither a table nor a text fallback.
var ErrDocumentEmpty = errors.New("no text and no tables could be extracted from the document")

// ConversionError wraps errors with additional context about a conversion failure.
type ConversionError struct {
	// Op is the operation that failed (e.g., "Convert").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("workbook: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("workbook: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ConversionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewConversionError creates a new ConversionError.
func NewConversionError(op string, err error, details string) *ConversionError {
	return &ConversionError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}
