package textlayer

import (
	"errors"
	"fmt"
)

// Common text layer errors
var (
	// ErrInvalidPDF is returned when the document cannot be parsed or its
	// content streams are malformed.
	ErrInvalidPDF = errors.New("invalid or corrupted PDF document")

	// ErrEncryptedPDF is returned when the document requires a password.
	ErrEncryptedPDF = errors.New("PDF document is password protected")

	// ErrFileTooLarge is returned when the input exceeds MaxFileSizeBytes.
	ErrFileTooLarge = errors.New("PDF file exceeds the maximum size limit")

	// ErrNoPages is returned when the document has no pages.
	ErrNoPages = errors.New("PDF document has no pages")

	// ErrNoProvider is returned by a FallbackProvider without providers.
	ErrNoProvider = errors.New("no text layer provider configured")
)

// TextLayerError wraps errors with the provider and operation that failed.
type TextLayerError struct {
	// Op is the operation that failed (e.g., "ReadPages", "Validate").
	Op string

	// Provider names the library used, if any.
	Provider string

	// Page is the 1-based page being read, 0 when not page specific.
	Page int

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *TextLayerError) Error() string {
	switch {
	case e.Provider != "" && e.Page > 0:
		return fmt.Sprintf("textlayer: %s failed (%s, page %d): %v", e.Op, e.Provider, e.Page, e.Err)
	case e.Provider != "":
		return fmt.Sprintf("textlayer: %s failed (%s): %v", e.Op, e.Provider, e.Err)
	default:
		return fmt.Sprintf("textlayer: %s failed: %v", e.Op, e.Err)
	}
}

// Unwrap returns the underlying error for error unwrapping.
func (e *TextLayerError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *TextLayerError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapTextLayerError wraps an error as a TextLayerError if it isn't already one.
func WrapTextLayerError(op, provider string, page int, err error) error {
	if err == nil {
		return nil
	}

	var tlErr *TextLayerError
	if errors.As(err, &tlErr) {
		return err // Already wrapped
	}

	return &TextLayerError{Op: op, Provider: provider, Page: page, Err: err}
}
