package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrTemporary    = errors.New("temporary failure")
	// ErrMissingCredential aborts a run before any pair is scheduled.
	ErrMissingCredential = errors.New("missing extraction credential")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// ExtractionReason classifies why the extraction capability could not
// produce fields for one document.
type ExtractionReason string

const (
	ReasonUnreadable  ExtractionReason = "unreadable"
	ReasonUnsupported ExtractionReason = "unsupported"
	ReasonBackend     ExtractionReason = "backend"
	ReasonTimeout     ExtractionReason = "timeout"
)

// ExtractionError is the single failure outcome of the extraction
// capability. It marks the owning pair EXTRACTION_FAILED; it never aborts
// the batch.
type ExtractionError struct {
	Filename string
	Reason   ExtractionReason
	Err      error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extract %s: %s", e.Filename, e.Reason)
	}
	return fmt.Sprintf("extract %s: %s: %v", e.Filename, e.Reason, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// NewExtractionError builds a classified extraction failure.
func NewExtractionError(filename string, reason ExtractionReason, err error) *ExtractionError {
	return &ExtractionError{Filename: filename, Reason: reason, Err: err}
}

// AsExtractionError unwraps err to an ExtractionError if one is present.
func AsExtractionError(err error) (*ExtractionError, bool) {
	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr, true
	}
	return nil, false
}
