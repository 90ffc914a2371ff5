package services

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups that resolved to nothing; handlers map it to 404.
var ErrNotFound = errors.New("not found")

// ValidationError is raised by local field checks before any I/O happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// CreationError wraps a failed primary create; dependent steps are skipped.
type CreationError struct {
	Err error
}

func (e *CreationError) Error() string {
	return "campaign creation failed: " + e.Err.Error()
}

func (e *CreationError) Unwrap() error { return e.Err }

// UploadWarning records a best-effort upload that failed after the campaign
// was already created. It is reported, never propagated as a failure.
type UploadWarning struct {
	Kind string // "brief" or "cover"
	Err  error
}

func (e *UploadWarning) Error() string {
	return e.Kind + " upload failed: " + e.Err.Error()
}

func (e *UploadWarning) Unwrap() error { return e.Err }
