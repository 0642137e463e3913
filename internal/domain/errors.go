package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRequired is returned when an operation needs an owner and none is established.
	ErrAuthRequired = errors.New("authentication required")

	// ErrUserIDRequired is returned by the REST proxy when a request carries no user id.
	ErrUserIDRequired = errors.New("user ID is required")
)

// ValidationError reports malformed input caught before any backend call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// BackendError wraps any failure of the persistence backend. Cause keeps the original error.
type BackendError struct {
	Op    string
	Cause error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s failed: %v", e.Op, e.Cause)
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsBackend reports whether err is, or wraps, a *BackendError.
func IsBackend(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
