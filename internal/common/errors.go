// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrValidation indicates bad caller input (non-positive amount, blank
	// required field). Never retried automatically.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConsistency indicates a detected invariant violation, such as an
	// account balance that no longer matches its entries. Fatal to the
	// operation; the enclosing transaction must roll back.
	ErrConsistency = errors.New("consistency violation")

	// ErrInvalidOperation indicates a request that could not be honored as
	// asked, such as withdrawing more than a goal holds. The caller receives
	// the clamped actual effect alongside this error.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrDuplicateEntry indicates a uniqueness conflict in the store.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry. Validation,
// not-found and invalid-operation errors are caller mistakes and never
// retried; transient timeouts are.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidOperation) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
