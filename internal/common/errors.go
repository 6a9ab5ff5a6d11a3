// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input errors.
	ErrMissingColumn     = errors.New("required column missing")
	ErrSourceUnreadable  = errors.New("source unreadable")
	ErrUnsupportedSource = errors.New("unsupported source")
	ErrEmptySource       = errors.New("source has no header row")

	// Data errors.
	ErrInvalidAmount = errors.New("invalid amount")

	// Output errors.
	ErrOutputUnwritable = errors.New("output unwritable")

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

// IsRetryable reports whether WithRetry should try again after err.
// Unmarked errors are retried; cancellation and errors marked
// non-retryable are not.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return true
}

// IsStructural reports whether err must abort a report run.
func IsStructural(err error) bool {
	return errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrSourceUnreadable) ||
		errors.Is(err, ErrUnsupportedSource) ||
		errors.Is(err, ErrEmptySource) ||
		errors.Is(err, ErrOutputUnwritable) ||
		errors.Is(err, ErrInvalidConfig)
}
