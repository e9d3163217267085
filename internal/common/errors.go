// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Validation errors.
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// Ledger errors.
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotFound            = errors.New("not found")

	// Storage errors.
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrPersistenceFailure = errors.New("persistence failure")

	// Import errors.
	ErrStreamFailure = errors.New("stream failure")
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
