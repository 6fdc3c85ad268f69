package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks
// (unbalanced entry on create, negative amount, missing reversal reason, ...).
var ErrValidation = errors.New("validation error")

// ErrInvalidState indicates that the requested operation is not legal for the
// resource's current lifecycle status.
var ErrInvalidState = errors.New("operation not allowed in current state")

// ErrUnbalanced indicates that the balance invariant re-check failed at post
// time, i.e. the stored lines no longer sum debits == credits.
var ErrUnbalanced = errors.New("journal entry debits and credits do not balance")

// ErrCreation indicates that exception resolution was attempted on an
// exception that is not open.
var ErrCreation = errors.New("exception is not open for resolution")

// ErrIntegrity indicates that a derived report failed its balancing
// cross-check. This signals data corruption or a latent bug and must never be
// retried or rounded away.
var ErrIntegrity = errors.New("ledger integrity violation")

// ErrConflict indicates that an attempt was made to create a resource that
// already exists (e.g. duplicate account code).
var ErrConflict = errors.New("resource already exists")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower-level error with an HTTP-ish status code and a
// message suitable for logging. Repositories use it to annotate driver errors.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that unwraps to ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
