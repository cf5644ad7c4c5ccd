// Package apperr defines the typed error kinds shared by the workflow core.
// Services wrap causes with %w so callers can match kinds via errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. The HTTP layer maps these to status codes;
// the core only ever matches on them with errors.Is.
var (
	ErrConflict           = errors.New("conflict")
	ErrPaymentRequired    = errors.New("payment required")
	ErrBadRequest         = errors.New("bad request")
	ErrValidationFailed   = errors.New("validation failed")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
)

// Wrap attaches a kind to a descriptive message. The kind stays matchable
// with errors.Is; the message carries the detail.
func Wrap(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// WrapErr attaches a kind to an underlying cause, keeping both matchable.
func WrapErr(kind error, cause error) error {
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}
