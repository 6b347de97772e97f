package model

import (
	"context"
	"errors"
	"fmt"
)

// UnavailableError signals a transient provider failure (connection refused,
// 5xx, rate limit). The orchestrator retries these with bounded backoff.
type UnavailableError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("model unavailable (%s): %v", e.Provider, e.Err)
}

// Unwrap returns the underlying cause.
func (e *UnavailableError) Unwrap() error { return e.Err }

// TimeoutError signals that a model call exceeded its deadline. Retried like
// UnavailableError.
type TimeoutError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("model timeout (%s): %v", e.Provider, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TimeoutError) Unwrap() error { return e.Err }

// IsTransient reports whether err is worth retrying: a provider
// unavailability, a model timeout, or a plain deadline expiry.
func IsTransient(err error) bool {
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return true
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
