package errors

import (
	"errors"
	"fmt"
)

// Common error types for the portal gateway
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("no active session")
	ErrSessionExpired     = errors.New("session expired")

	// Plant API boundary errors
	ErrMalformedResponse = errors.New("malformed API response")
	ErrRequestRejected   = errors.New("request rejected by plant API")

	// Input validation errors
	ErrWeakPassword  = errors.New("password does not meet policy")
	ErrInvalidStatus = errors.New("invalid user status")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
