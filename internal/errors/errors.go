package errors

import (
	"errors"
	"fmt"
)

// Common error types for the dashboard core
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrSessionExpired     = errors.New("session expired")

	// Session persistence errors
	ErrCorruptedSession  = errors.New("corrupted session data")
	ErrIncompleteSession = errors.New("incomplete session")

	// Authorization errors
	ErrForbidden = errors.New("forbidden")

	// Request errors
	ErrBadRequest          = errors.New("bad request")
	ErrInvalidResponse     = errors.New("invalid response")
	ErrMissingPredictionID = errors.New("response is missing predictionId")

	// Polling errors
	ErrPollingExhausted = errors.New("polling attempts exhausted")

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
