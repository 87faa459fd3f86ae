package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the auth service. Handlers map these onto the
// RPC status codes at the transport boundary; nothing below the server
// package knows about status codes.
var (
	// Validation errors
	ErrMissingUserID    = errors.New("missing user id")
	ErrInvalidUserID    = errors.New("invalid user id")
	ErrMissingAccountID = errors.New("missing oauth account id")
	ErrMissingToken     = errors.New("missing token")
	ErrInvalidToken     = errors.New("invalid token")

	// Authentication errors
	ErrTokenExpired    = errors.New("token expired")
	ErrSecretMismatch  = errors.New("token secret mismatch")
	ErrSessionNotFound = errors.New("session not found")

	// OAuth errors
	ErrUnspecifiedProvider = errors.New("oauth provider is not specified")

	// Storage errors
	ErrNotFound = errors.New("entity not found")
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
