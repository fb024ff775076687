// Package common defines shared constants and sentinel errors used across
// the STAKR server and its terminal client. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnavailable  = errors.New("service unavailable")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors (malformed input shape, rejected before the services).
	ErrorValidation = errors.New("validation error")

	// Registration / login errors.
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// Auth errors (invalid, tampered, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
)
