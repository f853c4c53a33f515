// Package common defines shared constants and sentinel errors used across
// client and server layers of OnliMess. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Account lifecycle errors.
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrAccountFrozen      = errors.New("account frozen")

	// Validation / duplicate errors for user-initiated actions.
	ErrValidation    = errors.New("validation error")
	ErrAlreadyExists = errors.New("already exists")

	// Transport and service errors.
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
