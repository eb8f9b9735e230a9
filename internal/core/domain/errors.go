package domain

import "errors"

// Validation errors: the request itself is malformed or conflicts with
// existing data.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidRole  = errors.New("role must be one of: lifeguard, skipatrol")
	ErrUserExists   = errors.New("user already exists")
)

// Authentication errors: the caller failed to prove who they are.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidCode        = errors.New("invalid 2FA code")
	ErrCodeExpired        = errors.New("2FA code expired")
	ErrTooManyAttempts    = errors.New("too many invalid 2FA attempts")
	ErrAnswerMismatch     = errors.New("incorrect answers")
)

// Authorization errors: the session presented with the request is unusable.
var (
	ErrMissingToken = errors.New("authentication required")
	ErrInvalidToken = errors.New("invalid session")
	ErrExpiredToken = errors.New("session expired")
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrItemNotFound = errors.New("item not found")
)

// ErrMailDelivery wraps failures of the outbound mail collaborator.
var ErrMailDelivery = errors.New("mail delivery failed")
