package domain

import "errors"

// Domain errors represent business-level errors that can occur in the system.
// These errors are used across layers to communicate specific failure conditions.
var (
	// Action errors
	ErrAlreadyLocked = errors.New("an action is already in progress for this resource")
	ErrSelfDelete    = errors.New("cannot delete the currently authenticated account")

	// Stream errors
	ErrMalformedFrame = errors.New("malformed stream frame")
	ErrStreamErrored  = errors.New("stream channel errored")

	// Session errors
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrSessionNotFound  = errors.New("session not found")

	// Backend errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidRequest   = errors.New("invalid request")
)
