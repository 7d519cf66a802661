package models

import "errors"

// Domain errors shared by both front ends. Services wrap these with
// context; transports map them to status codes or flash messages.
var (
	ErrNotFound           = errors.New("not found")
	ErrUnavailable        = errors.New("no copies available")
	ErrConflict           = errors.New("conflict")
	ErrAlreadyReturned    = errors.New("already returned")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
