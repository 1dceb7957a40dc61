package domain

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidAction   = errors.New("invalid action")
	ErrConflict        = errors.New("conflict")

	ErrInvalidCredentials = errors.New("invalid email or password")
)
