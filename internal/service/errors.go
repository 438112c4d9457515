package service

import "errors"

// Sentinel errors the transport layer maps to HTTP status codes.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("incorrect password or username")
	ErrInvalidReference   = errors.New("referenced row does not exist")
)
