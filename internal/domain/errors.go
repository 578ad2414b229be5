package domain

import "errors"

// Sentinel errors shared by repositories and services.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyMember      = errors.New("already a member")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
)
