package domain

import "errors"

var (
	ErrAlreadyExists      = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrPendingApproval    = errors.New("account is pending approval")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAlreadyApproved    = errors.New("account already approved")
	ErrNotFound           = errors.New("identity not found")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)
