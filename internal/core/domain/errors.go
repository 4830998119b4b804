package domain

import "errors"

// Account lifecycle.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateAccount   = errors.New("email already registered")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("account not verified")
	ErrUnauthenticated    = errors.New("unauthenticated")

	// ErrUserNotFound is returned by credential stores only. The lifecycle
	// controller folds it into ErrInvalidOTP or ErrInvalidCredentials.
	ErrUserNotFound = errors.New("user not found")
)

// Catalog.
var ErrEntryNotFound = errors.New("entry not found")
