package auth

import "errors"

// Классификация ошибок жизненного цикла сессии.
// Handlers сводят их к HTTP статусам через errors.Is
var (
	// ErrEmailTaken indicates that a user with this email is already registered
	ErrEmailTaken = errors.New("email already taken")

	// ErrUserNotFound indicates that no user matches the given email or ID
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials indicates a password mismatch
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken indicates that a refresh token failed verification
	// or no longer matches the stored value
	ErrInvalidToken = errors.New("invalid refresh token")

	// ErrValidation indicates that a registration field failed validation
	ErrValidation = errors.New("validation failed")
)
