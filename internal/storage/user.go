package storage

import (
	"context"

	"github.com/dkurilov/postboard/internal/models"
)

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrEmailTaken if email already exists
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// ListUsers retrieves all users
	// Returns empty slice if no users found
	ListUsers(ctx context.Context) ([]*models.User, error)

	// UpdateUser updates username and email
	// Returns ErrUserNotFound if user doesn't exist,
	// ErrEmailTaken if the new email belongs to another user
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser deletes user by ID
	// Returns ErrUserNotFound if user doesn't exist
	DeleteUser(ctx context.Context, userID string) error

	// UpdateRefreshToken replaces the user's stored refresh token.
	// A nil token clears the session (logout). The user has at most
	// one live refresh token at a time; the write is a single-row
	// atomic replace, last write wins.
	// Returns ErrUserNotFound if user doesn't exist
	UpdateRefreshToken(ctx context.Context, userID string, token *string) error
}
