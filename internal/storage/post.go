package storage

import (
	"context"

	"github.com/dkurilov/postboard/internal/models"
)

// PostStorage defines interface for post persistence
type PostStorage interface {
	// CreatePost creates a new post
	CreatePost(ctx context.Context, post *models.Post) error

	// GetPostByID retrieves post by ID
	// Returns ErrPostNotFound if post doesn't exist
	GetPostByID(ctx context.Context, postID string) (*models.Post, error)

	// ListPosts retrieves all posts, newest first.
	// Non-empty senderID filters by author
	ListPosts(ctx context.Context, senderID string) ([]*models.Post, error)

	// UpdatePost updates title and content
	// Returns ErrPostNotFound if post doesn't exist
	UpdatePost(ctx context.Context, post *models.Post) error

	// DeletePost deletes post by ID
	// Returns ErrPostNotFound if post doesn't exist
	DeletePost(ctx context.Context, postID string) error
}
