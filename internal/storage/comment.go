package storage

import (
	"context"

	"github.com/dkurilov/postboard/internal/models"
)

// CommentStorage defines interface for comment persistence
type CommentStorage interface {
	// CreateComment creates a new comment
	CreateComment(ctx context.Context, comment *models.Comment) error

	// GetCommentByID retrieves comment by ID
	// Returns ErrCommentNotFound if comment doesn't exist
	GetCommentByID(ctx context.Context, commentID string) (*models.Comment, error)

	// ListComments retrieves all comments, newest first.
	// Non-empty postID filters by post
	ListComments(ctx context.Context, postID string) ([]*models.Comment, error)

	// UpdateComment updates the comment message
	// Returns ErrCommentNotFound if comment doesn't exist
	UpdateComment(ctx context.Context, comment *models.Comment) error

	// DeleteComment deletes comment by ID
	// Returns ErrCommentNotFound if comment doesn't exist
	DeleteComment(ctx context.Context, commentID string) error
}
