package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkurilov/postboard/internal/models"
	"github.com/dkurilov/postboard/internal/storage"
)

// CreateComment creates a new comment
func (s *Storage) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, message, sender_id, post_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		comment.ID,
		comment.Message,
		comment.SenderID,
		comment.PostID,
		comment.CreatedAt,
		comment.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	return nil
}

// GetCommentByID retrieves comment by ID
func (s *Storage) GetCommentByID(ctx context.Context, commentID string) (*models.Comment, error) {
	query := `
		SELECT id, message, sender_id, post_id, created_at, updated_at
		FROM comments
		WHERE id = ?
	`

	comment := &models.Comment{}

	err := s.db.QueryRowContext(ctx, query, commentID).Scan(
		&comment.ID,
		&comment.Message,
		&comment.SenderID,
		&comment.PostID,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return comment, nil
}

// ListComments retrieves all comments, newest first
// Непустой postID фильтрует по посту
func (s *Storage) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	query := `
		SELECT id, message, sender_id, post_id, created_at, updated_at
		FROM comments
	`
	args := []interface{}{}

	if postID != "" {
		query += ` WHERE post_id = ?`
		args = append(args, postID)
	}

	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var comments []*models.Comment

	for rows.Next() {
		comment := &models.Comment{}
		if err := rows.Scan(
			&comment.ID,
			&comment.Message,
			&comment.SenderID,
			&comment.PostID,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return comments, nil
}

// UpdateComment updates the comment message
func (s *Storage) UpdateComment(ctx context.Context, comment *models.Comment) error {
	query := `
		UPDATE comments
		SET message = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		comment.Message,
		comment.UpdatedAt,
		comment.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrCommentNotFound
	}

	return nil
}

// DeleteComment deletes comment by ID
func (s *Storage) DeleteComment(ctx context.Context, commentID string) error {
	query := `DELETE FROM comments WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrCommentNotFound
	}

	return nil
}
