package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dkurilov/postboard/internal/models"
)

// setupTestStorage создает хранилище во временном файле
// и прогоняет миграции
func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	store, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

func makeUser(t *testing.T, email string) *models.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	return &models.User{
		ID:           uuid.New().String(),
		Username:     "tester",
		Email:        email,
		PasswordHash: "$2a$10$hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func makePost(t *testing.T, senderID string) *models.Post {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	return &models.Post{
		ID:        uuid.New().String(),
		Title:     "Test post",
		Content:   "Test content",
		SenderID:  senderID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func makeComment(t *testing.T, senderID, postID string) *models.Comment {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	return &models.Comment{
		ID:        uuid.New().String(),
		Message:   "Test comment",
		SenderID:  senderID,
		PostID:    postID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
