package handlers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/dkurilov/postboard/internal/auth"
	"github.com/dkurilov/postboard/internal/models"
	"github.com/dkurilov/postboard/internal/storage"
	"github.com/dkurilov/postboard/internal/token"
)

// mockUserStorage is a mock implementation of storage.UserStorage
type mockUserStorage struct {
	users       map[string]*models.User // id -> User
	createError error
	getError    error
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	if m.createError != nil {
		return m.createError
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return storage.ErrEmailTaken
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	u, ok := m.users[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserStorage) ListUsers(ctx context.Context) ([]*models.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	var users []*models.User
	for _, u := range m.users {
		cp := *u
		users = append(users, &cp)
	}
	return users, nil
}

func (m *mockUserStorage) UpdateUser(ctx context.Context, user *models.User) error {
	existing, ok := m.users[user.ID]
	if !ok {
		return storage.ErrUserNotFound
	}
	for _, u := range m.users {
		if u.ID != user.ID && u.Email == user.Email {
			return storage.ErrEmailTaken
		}
	}
	*existing = *user
	return nil
}

func (m *mockUserStorage) DeleteUser(ctx context.Context, userID string) error {
	if _, ok := m.users[userID]; !ok {
		return storage.ErrUserNotFound
	}
	delete(m.users, userID)
	return nil
}

func (m *mockUserStorage) UpdateRefreshToken(ctx context.Context, userID string, tok *string) error {
	u, ok := m.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}
	if tok == nil {
		u.RefreshToken = nil
	} else {
		value := *tok
		u.RefreshToken = &value
	}
	return nil
}

// mockPostStorage is a mock implementation of storage.PostStorage
type mockPostStorage struct {
	posts       map[string]*models.Post // id -> Post
	createError error
	getError    error
}

func newMockPostStorage() *mockPostStorage {
	return &mockPostStorage{posts: make(map[string]*models.Post)}
}

func (m *mockPostStorage) CreatePost(ctx context.Context, post *models.Post) error {
	if m.createError != nil {
		return m.createError
	}
	cp := *post
	m.posts[post.ID] = &cp
	return nil
}

func (m *mockPostStorage) GetPostByID(ctx context.Context, postID string) (*models.Post, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	p, ok := m.posts[postID]
	if !ok {
		return nil, storage.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPostStorage) ListPosts(ctx context.Context, senderID string) ([]*models.Post, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	var posts []*models.Post
	for _, p := range m.posts {
		if senderID != "" && p.SenderID != senderID {
			continue
		}
		cp := *p
		posts = append(posts, &cp)
	}
	return posts, nil
}

func (m *mockPostStorage) UpdatePost(ctx context.Context, post *models.Post) error {
	existing, ok := m.posts[post.ID]
	if !ok {
		return storage.ErrPostNotFound
	}
	*existing = *post
	return nil
}

func (m *mockPostStorage) DeletePost(ctx context.Context, postID string) error {
	if _, ok := m.posts[postID]; !ok {
		return storage.ErrPostNotFound
	}
	delete(m.posts, postID)
	return nil
}

// mockCommentStorage is a mock implementation of storage.CommentStorage
type mockCommentStorage struct {
	comments    map[string]*models.Comment // id -> Comment
	createError error
	getError    error
}

func newMockCommentStorage() *mockCommentStorage {
	return &mockCommentStorage{comments: make(map[string]*models.Comment)}
}

func (m *mockCommentStorage) CreateComment(ctx context.Context, comment *models.Comment) error {
	if m.createError != nil {
		return m.createError
	}
	cp := *comment
	m.comments[comment.ID] = &cp
	return nil
}

func (m *mockCommentStorage) GetCommentByID(ctx context.Context, commentID string) (*models.Comment, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	c, ok := m.comments[commentID]
	if !ok {
		return nil, storage.ErrCommentNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockCommentStorage) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	var comments []*models.Comment
	for _, c := range m.comments {
		if postID != "" && c.PostID != postID {
			continue
		}
		cp := *c
		comments = append(comments, &cp)
	}
	return comments, nil
}

func (m *mockCommentStorage) UpdateComment(ctx context.Context, comment *models.Comment) error {
	existing, ok := m.comments[comment.ID]
	if !ok {
		return storage.ErrCommentNotFound
	}
	*existing = *comment
	return nil
}

func (m *mockCommentStorage) DeleteComment(ctx context.Context, commentID string) error {
	if _, ok := m.comments[commentID]; !ok {
		return storage.ErrCommentNotFound
	}
	delete(m.comments, commentID)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testCodec() *token.Codec {
	return token.NewCodec(token.Config{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
}

func testAuthService(users storage.UserStorage) *auth.Service {
	return auth.NewService(testLogger(), users, testCodec())
}
