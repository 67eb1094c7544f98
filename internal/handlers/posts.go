package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dkurilov/postboard/internal/models"
	"github.com/dkurilov/postboard/internal/storage"
	"github.com/dkurilov/postboard/pkg/api"
)

// PostsHandler обрабатывает CRUD запросы для постов
type PostsHandler struct {
	logger *slog.Logger
	posts  storage.PostStorage
}

// NewPostsHandler создает новый handler для постов
func NewPostsHandler(logger *slog.Logger, posts storage.PostStorage) *PostsHandler {
	return &PostsHandler{
		logger: logger,
		posts:  posts,
	}
}

// Create обрабатывает POST /api/v1/posts
// Автором становится аутентифицированный пользователь
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.Error("User ID not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title == "" || req.Content == "" {
		sendError(h.logger, w, "title and content are required", http.StatusBadRequest)
		return
	}

	now := time.Now()
	post := &models.Post{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Content:   req.Content,
		SenderID:  userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.posts.CreatePost(ctx, post); err != nil {
		h.logger.ErrorContext(ctx, "failed to create post", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "post created",
		slog.String("post_id", post.ID),
		slog.String("sender_id", userID))

	sendJSON(h.logger, w, post, http.StatusCreated)
}

// List обрабатывает GET /api/v1/posts
// Query параметр sender фильтрует по автору
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posts, err := h.posts.ListPosts(ctx, r.URL.Query().Get("sender"))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list posts", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if posts == nil {
		posts = []*models.Post{}
	}

	sendJSON(h.logger, w, posts, http.StatusOK)
}

// Get обрабатывает GET /api/v1/posts/{post_id}
func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	post, err := h.posts.GetPostByID(ctx, r.PathValue("post_id"))
	if err != nil {
		if errors.Is(err, storage.ErrPostNotFound) {
			sendError(h.logger, w, "post not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get post", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, post, http.StatusOK)
}

// Update обрабатывает PUT /api/v1/posts/{post_id}
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postID := r.PathValue("post_id")

	var req api.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title == "" || req.Content == "" {
		sendError(h.logger, w, "title and content are required", http.StatusBadRequest)
		return
	}

	post, err := h.posts.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, storage.ErrPostNotFound) {
			sendError(h.logger, w, "post not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get post", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	post.Title = req.Title
	post.Content = req.Content
	post.UpdatedAt = time.Now()

	if err := h.posts.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, storage.ErrPostNotFound) {
			sendError(h.logger, w, "post not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update post", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, post, http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/posts/{post_id}
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.posts.DeletePost(ctx, r.PathValue("post_id")); err != nil {
		if errors.Is(err, storage.ErrPostNotFound) {
			sendError(h.logger, w, "post not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete post", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
