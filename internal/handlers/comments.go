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

// CommentsHandler обрабатывает CRUD запросы для комментариев
type CommentsHandler struct {
	logger   *slog.Logger
	comments storage.CommentStorage
	posts    storage.PostStorage
}

// NewCommentsHandler создает новый handler для комментариев
func NewCommentsHandler(logger *slog.Logger, comments storage.CommentStorage, posts storage.PostStorage) *CommentsHandler {
	return &CommentsHandler{
		logger:   logger,
		comments: comments,
		posts:    posts,
	}
}

// Create обрабатывает POST /api/v1/comments
// Комментарий привязывается к существующему посту
func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.Error("User ID not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Message == "" || req.PostID == "" {
		sendError(h.logger, w, "message and post_id are required", http.StatusBadRequest)
		return
	}

	// Проверяем что пост существует
	if _, err := h.posts.GetPostByID(ctx, req.PostID); err != nil {
		if errors.Is(err, storage.ErrPostNotFound) {
			sendError(h.logger, w, "post not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get post", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	comment := &models.Comment{
		ID:        uuid.New().String(),
		Message:   req.Message,
		SenderID:  userID,
		PostID:    req.PostID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.comments.CreateComment(ctx, comment); err != nil {
		h.logger.ErrorContext(ctx, "failed to create comment", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "comment created",
		slog.String("comment_id", comment.ID),
		slog.String("post_id", comment.PostID))

	sendJSON(h.logger, w, comment, http.StatusCreated)
}

// List обрабатывает GET /api/v1/comments
// Query параметр post_id фильтрует по посту
func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comments, err := h.comments.ListComments(ctx, r.URL.Query().Get("post_id"))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list comments", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if comments == nil {
		comments = []*models.Comment{}
	}

	sendJSON(h.logger, w, comments, http.StatusOK)
}

// Get обрабатывает GET /api/v1/comments/{comment_id}
func (h *CommentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	comment, err := h.comments.GetCommentByID(ctx, r.PathValue("comment_id"))
	if err != nil {
		if errors.Is(err, storage.ErrCommentNotFound) {
			sendError(h.logger, w, "comment not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get comment", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, comment, http.StatusOK)
}

// Update обрабатывает PUT /api/v1/comments/{comment_id}
// Меняется только текст комментария
func (h *CommentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	commentID := r.PathValue("comment_id")

	var req api.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Message == "" {
		sendError(h.logger, w, "message is required", http.StatusBadRequest)
		return
	}

	comment, err := h.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, storage.ErrCommentNotFound) {
			sendError(h.logger, w, "comment not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get comment", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	comment.Message = req.Message
	comment.UpdatedAt = time.Now()

	if err := h.comments.UpdateComment(ctx, comment); err != nil {
		if errors.Is(err, storage.ErrCommentNotFound) {
			sendError(h.logger, w, "comment not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update comment", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, comment, http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/comments/{comment_id}
func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.comments.DeleteComment(ctx, r.PathValue("comment_id")); err != nil {
		if errors.Is(err, storage.ErrCommentNotFound) {
			sendError(h.logger, w, "comment not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete comment", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
