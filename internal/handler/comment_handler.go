package handler

import (
	"encoding/json"
	"net/http"

	"inkwell/internal/domain"
	"inkwell/internal/service"
	"inkwell/pkg/errors"
	"inkwell/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// CommentHandler handles comment and reaction HTTP requests
type CommentHandler struct {
	commentService service.CommentService
	logger         *logger.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService service.CommentService, logger *logger.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		logger:         logger,
	}
}

// Create handles POST /api/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.CommentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	comment, err := h.commentService.Create(r.Context(), &input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusCreated, comment)
}

// ListByArticle handles GET /api/comments/article/{articleID}
func (h *CommentHandler) ListByArticle(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	threads, err := h.commentService.ListByArticle(r.Context(), chi.URLParam(r, "articleID"), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, threads)
}

// Update handles PUT /api/comments/{commentID}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	comment, err := h.commentService.Update(r.Context(), chi.URLParam(r, "commentID"), body.Content)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, comment)
}

// Delete handles DELETE /api/comments/{commentID}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	commentID := chi.URLParam(r, "commentID")
	if err := h.commentService.Delete(r.Context(), commentID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, map[string]string{"id": commentID})
}

// React handles POST /api/comments/{commentID}/reactions
func (h *CommentHandler) React(w http.ResponseWriter, r *http.Request) {
	var input domain.ReactionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	commentID := chi.URLParam(r, "commentID")
	if err := h.commentService.React(r.Context(), commentID, &input); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, map[string]string{"comment_id": commentID})
}

// Unreact handles DELETE /api/comments/{commentID}/reactions/{wallet}
func (h *CommentHandler) Unreact(w http.ResponseWriter, r *http.Request) {
	commentID := chi.URLParam(r, "commentID")
	if err := h.commentService.Unreact(r.Context(), commentID, chi.URLParam(r, "wallet")); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, map[string]string{"comment_id": commentID})
}
