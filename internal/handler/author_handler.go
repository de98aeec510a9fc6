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

// AuthorHandler handles author profile HTTP requests
type AuthorHandler struct {
	authorService service.AuthorService
	logger        *logger.Logger
}

// NewAuthorHandler creates a new author handler
func NewAuthorHandler(authorService service.AuthorService, logger *logger.Logger) *AuthorHandler {
	return &AuthorHandler{
		authorService: authorService,
		logger:        logger,
	}
}

// Create handles POST /api/authors
func (h *AuthorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.AuthorProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	profile, err := h.authorService.Create(r.Context(), &input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusCreated, profile)
}

// Get handles GET /api/authors/{wallet}
func (h *AuthorHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.authorService.Get(r.Context(), chi.URLParam(r, "wallet"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, profile)
}

// Update handles PUT /api/authors/{wallet}
func (h *AuthorHandler) Update(w http.ResponseWriter, r *http.Request) {
	var upd domain.AuthorProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	profile, err := h.authorService.Update(r.Context(), chi.URLParam(r, "wallet"), &upd)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, profile)
}

// List handles GET /api/authors
func (h *AuthorHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	profiles, err := h.authorService.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if profiles == nil {
		profiles = []*domain.AuthorProfile{}
	}

	writeData(w, h.logger, http.StatusOK, profiles)
}

// RecordNewArticle handles POST /api/authors/{wallet}/stats/article
func (h *AuthorHandler) RecordNewArticle(w http.ResponseWriter, r *http.Request) {
	wallet := chi.URLParam(r, "wallet")
	if err := h.authorService.RecordNewArticle(r.Context(), wallet); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, map[string]string{"wallet": wallet})
}

// RecordViews handles POST /api/authors/{wallet}/stats/views
func (h *AuthorHandler) RecordViews(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Views int64 `json:"views"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	wallet := chi.URLParam(r, "wallet")
	if err := h.authorService.RecordViews(r.Context(), wallet, body.Views); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, map[string]string{"wallet": wallet})
}
