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

// ArticleHandler handles article catalog HTTP requests
type ArticleHandler struct {
	articleService service.ArticleService
	logger         *logger.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(articleService service.ArticleService, logger *logger.Logger) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		logger:         logger,
	}
}

// Create handles POST /api/articles
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.ArticleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	article, err := h.articleService.Create(r.Context(), &input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusCreated, article)
}

// Get handles GET /api/articles/{articleID}
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	article, err := h.articleService.Get(r.Context(), chi.URLParam(r, "articleID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, article)
}

// SetIrysPointer handles PUT /api/articles/{articleID}/irys
func (h *ArticleHandler) SetIrysPointer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IrysID  string `json:"irys_id"`
		IrysURL string `json:"irys_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	article, err := h.articleService.SetIrysPointer(r.Context(), chi.URLParam(r, "articleID"), body.IrysID, body.IrysURL)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, article)
}

// List handles GET /api/articles
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	articles, err := h.articleService.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, articles)
}

// ListByAuthor handles GET /api/articles/author/{wallet}
func (h *ArticleHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	articles, err := h.articleService.ListByAuthor(r.Context(), chi.URLParam(r, "wallet"), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, articles)
}

// Search handles POST /api/articles/search
func (h *ArticleHandler) Search(w http.ResponseWriter, r *http.Request) {
	var query domain.ArticleSearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	articles, err := h.articleService.Search(r.Context(), &query)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, articles)
}
