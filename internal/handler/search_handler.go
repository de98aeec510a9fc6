package handler

import (
	"net/http"
	"strings"

	"inkwell/internal/repository"
	"inkwell/pkg/logger"
)

// Static discovery lists. These seed the search UI until organic usage data
// replaces them.
var (
	commonQueries = []string{
		"web3", "blockchain", "ethereum", "defi", "nft",
		"smart contracts", "decentralization", "dao", "crypto wallets",
		"zero knowledge", "layer 2", "tokenomics",
	}

	popularTags = []string{
		"blockchain", "web3", "tutorial", "defi", "nft",
		"ethereum", "solidity", "security", "governance", "opinion",
	}

	categories = []string{
		"technology", "finance", "tutorial", "opinion",
		"news", "research", "art", "gaming",
	}
)

// SearchHandler handles discovery endpoints for the search UI
type SearchHandler struct {
	articleRepo repository.ArticleRepository
	authorRepo  repository.AuthorRepository
	logger      *logger.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(articleRepo repository.ArticleRepository, authorRepo repository.AuthorRepository, logger *logger.Logger) *SearchHandler {
	return &SearchHandler{
		articleRepo: articleRepo,
		authorRepo:  authorRepo,
		logger:      logger,
	}
}

// GetSuggestions handles GET /api/search/suggestions
func (h *SearchHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	prefix := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	suggestions := make([]string, 0, len(commonQueries))
	for _, query := range commonQueries {
		if prefix == "" || strings.HasPrefix(query, prefix) || strings.Contains(query, prefix) {
			suggestions = append(suggestions, query)
		}
	}

	writeData(w, h.logger, http.StatusOK, suggestions)
}

// GetTags handles GET /api/search/tags
func (h *SearchHandler) GetTags(w http.ResponseWriter, r *http.Request) {
	writeData(w, h.logger, http.StatusOK, popularTags)
}

// GetCategories handles GET /api/search/categories
func (h *SearchHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	writeData(w, h.logger, http.StatusOK, categories)
}

// GetStats handles GET /api/search/stats
func (h *SearchHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalArticles, err := h.articleRepo.CountAll(ctx)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	totalAuthors, err := h.authorRepo.CountDistinctWallets(ctx)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, map[string]interface{}{
		"total_articles":   totalArticles,
		"total_authors":    totalAuthors,
		"total_tags":       len(popularTags),
		"total_categories": len(categories),
	})
}
