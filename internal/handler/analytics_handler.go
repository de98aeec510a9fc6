package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"inkwell/internal/domain"
	"inkwell/internal/service"
	"inkwell/pkg/errors"
	"inkwell/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// AnalyticsHandler handles event ingestion and derived statistics requests
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	statsService     service.StatsService
	logger           *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService service.AnalyticsService, statsService service.StatsService, logger *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		statsService:     statsService,
		logger:           logger,
	}
}

// RecordPageView handles POST /api/analytics/pageviews
func (h *AnalyticsHandler) RecordPageView(w http.ResponseWriter, r *http.Request) {
	var input domain.PageViewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	// Capture request context the client didn't supply
	if input.IPAddress == "" {
		input.IPAddress = realIP(r)
	}
	if input.UserAgent == "" {
		input.UserAgent = r.UserAgent()
	}
	if input.Referrer == "" {
		input.Referrer = r.Referer()
	}

	view, err := h.analyticsService.RecordPageView(r.Context(), &input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusCreated, view)
}

// RecordEngagement handles POST /api/analytics/engagement
func (h *AnalyticsHandler) RecordEngagement(w http.ResponseWriter, r *http.Request) {
	var input domain.EngagementInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	event, err := h.analyticsService.RecordEngagement(r.Context(), &input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusCreated, event)
}

// GetArticlePageViews handles GET /api/analytics/pageviews/article/{articleID}
func (h *AnalyticsHandler) GetArticlePageViews(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	views, err := h.analyticsService.GetArticlePageViews(r.Context(), chi.URLParam(r, "articleID"), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if views == nil {
		views = []*domain.PageView{}
	}

	writeData(w, h.logger, http.StatusOK, views)
}

// GetUserEngagement handles GET /api/analytics/engagement/user/{wallet}
func (h *AnalyticsHandler) GetUserEngagement(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	events, err := h.analyticsService.GetUserEngagement(r.Context(), chi.URLParam(r, "wallet"), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if events == nil {
		events = []*domain.EngagementEvent{}
	}

	writeData(w, h.logger, http.StatusOK, events)
}

// GetArticleStats handles GET /api/analytics/stats/article/{articleID}
func (h *AnalyticsHandler) GetArticleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GetArticleStats(r.Context(), chi.URLParam(r, "articleID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, stats)
}

// GetTrending handles GET /api/analytics/stats/articles/trending
func (h *AnalyticsHandler) GetTrending(w http.ResponseWriter, r *http.Request) {
	trending, err := h.statsService.GetTrending(r.Context(), queryInt(r, "limit", 10))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, trending)
}

// GetAuthorStats handles GET /api/analytics/stats/author/{wallet}
func (h *AnalyticsHandler) GetAuthorStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GetAuthorStats(r.Context(), chi.URLParam(r, "wallet"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, stats)
}

// GetTopAuthors handles GET /api/analytics/stats/authors/top
func (h *AnalyticsHandler) GetTopAuthors(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	authors, err := h.statsService.GetTopAuthors(r.Context(), metric, queryInt(r, "limit", 10))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if authors == nil {
		authors = []*domain.AuthorStats{}
	}

	writeData(w, h.logger, http.StatusOK, authors)
}

// GetPlatformStats handles GET /api/analytics/stats/platform
func (h *AnalyticsHandler) GetPlatformStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GetPlatformStats(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, stats)
}

// GetPlatformHistory handles GET /api/analytics/stats/platform/history
func (h *AnalyticsHandler) GetPlatformHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.statsService.GetPlatformHistory(r.Context(), queryInt(r, "days", 7))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if history == nil {
		history = []*domain.PlatformStats{}
	}

	writeData(w, h.logger, http.StatusOK, history)
}

// realIP extracts the client address, preferring proxy headers
func realIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
