package service

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/repository"
	"inkwell/pkg/errors"
	"inkwell/pkg/logger"
	"inkwell/pkg/redis"

	"github.com/google/uuid"
)

// PageViewRateLimitRequests caps pageviews per redis.TTLPageviewRateLimit
// window per IP
const PageViewRateLimitRequests = 60

// analyticsService ingests page views and engagement events into the
// append-only ledger and triggers stats refreshes
type analyticsService struct {
	pageViewRepo   repository.PageViewRepository
	engagementRepo repository.EngagementRepository
	statsService   StatsService
	redisClient    *redis.Client
	logger         *logger.Logger
}

// NewAnalyticsService creates a new analytics service. redisClient may be nil,
// which disables IP rate limiting.
func NewAnalyticsService(
	pageViewRepo repository.PageViewRepository,
	engagementRepo repository.EngagementRepository,
	statsService StatsService,
	redisClient *redis.Client,
	logger *logger.Logger,
) AnalyticsService {
	return &analyticsService{
		pageViewRepo:   pageViewRepo,
		engagementRepo: engagementRepo,
		statsService:   statsService,
		redisClient:    redisClient,
		logger:         logger,
	}
}

// RecordPageView appends a page view to the ledger and refreshes the
// article's materialized stats. The append must succeed before any refresh
// is attempted; a failed refresh never fails the ingestion.
func (s *analyticsService) RecordPageView(ctx context.Context, input *domain.PageViewInput) (*domain.PageView, error) {
	if input.ArticleID == "" {
		return nil, errors.NewValidationError("article_id is required", nil)
	}

	if err := s.checkRateLimit(ctx, input.IPAddress); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	view := &domain.PageView{
		ID:          uuid.New().String(),
		ArticleID:   input.ArticleID,
		ActorWallet: input.ActorWallet,
		IPAddress:   input.IPAddress,
		UserAgent:   input.UserAgent,
		Referrer:    input.Referrer,
		SessionID:   input.SessionID,
		CreatedAt:   now,
		ViewDate:    now.Truncate(24 * time.Hour),
	}

	if err := s.pageViewRepo.Insert(ctx, view); err != nil {
		s.logger.WithError(err).WithField("article_id", input.ArticleID).Error("Failed to record page view")
		return nil, errors.NewInternalError("failed to record page view", err)
	}

	if _, err := s.statsService.RefreshArticle(ctx, view.ArticleID); err != nil {
		s.logger.WithError(err).WithField("article_id", view.ArticleID).Warn("Page view recorded but stats refresh failed")
	}

	return view, nil
}

// RecordEngagement validates the action and target enumerations, appends the
// event and refreshes the affected entity's stats. Rejected input leaves the
// ledger untouched.
func (s *analyticsService) RecordEngagement(ctx context.Context, input *domain.EngagementInput) (*domain.EngagementEvent, error) {
	if input.TargetID == "" {
		return nil, errors.NewValidationError("target_id is required", nil)
	}

	actionType, err := domain.ParseActionType(input.ActionType)
	if err != nil {
		return nil, errors.NewValidationError("invalid action_type", map[string]interface{}{
			"action_type": input.ActionType,
		})
	}

	targetType, err := domain.ParseTargetType(input.TargetType)
	if err != nil {
		return nil, errors.NewValidationError("invalid target_type", map[string]interface{}{
			"target_type": input.TargetType,
		})
	}

	now := time.Now().UTC()
	event := &domain.EngagementEvent{
		ID:             uuid.New().String(),
		ActorWallet:    input.ActorWallet,
		ActionType:     actionType,
		TargetID:       input.TargetID,
		TargetType:     targetType,
		Metadata:       input.Metadata,
		CreatedAt:      now,
		EngagementDate: now.Truncate(24 * time.Hour),
	}

	if err := s.engagementRepo.Insert(ctx, event); err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"action_type": input.ActionType,
			"target_id":   input.TargetID,
		}).Error("Failed to record engagement event")
		return nil, errors.NewInternalError("failed to record engagement event", err)
	}

	// Refresh the materialized stats of whatever the event points at
	switch targetType {
	case domain.TargetArticle:
		if _, err := s.statsService.RefreshArticle(ctx, event.TargetID); err != nil {
			s.logger.WithError(err).WithField("article_id", event.TargetID).Warn("Engagement recorded but article stats refresh failed")
		}
	case domain.TargetAuthor:
		if _, err := s.statsService.RefreshAuthor(ctx, event.TargetID); err != nil {
			s.logger.WithError(err).WithField("author_wallet", event.TargetID).Warn("Engagement recorded but author stats refresh failed")
		}
	}

	return event, nil
}

// GetArticlePageViews lists an article's page views, newest first
func (s *analyticsService) GetArticlePageViews(ctx context.Context, articleID string, limit, offset int) ([]*domain.PageView, error) {
	if articleID == "" {
		return nil, errors.NewValidationError("article_id is required", nil)
	}

	views, err := s.pageViewRepo.ListByArticle(ctx, articleID, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewInternalError("failed to list page views", err)
	}

	return views, nil
}

// GetUserEngagement lists a wallet's engagement history, newest first
func (s *analyticsService) GetUserEngagement(ctx context.Context, wallet string, limit, offset int) ([]*domain.EngagementEvent, error) {
	if wallet == "" {
		return nil, errors.NewValidationError("wallet is required", nil)
	}

	events, err := s.engagementRepo.ListByActor(ctx, wallet, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewInternalError("failed to list engagement events", err)
	}

	return events, nil
}

// checkRateLimit enforces the per-IP pageview budget. Redis being down never
// blocks ingestion; the limiter degrades open.
func (s *analyticsService) checkRateLimit(ctx context.Context, ip string) error {
	if s.redisClient == nil || ip == "" {
		return nil
	}

	ipHash := fmt.Sprintf("%x", sha256.Sum256([]byte(ip)))[:16]
	key := s.redisClient.KeyBuilder.KeyPageviewRateLimit(ipHash)

	count, err := s.redisClient.Incr(ctx, key)
	if err != nil {
		s.logger.WithError(err).Warn("Rate limit check failed, allowing request")
		return nil
	}

	if count == 1 {
		if err := s.redisClient.Expire(ctx, key, redis.TTLPageviewRateLimit); err != nil {
			s.logger.WithError(err).Warn("Failed to set rate limit expiry")
		}
	}

	if count > PageViewRateLimitRequests {
		return errors.NewRateLimitError("too many page views from this address")
	}

	return nil
}

// normalizeLimit clamps caller-supplied page sizes to a sane range
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
