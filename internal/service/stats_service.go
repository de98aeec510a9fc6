package service

import (
	"context"
	"encoding/json"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/repository"
	"inkwell/pkg/errors"
	"inkwell/pkg/logger"
	"inkwell/pkg/redis"
)

// AuthorArticleCap bounds the per-author article enumeration during a stats
// refresh. Authors beyond the cap are silently under-counted.
const AuthorArticleCap = 1000

// TrendingWindow is the trailing window for the trending ranking
const TrendingWindow = 24 * time.Hour

// Trending score weights. The displayed score is the weighted sum, while the
// ranking order stays raw views; both behaviors are load-bearing for clients.
const (
	trendingWeightViews    = 0.3
	trendingWeightLikes    = 0.3
	trendingWeightComments = 0.2
	trendingWeightShares   = 0.2
)

// statsService materializes derived statistics from the event ledger.
// Every refresh is a full recompute followed by an idempotent upsert;
// concurrent refreshes converge on last-writer-wins.
type statsService struct {
	pageViewRepo     repository.PageViewRepository
	engagementRepo   repository.EngagementRepository
	statsRepo        repository.StatsRepository
	articleRepo      repository.ArticleRepository
	authorRepo       repository.AuthorRepository
	monetizationRepo repository.MonetizationRepository
	redisClient      *redis.Client
	logger           *logger.Logger
}

// NewStatsService creates a new stats service. redisClient may be nil, which
// disables the trending burst cache.
func NewStatsService(
	pageViewRepo repository.PageViewRepository,
	engagementRepo repository.EngagementRepository,
	statsRepo repository.StatsRepository,
	articleRepo repository.ArticleRepository,
	authorRepo repository.AuthorRepository,
	monetizationRepo repository.MonetizationRepository,
	redisClient *redis.Client,
	logger *logger.Logger,
) StatsService {
	return &statsService{
		pageViewRepo:     pageViewRepo,
		engagementRepo:   engagementRepo,
		statsRepo:        statsRepo,
		articleRepo:      articleRepo,
		authorRepo:       authorRepo,
		monetizationRepo: monetizationRepo,
		redisClient:      redisClient,
		logger:           logger,
	}
}

// GetArticleStats returns materialized stats, computing them on first read
func (s *statsService) GetArticleStats(ctx context.Context, articleID string) (*domain.ArticleStats, error) {
	if articleID == "" {
		return nil, errors.NewValidationError("article_id is required", nil)
	}

	stats, err := s.statsRepo.GetArticleStats(ctx, articleID)
	if err != nil {
		return nil, errors.NewInternalError("failed to read article stats", err)
	}
	if stats != nil {
		return stats, nil
	}

	return s.RefreshArticle(ctx, articleID)
}

// RefreshArticle fully recomputes one article's stats from the ledger and
// upserts the result. A failed recompute leaves any prior record intact.
func (s *statsService) RefreshArticle(ctx context.Context, articleID string) (*domain.ArticleStats, error) {
	if articleID == "" {
		return nil, errors.NewValidationError("article_id is required", nil)
	}

	totalViews, err := s.pageViewRepo.CountByArticle(ctx, articleID)
	if err != nil {
		return nil, errors.NewInternalError("failed to count article views", err)
	}

	uniqueViews, err := s.pageViewRepo.CountDistinctIPsByArticle(ctx, articleID)
	if err != nil {
		return nil, errors.NewInternalError("failed to count unique viewers", err)
	}

	likes, err := s.engagementRepo.CountByTarget(ctx, articleID, domain.TargetArticle, domain.ActionLike)
	if err != nil {
		return nil, errors.NewInternalError("failed to count likes", err)
	}

	comments, err := s.engagementRepo.CountByTarget(ctx, articleID, domain.TargetArticle, domain.ActionComment)
	if err != nil {
		return nil, errors.NewInternalError("failed to count comments", err)
	}

	shares, err := s.engagementRepo.CountByTarget(ctx, articleID, domain.TargetArticle, domain.ActionShare)
	if err != nil {
		return nil, errors.NewInternalError("failed to count shares", err)
	}

	tipCount, tipAmount, err := s.monetizationRepo.TipTotalsByArticle(ctx, articleID)
	if err != nil {
		return nil, errors.NewInternalError("failed to total tips", err)
	}

	stats := &domain.ArticleStats{
		ArticleID:      articleID,
		TotalViews:     totalViews,
		UniqueViews:    uniqueViews,
		TotalLikes:     likes,
		TotalComments:  comments,
		TotalShares:    shares,
		TotalTips:      tipCount,
		TotalTipAmount: tipAmount,
		EngagementRate: engagementRate(likes+comments+shares, totalViews),
		UpdatedAt:      time.Now().UTC(),
	}

	if err := s.statsRepo.UpsertArticleStats(ctx, stats); err != nil {
		return nil, errors.NewInternalError("failed to store article stats", err)
	}

	return stats, nil
}

// GetAuthorStats returns materialized stats, computing them on first read
func (s *statsService) GetAuthorStats(ctx context.Context, wallet string) (*domain.AuthorStats, error) {
	if wallet == "" {
		return nil, errors.NewValidationError("wallet is required", nil)
	}

	stats, err := s.statsRepo.GetAuthorStats(ctx, wallet)
	if err != nil {
		return nil, errors.NewInternalError("failed to read author stats", err)
	}
	if stats != nil {
		return stats, nil
	}

	return s.RefreshAuthor(ctx, wallet)
}

// RefreshAuthor recomputes an author's stats by refreshing every article they
// own (bounded by AuthorArticleCap) and summing the results. The author rate
// deliberately omits shares; the per-article rate includes them.
func (s *statsService) RefreshAuthor(ctx context.Context, wallet string) (*domain.AuthorStats, error) {
	if wallet == "" {
		return nil, errors.NewValidationError("wallet is required", nil)
	}

	articleIDs, err := s.articleRepo.EnumerateByAuthor(ctx, wallet, AuthorArticleCap)
	if err != nil {
		return nil, errors.NewInternalError("failed to enumerate author articles", err)
	}

	var totalViews, totalLikes, totalComments int64
	for _, articleID := range articleIDs {
		articleStats, err := s.RefreshArticle(ctx, articleID)
		if err != nil {
			return nil, err
		}
		totalViews += articleStats.TotalViews
		totalLikes += articleStats.TotalLikes
		totalComments += articleStats.TotalComments
	}

	totalArticles := int64(len(articleIDs))
	denominator := totalArticles
	if denominator < 1 {
		denominator = 1
	}
	avgViews := float64(totalViews) / float64(denominator)

	stats := &domain.AuthorStats{
		AuthorWallet:    wallet,
		TotalArticles:   totalArticles,
		TotalViews:      totalViews,
		TotalLikes:      totalLikes,
		TotalComments:   totalComments,
		AvgArticleViews: avgViews,
		EngagementRate:  engagementRate(totalLikes+totalComments, totalViews),
		UpdatedAt:       time.Now().UTC(),
	}

	if err := s.statsRepo.UpsertAuthorStats(ctx, stats); err != nil {
		return nil, errors.NewInternalError("failed to store author stats", err)
	}

	return stats, nil
}

// GetPlatformStats recomputes and returns today's platform record. Past
// dates are never recomputed; only today's record is live. A short Redis
// cache shields the recompute from read bursts.
func (s *statsService) GetPlatformStats(ctx context.Context) (*domain.PlatformStats, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	tomorrow := today.Add(24 * time.Hour)

	if cached := s.platformFromCache(ctx, today); cached != nil {
		return cached, nil
	}

	totalUsers, err := s.authorRepo.CountDistinctWallets(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to count users", err)
	}

	totalArticles, err := s.articleRepo.CountAll(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to count articles", err)
	}

	totalViews, err := s.pageViewRepo.CountAll(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to count views", err)
	}

	totalLikes, err := s.engagementRepo.CountByAction(ctx, domain.ActionLike)
	if err != nil {
		return nil, errors.NewInternalError("failed to count likes", err)
	}

	totalComments, err := s.engagementRepo.CountByAction(ctx, domain.ActionComment)
	if err != nil {
		return nil, errors.NewInternalError("failed to count comments", err)
	}

	activeUsers, err := s.engagementRepo.CountDistinctActors(ctx, today, tomorrow)
	if err != nil {
		return nil, errors.NewInternalError("failed to count active users", err)
	}

	newUsers, err := s.authorRepo.CountCreatedBetween(ctx, today, tomorrow)
	if err != nil {
		return nil, errors.NewInternalError("failed to count new users", err)
	}

	newArticles, err := s.articleRepo.CountCreatedBetween(ctx, today, tomorrow)
	if err != nil {
		return nil, errors.NewInternalError("failed to count new articles", err)
	}

	stats := &domain.PlatformStats{
		StatsDate:     today,
		TotalUsers:    totalUsers,
		TotalArticles: totalArticles,
		TotalViews:    totalViews,
		TotalLikes:    totalLikes,
		TotalComments: totalComments,
		ActiveUsers:   activeUsers,
		NewUsers:      newUsers,
		NewArticles:   newArticles,
	}

	if err := s.statsRepo.UpsertPlatformStats(ctx, stats); err != nil {
		return nil, errors.NewInternalError("failed to store platform stats", err)
	}

	s.platformToCache(ctx, today, stats)

	return stats, nil
}

// GetPlatformHistory returns the last N daily records, newest first. Days
// without a stored record are simply missing; nothing is backfilled and no
// record is ever future-dated.
func (s *statsService) GetPlatformHistory(ctx context.Context, days int) ([]*domain.PlatformStats, error) {
	if days <= 0 {
		days = 7
	}
	if days > 90 {
		days = 90
	}

	// Keep today's record fresh before reading the range
	if _, err := s.GetPlatformStats(ctx); err != nil {
		s.logger.WithError(err).Warn("Failed to refresh today's platform stats for history read")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))

	history, err := s.statsRepo.ListPlatformStats(ctx, since, days)
	if err != nil {
		return nil, errors.NewInternalError("failed to read platform history", err)
	}

	return history, nil
}

// GetTrending ranks articles by engagement over the trailing 24 hours. The
// ranking is never persisted; a short Redis cache only shields bursts.
func (s *statsService) GetTrending(ctx context.Context, limit int) ([]*domain.TrendingArticle, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	if cached := s.trendingFromCache(ctx, limit); cached != nil {
		return cached, nil
	}

	since := time.Now().UTC().Add(-TrendingWindow)
	windows, err := s.engagementRepo.GroupByArticle(ctx, since, limit)
	if err != nil {
		return nil, errors.NewInternalError("failed to compute trending window", err)
	}

	trending := make([]*domain.TrendingArticle, 0, len(windows))
	for _, window := range windows {
		article, err := s.articleRepo.GetByID(ctx, window.TargetID)
		if err != nil {
			return nil, errors.NewInternalError("failed to load trending article", err)
		}
		if article == nil {
			// Groups whose article vanished from the catalog are dropped
			continue
		}

		trending = append(trending, &domain.TrendingArticle{
			ArticleID:    window.TargetID,
			Title:        article.Title,
			AuthorWallet: article.AuthorWallet,
			AuthorName:   article.AuthorName,
			Views24h:     window.Views,
			Likes24h:     window.Likes,
			Comments24h:  window.Comments,
			Shares24h:    window.Shares,
			EngagementScore: trendingWeightViews*float64(window.Views) +
				trendingWeightLikes*float64(window.Likes) +
				trendingWeightComments*float64(window.Comments) +
				trendingWeightShares*float64(window.Shares),
		})
	}

	s.trendingToCache(ctx, limit, trending)

	return trending, nil
}

// GetTopAuthors returns authors sorted by a whitelisted metric. An
// unrecognized metric is rejected rather than silently remapped.
func (s *statsService) GetTopAuthors(ctx context.Context, metric string, limit int) ([]*domain.AuthorStats, error) {
	if metric == "" {
		metric = repository.TopAuthorsMetricViews
	}
	switch metric {
	case repository.TopAuthorsMetricViews, repository.TopAuthorsMetricLikes,
		repository.TopAuthorsMetricArticles, repository.TopAuthorsMetricEngagement:
	default:
		return nil, errors.NewValidationError("invalid metric", map[string]interface{}{
			"metric": metric,
		})
	}

	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	authors, err := s.statsRepo.TopAuthors(ctx, metric, limit)
	if err != nil {
		return nil, errors.NewInternalError("failed to read top authors", err)
	}

	return authors, nil
}

func (s *statsService) trendingFromCache(ctx context.Context, limit int) []*domain.TrendingArticle {
	if s.redisClient == nil {
		return nil
	}

	raw, err := s.redisClient.Get(ctx, s.redisClient.KeyBuilder.KeyTrending(limit))
	if err != nil {
		if !redis.IsNil(err) {
			s.logger.WithError(err).Warn("Trending cache read failed")
		}
		return nil
	}

	var trending []*domain.TrendingArticle
	if err := json.Unmarshal([]byte(raw), &trending); err != nil {
		s.logger.WithError(err).Warn("Trending cache entry unreadable")
		return nil
	}

	return trending
}

func (s *statsService) trendingToCache(ctx context.Context, limit int, trending []*domain.TrendingArticle) {
	if s.redisClient == nil {
		return
	}

	payload, err := json.Marshal(trending)
	if err != nil {
		return
	}

	if err := s.redisClient.Set(ctx, s.redisClient.KeyBuilder.KeyTrending(limit), payload, redis.TTLTrending); err != nil {
		s.logger.WithError(err).Warn("Trending cache write failed")
	}
}

func (s *statsService) platformFromCache(ctx context.Context, day time.Time) *domain.PlatformStats {
	if s.redisClient == nil {
		return nil
	}

	key := s.redisClient.KeyBuilder.KeyPlatformToday(day.Format("2006-01-02"))
	raw, err := s.redisClient.Get(ctx, key)
	if err != nil {
		if !redis.IsNil(err) {
			s.logger.WithError(err).Warn("Platform stats cache read failed")
		}
		return nil
	}

	var stats domain.PlatformStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		s.logger.WithError(err).Warn("Platform stats cache entry unreadable")
		return nil
	}

	return &stats
}

func (s *statsService) platformToCache(ctx context.Context, day time.Time, stats *domain.PlatformStats) {
	if s.redisClient == nil {
		return
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}

	key := s.redisClient.KeyBuilder.KeyPlatformToday(day.Format("2006-01-02"))
	if err := s.redisClient.Set(ctx, key, payload, redis.TTLPlatformToday); err != nil {
		s.logger.WithError(err).Warn("Platform stats cache write failed")
	}
}

// engagementRate computes actions per view as a percentage. The max(views,1)
// floor keeps zero-view entities at a finite rate.
func engagementRate(actions, views int64) float64 {
	denominator := views
	if denominator < 1 {
		denominator = 1
	}
	return float64(actions) / float64(denominator) * 100
}
