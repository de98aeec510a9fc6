package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inkwell/internal/domain"
	"inkwell/pkg/redis"

	"go.uber.org/zap"
)

// CacheService provides cache-aside reads over the catalog. Every path
// degrades to the database; Redis being down only costs latency.
type CacheService struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewCacheService creates a new cache service
func NewCacheService(redisClient *redis.Client, logger *zap.Logger) *CacheService {
	return &CacheService{
		redis:  redisClient,
		logger: logger,
	}
}

// GetArticleWithCache retrieves an article with the cache-aside pattern
func (c *CacheService) GetArticleWithCache(ctx context.Context, articleID string, dbFallback func(ctx context.Context, id string) (*domain.Article, error)) (*domain.Article, error) {
	cacheKey := c.redis.KeyBuilder.KeyArticleByID(articleID)

	cachedData, err := c.redis.Get(ctx, cacheKey)
	if err == nil && cachedData != "" {
		var article domain.Article
		if unmarshalErr := json.Unmarshal([]byte(cachedData), &article); unmarshalErr == nil {
			c.logger.Debug("Article cache hit", zap.String("article_id", articleID))
			return &article, nil
		}
		c.logger.Warn("Article cache corrupted, falling back to database",
			zap.String("article_id", articleID))
	} else if err != nil && !redis.IsNil(err) {
		c.logger.Warn("Article cache error, falling back to database",
			zap.String("article_id", articleID),
			zap.Error(err))
	}

	article, err := dbFallback(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("database fallback failed: %w", err)
	}

	if article != nil {
		c.storeJSON(ctx, cacheKey, article, redis.TTLArticle)
	}

	return article, nil
}

// GetAuthorWithCache retrieves an author profile with the cache-aside pattern
func (c *CacheService) GetAuthorWithCache(ctx context.Context, wallet string, dbFallback func(ctx context.Context, wallet string) (*domain.AuthorProfile, error)) (*domain.AuthorProfile, error) {
	cacheKey := c.redis.KeyBuilder.KeyAuthorByWallet(wallet)

	cachedData, err := c.redis.Get(ctx, cacheKey)
	if err == nil && cachedData != "" {
		var profile domain.AuthorProfile
		if unmarshalErr := json.Unmarshal([]byte(cachedData), &profile); unmarshalErr == nil {
			c.logger.Debug("Author cache hit", zap.String("wallet", wallet))
			return &profile, nil
		}
		c.logger.Warn("Author cache corrupted, falling back to database",
			zap.String("wallet", wallet))
	} else if err != nil && !redis.IsNil(err) {
		c.logger.Warn("Author cache error, falling back to database",
			zap.String("wallet", wallet),
			zap.Error(err))
	}

	profile, err := dbFallback(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("database fallback failed: %w", err)
	}

	if profile != nil {
		c.storeJSON(ctx, cacheKey, profile, redis.TTLAuthor)
	}

	return profile, nil
}

// InvalidateArticle drops an article's cache entry after a write
func (c *CacheService) InvalidateArticle(ctx context.Context, articleID string) {
	if err := c.redis.Delete(ctx, c.redis.KeyBuilder.KeyArticleByID(articleID)); err != nil {
		c.logger.Warn("Failed to invalidate article cache",
			zap.String("article_id", articleID),
			zap.Error(err))
	}
}

// InvalidateAuthor drops an author's cache entry after a write
func (c *CacheService) InvalidateAuthor(ctx context.Context, wallet string) {
	if err := c.redis.Delete(ctx, c.redis.KeyBuilder.KeyAuthorByWallet(wallet)); err != nil {
		c.logger.Warn("Failed to invalidate author cache",
			zap.String("wallet", wallet),
			zap.Error(err))
	}
}

func (c *CacheService) storeJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := c.redis.Set(ctx, key, payload, ttl); err != nil {
		c.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}
