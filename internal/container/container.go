package container

import (
	"context"
	"fmt"

	"inkwell/internal/config"
	"inkwell/internal/handler"
	"inkwell/internal/repository"
	"inkwell/internal/service"
	"inkwell/pkg/database"
	"inkwell/pkg/logger"
	"inkwell/pkg/redis"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	Health       *handler.HealthHandler
	Analytics    *handler.AnalyticsHandler
	Article      *handler.ArticleHandler
	Author       *handler.AuthorHandler
	Comment      *handler.CommentHandler
	Monetization *handler.MonetizationHandler
	NFT          *handler.NFTHandler
	Search       *handler.SearchHandler
}

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *database.PostgresDB
	RedisClient *redis.Client
	Repos       *repository.Repositories
	Handlers    *Handlers
}

// New creates a new dependency injection container. Redis is optional;
// without it the app runs uncached and without IP rate limiting.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, cfg.DatabaseReadURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	repos := &repository.Repositories{
		PageView:     repository.NewPageViewRepository(db),
		Engagement:   repository.NewEngagementRepository(db),
		Stats:        repository.NewStatsRepository(db),
		Article:      repository.NewArticleRepository(db),
		Author:       repository.NewAuthorRepository(db),
		Comment:      repository.NewCommentRepository(db),
		Monetization: repository.NewMonetizationRepository(db),
		NFT:          repository.NewNFTRepository(db),
	}

	var cacheService *service.CacheService
	if redisClient != nil {
		cacheService = service.NewCacheService(redisClient, log.Logger)
	}

	irysClient := service.NewIrysClient(cfg, log)

	statsService := service.NewStatsService(
		repos.PageView,
		repos.Engagement,
		repos.Stats,
		repos.Article,
		repos.Author,
		repos.Monetization,
		redisClient,
		log,
	)
	analyticsService := service.NewAnalyticsService(
		repos.PageView,
		repos.Engagement,
		statsService,
		redisClient,
		log,
	)
	articleService := service.NewArticleService(repos.Article, repos.Author, irysClient, cacheService, log)
	authorService := service.NewAuthorService(repos.Author, cacheService, log)
	commentService := service.NewCommentService(repos.Comment, repos.Article, log)
	monetizationService := service.NewMonetizationService(repos.Monetization, repos.Article, repos.Author, log)
	nftService := service.NewNFTService(repos.NFT, repos.Article, log)

	handlers := &Handlers{
		Health:       handler.NewHealthHandler(db, redisClient, log),
		Analytics:    handler.NewAnalyticsHandler(analyticsService, statsService, log),
		Article:      handler.NewArticleHandler(articleService, log),
		Author:       handler.NewAuthorHandler(authorService, log),
		Comment:      handler.NewCommentHandler(commentService, log),
		Monetization: handler.NewMonetizationHandler(monetizationService, log),
		NFT:          handler.NewNFTHandler(nftService, log),
		Search:       handler.NewSearchHandler(repos.Article, repos.Author, log),
	}

	return &Container{
		Config:      cfg,
		Logger:      log,
		DB:          db,
		RedisClient: redisClient,
		Repos:       repos,
		Handlers:    handlers,
	}, nil
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// HasRedis returns true if the Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}
