package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"inkwell/internal/config"
	"inkwell/internal/container"
	"inkwell/internal/middleware"
	"inkwell/pkg/logger"
)

// Resources holds all resources that need cleanup
type Resources struct {
	container *container.Container
	server    *http.Server
	log       *logger.Logger
	mu        sync.Mutex
	closed    bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error

	r.log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first to stop accepting new requests
	if r.server != nil {
		r.log.Info("Shutting down HTTP server...")
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	if r.container.RedisClient != nil {
		r.log.Info("Closing Redis connection...")
		if err := r.container.RedisClient.Close(); err != nil {
			r.log.WithError(err).Error("Failed to close Redis connection")
			errs = append(errs, fmt.Errorf("Redis close: %w", err))
		} else {
			r.log.Info("Redis connection closed successfully")
		}
	}

	if r.container.DB != nil {
		r.log.Info("Closing database connection pool...")
		r.container.DB.Close()
		r.log.Info("Database connection pool closed successfully")
	}

	if len(errs) > 0 {
		r.log.WithField("error_count", len(errs)).Error("Cleanup completed with errors")
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errs), errs)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Starting inkwell server")

	ctx := context.Background()
	c, err := container.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	router := setupRouter(c)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	resources := &Resources{
		container: c,
		server:    server,
		log:       log,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	log.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container) *chi.Mux {
	cfg := c.GetConfig()
	log := c.GetLogger()
	h := c.Handlers

	r := chi.NewRouter()

	corsConfig := &middleware.CORSConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}

	r.Use(middleware.CORS(corsConfig, log))
	r.Use(middleware.RequestID(log))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Get("/health", h.Health.Check)
	r.Get("/health/ready", h.Health.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Route("/analytics", func(r chi.Router) {
			r.Post("/pageviews", h.Analytics.RecordPageView)
			r.Get("/pageviews/article/{articleID}", h.Analytics.GetArticlePageViews)
			r.Post("/engagement", h.Analytics.RecordEngagement)
			r.Get("/engagement/user/{wallet}", h.Analytics.GetUserEngagement)

			r.Route("/stats", func(r chi.Router) {
				r.Get("/article/{articleID}", h.Analytics.GetArticleStats)
				r.Get("/articles/trending", h.Analytics.GetTrending)
				r.Get("/author/{wallet}", h.Analytics.GetAuthorStats)
				r.Get("/authors/top", h.Analytics.GetTopAuthors)
				r.Get("/platform", h.Analytics.GetPlatformStats)
				r.Get("/platform/history", h.Analytics.GetPlatformHistory)
			})
		})

		r.Route("/articles", func(r chi.Router) {
			r.Post("/", h.Article.Create)
			r.Get("/", h.Article.List)
			r.Post("/search", h.Article.Search)
			r.Get("/author/{wallet}", h.Article.ListByAuthor)
			r.Get("/{articleID}", h.Article.Get)
			r.Put("/{articleID}/irys", h.Article.SetIrysPointer)
		})

		r.Route("/authors", func(r chi.Router) {
			r.Post("/", h.Author.Create)
			r.Get("/", h.Author.List)
			r.Get("/{wallet}", h.Author.Get)
			r.Put("/{wallet}", h.Author.Update)
			r.Post("/{wallet}/stats/article", h.Author.RecordNewArticle)
			r.Post("/{wallet}/stats/views", h.Author.RecordViews)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Post("/", h.Comment.Create)
			r.Get("/article/{articleID}", h.Comment.ListByArticle)
			r.Put("/{commentID}", h.Comment.Update)
			r.Delete("/{commentID}", h.Comment.Delete)
			r.Post("/{commentID}/reactions", h.Comment.React)
			r.Delete("/{commentID}/reactions/{wallet}", h.Comment.Unreact)
		})

		r.Route("/monetization", func(r chi.Router) {
			r.Post("/tips", h.Monetization.CreateTip)
			r.Get("/tips/received/{wallet}", h.Monetization.GetTipsReceived)
			r.Get("/tips/sent/{wallet}", h.Monetization.GetTipsSent)

			r.Post("/paid-content", h.Monetization.CreatePaidContent)
			r.Get("/paid-content/{articleID}", h.Monetization.GetPaidContent)
			r.Put("/paid-content/{articleID}", h.Monetization.UpdatePaidContent)
			r.Delete("/paid-content/{articleID}", h.Monetization.RemovePaidContent)

			r.Post("/purchases", h.Monetization.RecordPurchase)
			r.Get("/purchases/article/{articleID}", h.Monetization.GetPurchasesByArticle)
			r.Get("/purchases/{wallet}", h.Monetization.GetPurchasesByBuyer)

			r.Post("/subscriptions", h.Monetization.Subscribe)
			r.Get("/subscriptions/subscriber/{wallet}", h.Monetization.GetSubscriptionsBySubscriber)
			r.Get("/subscriptions/author/{wallet}", h.Monetization.GetSubscribersByAuthor)
			r.Delete("/subscriptions/{subscriptionID}", h.Monetization.CancelSubscription)

			r.Get("/revenue/{wallet}", h.Monetization.GetRevenueStats)
		})

		r.Route("/nft", func(r chi.Router) {
			r.Post("/", h.NFT.Create)
			r.Get("/article/{articleID}", h.NFT.GetByArticle)

			r.Route("/marketplace", func(r chi.Router) {
				r.Get("/listed", h.NFT.GetListed)
				r.Get("/creator/{wallet}", h.NFT.GetByCreator)
				r.Post("/list/{nftID}", h.NFT.List)
				r.Post("/unlist/{nftID}", h.NFT.Unlist)
			})

			r.Post("/sales", h.NFT.RecordSale)
			r.Get("/sales/user/{wallet}", h.NFT.GetSalesByWallet)
			r.Get("/sales/{nftID}", h.NFT.GetSales)

			r.Post("/collections", h.NFT.CreateCollection)
			r.Get("/collections", h.NFT.GetCollections)
			r.Get("/collections/creator/{wallet}", h.NFT.GetCollectionsByCreator)
			r.Get("/collections/{collectionID}", h.NFT.GetCollection)

			r.Get("/stats/global", h.NFT.GetGlobalStats)
			r.Get("/stats/creator/{wallet}", h.NFT.GetCreatorStats)

			r.Get("/{nftID}", h.NFT.Get)
			r.Put("/{nftID}", h.NFT.Update)
			r.Post("/{nftID}/mint", h.NFT.Mint)
		})

		r.Route("/search", func(r chi.Router) {
			r.Get("/suggestions", h.Search.GetSuggestions)
			r.Get("/tags", h.Search.GetTags)
			r.Get("/categories", h.Search.GetCategories)
			r.Get("/stats", h.Search.GetStats)
		})
	})

	return r
}
