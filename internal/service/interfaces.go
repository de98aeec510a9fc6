package service

import (
	"context"

	"inkwell/internal/domain"
)

// AnalyticsService ingests events into the append-only ledger
type AnalyticsService interface {
	// RecordPageView appends a page view, then refreshes the article's stats
	RecordPageView(ctx context.Context, input *domain.PageViewInput) (*domain.PageView, error)

	// RecordEngagement validates the closed action/target enumerations,
	// appends the event, then refreshes the affected entity's stats
	RecordEngagement(ctx context.Context, input *domain.EngagementInput) (*domain.EngagementEvent, error)

	// GetArticlePageViews lists an article's page views, newest first
	GetArticlePageViews(ctx context.Context, articleID string, limit, offset int) ([]*domain.PageView, error)

	// GetUserEngagement lists a wallet's engagement history, newest first
	GetUserEngagement(ctx context.Context, wallet string, limit, offset int) ([]*domain.EngagementEvent, error)
}

// StatsService derives and materializes statistics from the ledger
type StatsService interface {
	// GetArticleStats returns materialized stats, computing them on first read
	GetArticleStats(ctx context.Context, articleID string) (*domain.ArticleStats, error)

	// RefreshArticle fully recomputes one article's stats from the ledger
	RefreshArticle(ctx context.Context, articleID string) (*domain.ArticleStats, error)

	// GetAuthorStats returns materialized stats, computing them on first read
	GetAuthorStats(ctx context.Context, wallet string) (*domain.AuthorStats, error)

	// RefreshAuthor recomputes an author's stats across all their articles
	RefreshAuthor(ctx context.Context, wallet string) (*domain.AuthorStats, error)

	// GetPlatformStats returns today's platform record, always recomputed
	GetPlatformStats(ctx context.Context) (*domain.PlatformStats, error)

	// GetPlatformHistory returns the last N daily records, newest first
	GetPlatformHistory(ctx context.Context, days int) ([]*domain.PlatformStats, error)

	// GetTrending ranks articles by trailing-24h engagement
	GetTrending(ctx context.Context, limit int) ([]*domain.TrendingArticle, error)

	// GetTopAuthors returns authors sorted by a whitelisted metric
	GetTopAuthors(ctx context.Context, metric string, limit int) ([]*domain.AuthorStats, error)
}

// ArticleService manages the article catalog with Irys permanence
type ArticleService interface {
	Create(ctx context.Context, input *domain.ArticleInput) (*domain.Article, error)

	// Get returns an article and bumps its denormalized view counter
	Get(ctx context.Context, id string) (*domain.Article, error)

	// SetIrysPointer records the permanent-storage location after upload
	SetIrysPointer(ctx context.Context, id, irysID, irysURL string) (*domain.Article, error)

	// List returns published articles, falling back to the Irys gateway
	// when the local catalog is empty
	List(ctx context.Context, limit, offset int) ([]*domain.ArticleSummary, error)

	// ListByAuthor returns an author's articles with the same gateway fallback
	ListByAuthor(ctx context.Context, wallet string, limit, offset int) ([]*domain.ArticleSummary, error)

	Search(ctx context.Context, query *domain.ArticleSearchQuery) ([]*domain.ArticleSummary, error)
}

// AuthorService manages creator profiles keyed by wallet
type AuthorService interface {
	Create(ctx context.Context, input *domain.AuthorProfileInput) (*domain.AuthorProfile, error)
	Get(ctx context.Context, wallet string) (*domain.AuthorProfile, error)
	Update(ctx context.Context, wallet string, upd *domain.AuthorProfileUpdate) (*domain.AuthorProfile, error)
	List(ctx context.Context, limit, offset int) ([]*domain.AuthorProfile, error)

	// RecordNewArticle bumps the profile's article counter, creating a bare
	// profile when the wallet is new
	RecordNewArticle(ctx context.Context, wallet string) error

	// RecordViews adds views to the profile's view counter
	RecordViews(ctx context.Context, wallet string, views int64) error
}

// CommentService manages threaded comments and reactions
type CommentService interface {
	Create(ctx context.Context, input *domain.CommentInput) (*domain.Comment, error)

	// ListByArticle returns top-level comments with replies attached
	ListByArticle(ctx context.Context, articleID string, limit, offset int) ([]*domain.CommentThread, error)

	Update(ctx context.Context, id, content string) (*domain.Comment, error)
	Delete(ctx context.Context, id string) error

	// React records a wallet's reaction; reacting again replaces it
	React(ctx context.Context, commentID string, input *domain.ReactionInput) error

	// Unreact removes a wallet's reaction from a comment
	Unreact(ctx context.Context, commentID, wallet string) error
}

// MonetizationService manages tips, gated content, purchases, subscriptions
// and the per-wallet revenue rollup
type MonetizationService interface {
	CreateTip(ctx context.Context, input *domain.TipInput) (*domain.Tip, error)
	GetTipsReceived(ctx context.Context, wallet string, limit, offset int) ([]*domain.Tip, error)
	GetTipsSent(ctx context.Context, wallet string, limit, offset int) ([]*domain.Tip, error)

	CreatePaidContent(ctx context.Context, input *domain.PaidContentInput) (*domain.PaidContent, error)
	GetPaidContent(ctx context.Context, articleID string) (*domain.PaidContent, error)
	UpdatePaidContent(ctx context.Context, articleID string, upd *domain.PaidContentUpdate) (*domain.PaidContent, error)
	RemovePaidContent(ctx context.Context, articleID string) error

	// RecordPurchase validates against the gate price and records the sale
	RecordPurchase(ctx context.Context, input *domain.PurchaseInput) (*domain.Purchase, error)
	GetPurchasesByBuyer(ctx context.Context, wallet string, limit, offset int) ([]*domain.Purchase, error)
	GetPurchasesByArticle(ctx context.Context, articleID string, limit, offset int) ([]*domain.Purchase, error)

	Subscribe(ctx context.Context, input *domain.SubscriptionInput) (*domain.Subscription, error)
	GetSubscriptionsBySubscriber(ctx context.Context, wallet string) ([]*domain.Subscription, error)
	GetSubscribersByAuthor(ctx context.Context, wallet string, limit, offset int) ([]*domain.Subscription, error)
	CancelSubscription(ctx context.Context, id string) (*domain.Subscription, error)

	// GetRevenueStats computes the exact-decimal revenue breakdown for a wallet
	GetRevenueStats(ctx context.Context, wallet string) (*domain.RevenueStats, error)
}

// NFTService manages article NFTs, the marketplace and collections
type NFTService interface {
	Create(ctx context.Context, input *domain.NFTInput) (*domain.NFT, error)
	Get(ctx context.Context, id string) (*domain.NFT, error)
	GetByArticle(ctx context.Context, articleID string) (*domain.NFT, error)
	Update(ctx context.Context, id string, upd *domain.NFTUpdate) (*domain.NFT, error)

	// Mint records the on-chain mint transaction
	Mint(ctx context.Context, id, txHash string) (*domain.NFT, error)

	GetListed(ctx context.Context, limit, offset int, minPrice, maxPrice string) ([]*domain.NFT, error)
	GetByCreator(ctx context.Context, wallet string, limit, offset int) ([]*domain.NFT, error)
	List(ctx context.Context, id string, price string, currency string) (*domain.NFT, error)
	Unlist(ctx context.Context, id string) (*domain.NFT, error)

	// RecordSale records a marketplace sale, bumps volume and unlists
	RecordSale(ctx context.Context, input *domain.NFTSaleInput) (*domain.NFTSale, error)
	GetSales(ctx context.Context, nftID string, limit, offset int) ([]*domain.NFTSale, error)
	GetSalesByWallet(ctx context.Context, wallet string, limit, offset int) ([]*domain.NFTSale, error)

	CreateCollection(ctx context.Context, input *domain.NFTCollectionInput) (*domain.NFTCollection, error)
	GetCollection(ctx context.Context, id string) (*domain.NFTCollection, error)
	GetCollections(ctx context.Context, limit, offset int) ([]*domain.NFTCollection, error)
	GetCollectionsByCreator(ctx context.Context, wallet string, limit, offset int) ([]*domain.NFTCollection, error)

	GetGlobalStats(ctx context.Context) (*domain.NFTStats, error)
	GetCreatorStats(ctx context.Context, wallet string) (*domain.NFTStats, error)
}
