package repository

import (
	"context"
	"time"

	"inkwell/internal/domain"

	"github.com/shopspring/decimal"
)

// PageViewRepository is the append-only page view ledger. Rows are immutable
// once written; there are no update or delete operations by design.
type PageViewRepository interface {
	// Insert appends a page view to the ledger
	Insert(ctx context.Context, view *domain.PageView) error

	// CountByArticle counts all page views for an article
	CountByArticle(ctx context.Context, articleID string) (int64, error)

	// CountDistinctIPsByArticle counts distinct IP addresses among an article's views
	CountDistinctIPsByArticle(ctx context.Context, articleID string) (int64, error)

	// CountAll counts every page view on the platform
	CountAll(ctx context.Context) (int64, error)

	// ListByArticle returns an article's page views, newest first
	ListByArticle(ctx context.Context, articleID string, limit, offset int) ([]*domain.PageView, error)
}

// EngagementRepository is the append-only engagement ledger plus the grouped
// read primitives the aggregator composes on.
type EngagementRepository interface {
	// Insert appends an engagement event to the ledger
	Insert(ctx context.Context, event *domain.EngagementEvent) error

	// CountByTarget counts events for a target filtered by action type
	CountByTarget(ctx context.Context, targetID string, targetType domain.TargetType, actionType domain.ActionType) (int64, error)

	// CountByAction counts all events of one action type platform-wide
	CountByAction(ctx context.Context, actionType domain.ActionType) (int64, error)

	// CountDistinctActors counts distinct actor wallets active in [from, to)
	CountDistinctActors(ctx context.Context, from, to time.Time) (int64, error)

	// GroupByArticle groups events targeting articles since the given instant
	GroupByArticle(ctx context.Context, since time.Time, limit int) ([]*domain.EngagementWindow, error)

	// ListByActor returns a user's engagement history, newest first
	ListByActor(ctx context.Context, wallet string, limit, offset int) ([]*domain.EngagementEvent, error)
}

// StatsRepository stores the materialized aggregates. All writes are
// idempotent upserts keyed by entity id; retries are always safe.
type StatsRepository interface {
	UpsertArticleStats(ctx context.Context, stats *domain.ArticleStats) error

	// GetArticleStats returns the materialized record, or nil when absent
	GetArticleStats(ctx context.Context, articleID string) (*domain.ArticleStats, error)

	UpsertAuthorStats(ctx context.Context, stats *domain.AuthorStats) error

	// GetAuthorStats returns the materialized record, or nil when absent
	GetAuthorStats(ctx context.Context, wallet string) (*domain.AuthorStats, error)

	// TopAuthors returns author stats sorted descending by the given metric
	TopAuthors(ctx context.Context, metric string, limit int) ([]*domain.AuthorStats, error)

	UpsertPlatformStats(ctx context.Context, stats *domain.PlatformStats) error

	// GetPlatformStatsByDate returns the daily record, or nil when absent
	GetPlatformStatsByDate(ctx context.Context, date time.Time) (*domain.PlatformStats, error)

	// ListPlatformStats returns daily records since a date, newest first.
	// Days without a stored record are simply absent from the result.
	ListPlatformStats(ctx context.Context, since time.Time, limit int) ([]*domain.PlatformStats, error)
}

// ArticleRepository is the article catalog
type ArticleRepository interface {
	Insert(ctx context.Context, article *domain.Article) error

	// GetByID returns the article, or nil when absent
	GetByID(ctx context.Context, id string) (*domain.Article, error)

	// SetIrys records the permanent-storage pointer after a successful upload
	SetIrys(ctx context.Context, id, irysID, irysURL string) error

	// IncrementViews bumps the denormalized view counter
	IncrementViews(ctx context.Context, id string) error

	ListPublished(ctx context.Context, limit, offset int) ([]*domain.Article, error)
	ListByAuthor(ctx context.Context, wallet string, limit, offset int) ([]*domain.Article, error)

	// EnumerateByAuthor returns up to max article IDs owned by the wallet
	EnumerateByAuthor(ctx context.Context, wallet string, max int) ([]string, error)

	Search(ctx context.Context, query *domain.ArticleSearchQuery) ([]*domain.Article, error)

	CountAll(ctx context.Context) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// AuthorRepository is the author profile catalog
type AuthorRepository interface {
	Insert(ctx context.Context, profile *domain.AuthorProfile) error

	// GetByWallet returns the profile, or nil when absent
	GetByWallet(ctx context.Context, wallet string) (*domain.AuthorProfile, error)

	// Update applies a partial update and returns the fresh profile
	Update(ctx context.Context, wallet string, upd *domain.AuthorProfileUpdate) (*domain.AuthorProfile, error)

	List(ctx context.Context, limit, offset int) ([]*domain.AuthorProfile, error)

	CountDistinctWallets(ctx context.Context) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)

	// IncrementArticleCount bumps the denormalized article counter, creating
	// a bare profile when none exists yet
	IncrementArticleCount(ctx context.Context, wallet string, delta int64) error

	// IncrementViewCount bumps the denormalized view counter, creating a bare
	// profile when none exists yet
	IncrementViewCount(ctx context.Context, wallet string, delta int64) error

	// IncrementActiveSubscribers adjusts the subscriber counter
	IncrementActiveSubscribers(ctx context.Context, wallet string, delta int64) error
}

// CommentRepository stores threaded comments and per-user reactions
type CommentRepository interface {
	Insert(ctx context.Context, comment *domain.Comment) error

	// GetByID returns the comment, or nil when absent
	GetByID(ctx context.Context, id string) (*domain.Comment, error)

	ListTopLevelByArticle(ctx context.Context, articleID string, limit, offset int) ([]*domain.Comment, error)
	ListReplies(ctx context.Context, parentID string) ([]*domain.Comment, error)

	// UpdateContent edits a comment and returns the fresh row, nil when absent
	UpdateContent(ctx context.Context, id, content string, now time.Time) (*domain.Comment, error)

	// SoftDelete marks a comment deleted; reports whether a row matched
	SoftDelete(ctx context.Context, id string, now time.Time) (bool, error)

	// UpsertReaction inserts or replaces the actor's reaction on a comment
	UpsertReaction(ctx context.Context, reaction *domain.Reaction) error

	// DeleteReaction removes the actor's reaction; reports whether one existed
	DeleteReaction(ctx context.Context, commentID, wallet string) (bool, error)

	// CountReactions counts reactions of one type on a comment
	CountReactions(ctx context.Context, commentID string, reactionType domain.ReactionType) (int64, error)

	// SetReactionCounts writes the rolled-up like/dislike counters onto the comment
	SetReactionCounts(ctx context.Context, commentID string, likes, dislikes int64) error
}

// MonetizationRepository stores tips, paid content, purchases and
// subscriptions, plus the aggregate reads the revenue rollup composes on.
type MonetizationRepository interface {
	InsertTip(ctx context.Context, tip *domain.Tip) error
	ListTipsReceived(ctx context.Context, wallet string, limit, offset int) ([]*domain.Tip, error)
	ListTipsSent(ctx context.Context, wallet string, limit, offset int) ([]*domain.Tip, error)

	// TipTotalsByArticle returns tip count and exact-decimal amount sum for an article
	TipTotalsByArticle(ctx context.Context, articleID string) (int64, decimal.Decimal, error)

	// TipsReceivedRollup sums up to max tips received by a wallet, returning
	// the exact total, the tip count and the distinct article IDs tipped
	TipsReceivedRollup(ctx context.Context, wallet string, max int) (decimal.Decimal, int64, []string, error)

	InsertPaidContent(ctx context.Context, pc *domain.PaidContent) error

	// GetPaidContent returns the gate for an article, or nil when absent
	GetPaidContent(ctx context.Context, articleID string, activeOnly bool) (*domain.PaidContent, error)

	// UpdatePaidContent applies a partial update and returns the fresh row, nil when absent
	UpdatePaidContent(ctx context.Context, articleID string, upd *domain.PaidContentUpdate) (*domain.PaidContent, error)

	// DeactivatePaidContent disables the gate; reports whether a row matched
	DeactivatePaidContent(ctx context.Context, articleID string) (bool, error)

	// RecordPaidContentSale bumps purchase count and exact-decimal revenue
	RecordPaidContentSale(ctx context.Context, articleID string, amount decimal.Decimal) error

	// PaidContentRevenueForArticles sums total_revenue across the given articles
	PaidContentRevenueForArticles(ctx context.Context, articleIDs []string) (decimal.Decimal, error)

	InsertPurchase(ctx context.Context, purchase *domain.Purchase) error
	ListPurchasesByBuyer(ctx context.Context, wallet string, limit, offset int) ([]*domain.Purchase, error)
	ListPurchasesByArticle(ctx context.Context, articleID string, limit, offset int) ([]*domain.Purchase, error)
	CountPurchasesByBuyer(ctx context.Context, wallet string) (int64, error)

	InsertSubscription(ctx context.Context, sub *domain.Subscription) error

	// GetActiveSubscription returns the active pair subscription, or nil
	GetActiveSubscription(ctx context.Context, subscriberWallet, authorWallet string) (*domain.Subscription, error)

	ListActiveBySubscriber(ctx context.Context, wallet string) ([]*domain.Subscription, error)
	ListActiveByAuthor(ctx context.Context, wallet string, limit, offset int) ([]*domain.Subscription, error)

	// CancelSubscription deactivates by id and returns the row, nil when absent
	CancelSubscription(ctx context.Context, id string) (*domain.Subscription, error)

	// ActiveSubscriptionRollup sums total_paid over a wallet's active
	// subscribers, returning the exact total and the subscriber count
	ActiveSubscriptionRollup(ctx context.Context, authorWallet string) (decimal.Decimal, int64, error)
}

// NFTRepository stores NFTs, sales and collections plus the stats rollup reads
type NFTRepository interface {
	Insert(ctx context.Context, nft *domain.NFT) error

	// GetByID returns the NFT, or nil when absent
	GetByID(ctx context.Context, id string) (*domain.NFT, error)

	// GetByArticle returns the NFT tied to an article, or nil when absent
	GetByArticle(ctx context.Context, articleID string) (*domain.NFT, error)

	// Update applies a partial update and returns the fresh row, nil when absent
	Update(ctx context.Context, id string, upd *domain.NFTUpdate) (*domain.NFT, error)

	// MarkMinted records the mint transaction; reports whether a row matched
	MarkMinted(ctx context.Context, id, txHash string) (bool, error)

	// SetListing lists or unlists an NFT, optionally repricing it
	SetListing(ctx context.Context, id string, listed bool, price *decimal.Decimal, currency *domain.Currency) (bool, error)

	ListListed(ctx context.Context, limit, offset int, minPrice, maxPrice *decimal.Decimal) ([]*domain.NFT, error)
	ListByCreator(ctx context.Context, wallet string, limit, offset int) ([]*domain.NFT, error)

	InsertSale(ctx context.Context, sale *domain.NFTSale) error

	// RecordSaleStats bumps the NFT's sale count and exact-decimal volume
	RecordSaleStats(ctx context.Context, nftID string, price decimal.Decimal) error

	ListSalesByNFT(ctx context.Context, nftID string, limit, offset int) ([]*domain.NFTSale, error)
	ListSalesByWallet(ctx context.Context, wallet string, limit, offset int) ([]*domain.NFTSale, error)

	InsertCollection(ctx context.Context, collection *domain.NFTCollection) error

	// GetCollection returns the collection, or nil when absent
	GetCollection(ctx context.Context, id string) (*domain.NFTCollection, error)

	ListCollections(ctx context.Context, limit, offset int) ([]*domain.NFTCollection, error)
	ListCollectionsByCreator(ctx context.Context, wallet string, limit, offset int) ([]*domain.NFTCollection, error)

	// Stats reads; an empty creator wallet means platform-wide
	CountNFTs(ctx context.Context, creatorWallet string) (int64, error)
	SumVolume(ctx context.Context, creatorWallet string) (decimal.Decimal, error)
	CountSales(ctx context.Context, creatorWallet string) (int64, error)
	FloorPrice(ctx context.Context, creatorWallet string) (decimal.Decimal, bool, error)
	CountDistinctBuyers(ctx context.Context, creatorWallet string) (int64, error)
	AverageListedPrice(ctx context.Context, creatorWallet string) (decimal.Decimal, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	PageView     PageViewRepository
	Engagement   EngagementRepository
	Stats        StatsRepository
	Article      ArticleRepository
	Author       AuthorRepository
	Comment      CommentRepository
	Monetization MonetizationRepository
	NFT          NFTRepository
}
