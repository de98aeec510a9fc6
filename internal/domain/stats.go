package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ArticleStats is the materialized per-article aggregate, keyed uniquely by
// article ID. It is a derived cache: every value is recomputable from the
// ledger, and refreshes fully replace the record.
type ArticleStats struct {
	ArticleID      string          `json:"article_id"`
	TotalViews     int64           `json:"total_views"`
	UniqueViews    int64           `json:"unique_views"` // distinct IP addresses
	TotalLikes     int64           `json:"total_likes"`
	TotalComments  int64           `json:"total_comments"`
	TotalShares    int64           `json:"total_shares"`
	TotalTips      int64           `json:"total_tips"`
	TotalTipAmount decimal.Decimal `json:"total_tip_amount"`
	EngagementRate float64         `json:"engagement_rate"` // percentage
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AuthorStats is the materialized per-author aggregate keyed by wallet,
// summed across all of the author's articles.
type AuthorStats struct {
	AuthorWallet    string    `json:"author_wallet"`
	TotalArticles   int64     `json:"total_articles"`
	TotalViews      int64     `json:"total_views"`
	TotalLikes      int64     `json:"total_likes"`
	TotalComments   int64     `json:"total_comments"`
	AvgArticleViews float64   `json:"avg_article_views"`
	EngagementRate  float64   `json:"engagement_rate"` // percentage
	UpdatedAt       time.Time `json:"updated_at"`
}

// PlatformStats is the daily platform-wide aggregate keyed by calendar date.
// Today's record is recomputed on demand; past dates are never recomputed.
type PlatformStats struct {
	StatsDate     time.Time `json:"stats_date"`
	TotalUsers    int64     `json:"total_users"`
	TotalArticles int64     `json:"total_articles"`
	TotalViews    int64     `json:"total_views"`
	TotalLikes    int64     `json:"total_likes"`
	TotalComments int64     `json:"total_comments"`
	ActiveUsers   int64     `json:"active_users"` // distinct actors engaging today
	NewUsers      int64     `json:"new_users"`
	NewArticles   int64     `json:"new_articles"`
}

// TrendingArticle is a derived, never-persisted ranking entry over the
// trailing 24-hour engagement window.
type TrendingArticle struct {
	ArticleID       string  `json:"article_id"`
	Title           string  `json:"title"`
	AuthorWallet    string  `json:"author_wallet"`
	AuthorName      string  `json:"author_name,omitempty"`
	Views24h        int64   `json:"views_24h"`
	Likes24h        int64   `json:"likes_24h"`
	Comments24h     int64   `json:"comments_24h"`
	Shares24h       int64   `json:"shares_24h"`
	EngagementScore float64 `json:"engagement_score"`
}

// EngagementWindow is one group of the windowed group-by over the engagement
// ledger. Views counts every event in the group; the action buckets count
// only their matching rows.
type EngagementWindow struct {
	TargetID string
	Views    int64
	Likes    int64
	Comments int64
	Shares   int64
}

// RevenueStats is the additive revenue breakdown for a wallet. All amounts
// use exact decimal arithmetic; floats would drift on currency sums.
type RevenueStats struct {
	TotalTipsReceived        decimal.Decimal `json:"total_tips_received"`
	TotalPaidContentRevenue  decimal.Decimal `json:"total_paid_content_revenue"`
	TotalSubscriptionRevenue decimal.Decimal `json:"total_subscription_revenue"`
	TotalRevenue             decimal.Decimal `json:"total_revenue"`
	TipsCount                int64           `json:"tips_count"`
	PurchasesCount           int64           `json:"purchases_count"`
	ActiveSubscribers        int64           `json:"active_subscribers"`
}
