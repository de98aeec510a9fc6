package repository

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/domain"
	"inkwell/pkg/database"

	"github.com/jackc/pgx/v5"
)

// Metrics accepted by TopAuthors. Anything else falls back to total views.
const (
	TopAuthorsMetricViews      = "total_views"
	TopAuthorsMetricLikes      = "total_likes"
	TopAuthorsMetricArticles   = "total_articles"
	TopAuthorsMetricEngagement = "engagement_rate"
)

// statsRepository handles materialized aggregates with PostgreSQL
type statsRepository struct {
	db *database.PostgresDB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *database.PostgresDB) StatsRepository {
	return &statsRepository{
		db: db,
	}
}

// UpsertArticleStats replaces the materialized record for an article
func (r *statsRepository) UpsertArticleStats(ctx context.Context, stats *domain.ArticleStats) error {
	query := `
		INSERT INTO article_stats (article_id, total_views, unique_views, total_likes, total_comments, total_shares, total_tips, total_tip_amount, engagement_rate, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (article_id) DO UPDATE SET
			total_views = EXCLUDED.total_views,
			unique_views = EXCLUDED.unique_views,
			total_likes = EXCLUDED.total_likes,
			total_comments = EXCLUDED.total_comments,
			total_shares = EXCLUDED.total_shares,
			total_tips = EXCLUDED.total_tips,
			total_tip_amount = EXCLUDED.total_tip_amount,
			engagement_rate = EXCLUDED.engagement_rate,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Pool.Exec(ctx, query,
		stats.ArticleID,
		stats.TotalViews,
		stats.UniqueViews,
		stats.TotalLikes,
		stats.TotalComments,
		stats.TotalShares,
		stats.TotalTips,
		stats.TotalTipAmount,
		stats.EngagementRate,
		stats.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert article stats: %w", err)
	}

	return nil
}

// GetArticleStats returns the materialized record, or nil when absent
func (r *statsRepository) GetArticleStats(ctx context.Context, articleID string) (*domain.ArticleStats, error) {
	query := `
		SELECT article_id, total_views, unique_views, total_likes, total_comments, total_shares, total_tips, total_tip_amount, engagement_rate, updated_at
		FROM article_stats
		WHERE article_id = $1
	`

	stats := &domain.ArticleStats{}
	err := r.db.GetReadPool().QueryRow(ctx, query, articleID).Scan(
		&stats.ArticleID,
		&stats.TotalViews,
		&stats.UniqueViews,
		&stats.TotalLikes,
		&stats.TotalComments,
		&stats.TotalShares,
		&stats.TotalTips,
		&stats.TotalTipAmount,
		&stats.EngagementRate,
		&stats.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get article stats: %w", err)
	}

	return stats, nil
}

// UpsertAuthorStats replaces the materialized record for an author
func (r *statsRepository) UpsertAuthorStats(ctx context.Context, stats *domain.AuthorStats) error {
	query := `
		INSERT INTO author_stats (author_wallet, total_articles, total_views, total_likes, total_comments, avg_article_views, engagement_rate, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (author_wallet) DO UPDATE SET
			total_articles = EXCLUDED.total_articles,
			total_views = EXCLUDED.total_views,
			total_likes = EXCLUDED.total_likes,
			total_comments = EXCLUDED.total_comments,
			avg_article_views = EXCLUDED.avg_article_views,
			engagement_rate = EXCLUDED.engagement_rate,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Pool.Exec(ctx, query,
		stats.AuthorWallet,
		stats.TotalArticles,
		stats.TotalViews,
		stats.TotalLikes,
		stats.TotalComments,
		stats.AvgArticleViews,
		stats.EngagementRate,
		stats.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert author stats: %w", err)
	}

	return nil
}

// GetAuthorStats returns the materialized record, or nil when absent
func (r *statsRepository) GetAuthorStats(ctx context.Context, wallet string) (*domain.AuthorStats, error) {
	query := `
		SELECT author_wallet, total_articles, total_views, total_likes, total_comments, avg_article_views, engagement_rate, updated_at
		FROM author_stats
		WHERE author_wallet = $1
	`

	stats := &domain.AuthorStats{}
	err := r.db.GetReadPool().QueryRow(ctx, query, wallet).Scan(
		&stats.AuthorWallet,
		&stats.TotalArticles,
		&stats.TotalViews,
		&stats.TotalLikes,
		&stats.TotalComments,
		&stats.AvgArticleViews,
		&stats.EngagementRate,
		&stats.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get author stats: %w", err)
	}

	return stats, nil
}

// TopAuthors returns author stats sorted descending by the given metric
func (r *statsRepository) TopAuthors(ctx context.Context, metric string, limit int) ([]*domain.AuthorStats, error) {
	switch metric {
	case TopAuthorsMetricViews, TopAuthorsMetricLikes, TopAuthorsMetricArticles, TopAuthorsMetricEngagement:
	default:
		return nil, fmt.Errorf("unsupported top authors metric %q", metric)
	}

	// metric is restricted to the whitelist above, never caller input
	query := fmt.Sprintf(`
		SELECT author_wallet, total_articles, total_views, total_likes, total_comments, avg_article_views, engagement_rate, updated_at
		FROM author_stats
		ORDER BY %s DESC
		LIMIT $1
	`, metric)

	rows, err := r.db.GetReadPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top authors: %w", err)
	}
	defer rows.Close()

	var authors []*domain.AuthorStats
	for rows.Next() {
		stats := &domain.AuthorStats{}
		err := rows.Scan(
			&stats.AuthorWallet,
			&stats.TotalArticles,
			&stats.TotalViews,
			&stats.TotalLikes,
			&stats.TotalComments,
			&stats.AvgArticleViews,
			&stats.EngagementRate,
			&stats.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan author stats row: %w", err)
		}
		authors = append(authors, stats)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading author stats rows: %w", err)
	}

	return authors, nil
}

// UpsertPlatformStats replaces the daily platform record
func (r *statsRepository) UpsertPlatformStats(ctx context.Context, stats *domain.PlatformStats) error {
	query := `
		INSERT INTO platform_stats (stats_date, total_users, total_articles, total_views, total_likes, total_comments, active_users, new_users, new_articles)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (stats_date) DO UPDATE SET
			total_users = EXCLUDED.total_users,
			total_articles = EXCLUDED.total_articles,
			total_views = EXCLUDED.total_views,
			total_likes = EXCLUDED.total_likes,
			total_comments = EXCLUDED.total_comments,
			active_users = EXCLUDED.active_users,
			new_users = EXCLUDED.new_users,
			new_articles = EXCLUDED.new_articles
	`

	_, err := r.db.Pool.Exec(ctx, query,
		stats.StatsDate.Format("2006-01-02"),
		stats.TotalUsers,
		stats.TotalArticles,
		stats.TotalViews,
		stats.TotalLikes,
		stats.TotalComments,
		stats.ActiveUsers,
		stats.NewUsers,
		stats.NewArticles,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert platform stats: %w", err)
	}

	return nil
}

// GetPlatformStatsByDate returns the daily record, or nil when absent
func (r *statsRepository) GetPlatformStatsByDate(ctx context.Context, date time.Time) (*domain.PlatformStats, error) {
	query := `
		SELECT stats_date, total_users, total_articles, total_views, total_likes, total_comments, active_users, new_users, new_articles
		FROM platform_stats
		WHERE stats_date = $1
	`

	stats := &domain.PlatformStats{}
	err := r.db.GetReadPool().QueryRow(ctx, query, date.Format("2006-01-02")).Scan(
		&stats.StatsDate,
		&stats.TotalUsers,
		&stats.TotalArticles,
		&stats.TotalViews,
		&stats.TotalLikes,
		&stats.TotalComments,
		&stats.ActiveUsers,
		&stats.NewUsers,
		&stats.NewArticles,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get platform stats by date: %w", err)
	}

	return stats, nil
}

// ListPlatformStats returns daily records since a date, newest first
func (r *statsRepository) ListPlatformStats(ctx context.Context, since time.Time, limit int) ([]*domain.PlatformStats, error) {
	query := `
		SELECT stats_date, total_users, total_articles, total_views, total_likes, total_comments, active_users, new_users, new_articles
		FROM platform_stats
		WHERE stats_date >= $1
		ORDER BY stats_date DESC
		LIMIT $2
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, since.Format("2006-01-02"), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query platform stats history: %w", err)
	}
	defer rows.Close()

	var history []*domain.PlatformStats
	for rows.Next() {
		stats := &domain.PlatformStats{}
		err := rows.Scan(
			&stats.StatsDate,
			&stats.TotalUsers,
			&stats.TotalArticles,
			&stats.TotalViews,
			&stats.TotalLikes,
			&stats.TotalComments,
			&stats.ActiveUsers,
			&stats.NewUsers,
			&stats.NewArticles,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan platform stats row: %w", err)
		}
		history = append(history, stats)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading platform stats rows: %w", err)
	}

	return history, nil
}
