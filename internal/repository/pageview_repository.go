package repository

import (
	"context"
	"fmt"

	"inkwell/internal/domain"
	"inkwell/pkg/database"
)

// pageViewRepository handles the page view ledger with PostgreSQL
type pageViewRepository struct {
	db *database.PostgresDB
}

// NewPageViewRepository creates a new page view repository
func NewPageViewRepository(db *database.PostgresDB) PageViewRepository {
	return &pageViewRepository{
		db: db,
	}
}

// Insert appends a page view to the ledger
func (r *pageViewRepository) Insert(ctx context.Context, view *domain.PageView) error {
	query := `
		INSERT INTO page_views (id, article_id, actor_wallet, ip_address, user_agent, referrer, session_id, created_at, view_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		view.ID,
		view.ArticleID,
		view.ActorWallet,
		view.IPAddress,
		view.UserAgent,
		view.Referrer,
		view.SessionID,
		view.CreatedAt,
		view.ViewDate.Format("2006-01-02"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert page view: %w", err)
	}

	return nil
}

// CountByArticle counts all page views for an article
func (r *pageViewRepository) CountByArticle(ctx context.Context, articleID string) (int64, error) {
	query := `SELECT COUNT(*) FROM page_views WHERE article_id = $1`

	var count int64
	err := r.db.GetReadPool().QueryRow(ctx, query, articleID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count page views: %w", err)
	}

	return count, nil
}

// CountDistinctIPsByArticle counts distinct IP addresses among an article's views
func (r *pageViewRepository) CountDistinctIPsByArticle(ctx context.Context, articleID string) (int64, error) {
	query := `SELECT COUNT(DISTINCT ip_address) FROM page_views WHERE article_id = $1`

	var count int64
	err := r.db.GetReadPool().QueryRow(ctx, query, articleID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count distinct viewer IPs: %w", err)
	}

	return count, nil
}

// CountAll counts every page view on the platform
func (r *pageViewRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM page_views`

	var count int64
	err := r.db.GetReadPool().QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count all page views: %w", err)
	}

	return count, nil
}

// ListByArticle returns an article's page views, newest first
func (r *pageViewRepository) ListByArticle(ctx context.Context, articleID string, limit, offset int) ([]*domain.PageView, error) {
	query := `
		SELECT id, article_id, actor_wallet, ip_address, user_agent, referrer, session_id, created_at, view_date
		FROM page_views
		WHERE article_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, articleID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query page views: %w", err)
	}
	defer rows.Close()

	var views []*domain.PageView
	for rows.Next() {
		view := &domain.PageView{}
		err := rows.Scan(
			&view.ID,
			&view.ArticleID,
			&view.ActorWallet,
			&view.IPAddress,
			&view.UserAgent,
			&view.Referrer,
			&view.SessionID,
			&view.CreatedAt,
			&view.ViewDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page view row: %w", err)
		}
		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading page view rows: %w", err)
	}

	return views, nil
}
