package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inkwell/internal/domain"
	"inkwell/pkg/database"

	"github.com/jackc/pgx/v5"
)

const articleColumns = `id, title, content, html, excerpt, author_wallet, author_name, irys_id, irys_url, tags, category, reading_time, word_count, status, published_at, created_at, updated_at, views`

// articleRepository handles the article catalog with PostgreSQL
type articleRepository struct {
	db *database.PostgresDB
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *database.PostgresDB) ArticleRepository {
	return &articleRepository{
		db: db,
	}
}

// Insert creates a new catalog entry
func (r *articleRepository) Insert(ctx context.Context, article *domain.Article) error {
	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		article.ID,
		article.Title,
		article.Content,
		article.HTML,
		article.Excerpt,
		article.AuthorWallet,
		article.AuthorName,
		article.IrysID,
		article.IrysURL,
		article.Tags,
		article.Category,
		article.ReadingTime,
		article.WordCount,
		string(article.Status),
		article.PublishedAt,
		article.CreatedAt,
		article.UpdatedAt,
		article.Views,
	)
	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}

	return nil
}

// GetByID returns the article, or nil when absent
func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	article, err := scanArticle(r.db.GetReadPool().QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get article by id: %w", err)
	}

	return article, nil
}

// SetIrys records the permanent-storage pointer after a successful upload
func (r *articleRepository) SetIrys(ctx context.Context, id, irysID, irysURL string) error {
	query := `
		UPDATE articles
		SET irys_id = $2, irys_url = $3, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, id, irysID, irysURL)
	if err != nil {
		return fmt.Errorf("failed to set article irys pointer: %w", err)
	}

	return nil
}

// IncrementViews bumps the denormalized view counter
func (r *articleRepository) IncrementViews(ctx context.Context, id string) error {
	query := `UPDATE articles SET views = views + 1 WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment article views: %w", err)
	}

	return nil
}

// ListPublished returns published articles, newest first
func (r *articleRepository) ListPublished(ctx context.Context, limit, offset int) ([]*domain.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE status = 'published'
		ORDER BY published_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query published articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// ListByAuthor returns an author's articles, newest first
func (r *articleRepository) ListByAuthor(ctx context.Context, wallet string, limit, offset int) ([]*domain.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE author_wallet = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, wallet, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles by author: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// EnumerateByAuthor returns up to max article IDs owned by the wallet
func (r *articleRepository) EnumerateByAuthor(ctx context.Context, wallet string, max int) ([]string, error) {
	query := `
		SELECT id
		FROM articles
		WHERE author_wallet = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, wallet, max)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate author articles: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan article id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading article id rows: %w", err)
	}

	return ids, nil
}

// Search filters published articles by text, author, tags and category
func (r *articleRepository) Search(ctx context.Context, q *domain.ArticleSearchQuery) ([]*domain.Article, error) {
	conditions := []string{"status = 'published'"}
	args := []any{}
	arg := 1

	if q.Query != "" {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR excerpt ILIKE $%d)", arg, arg))
		args = append(args, "%"+q.Query+"%")
		arg++
	}
	if q.Author != "" {
		conditions = append(conditions, fmt.Sprintf("author_wallet = $%d", arg))
		args = append(args, q.Author)
		arg++
	}
	if len(q.Tags) > 0 {
		conditions = append(conditions, fmt.Sprintf("tags && $%d", arg))
		args = append(args, q.Tags)
		arg++
	}
	if q.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", arg))
		args = append(args, q.Category)
		arg++
	}

	query := fmt.Sprintf(`
		SELECT `+articleColumns+`
		FROM articles
		WHERE %s
		ORDER BY published_at DESC
		LIMIT $%d OFFSET $%d
	`, strings.Join(conditions, " AND "), arg, arg+1)
	args = append(args, q.Limit, q.Offset)

	rows, err := r.db.GetReadPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

// CountAll counts every catalog entry
func (r *articleRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM articles`

	var count int64
	err := r.db.GetReadPool().QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}

	return count, nil
}

// CountCreatedBetween counts articles created in [from, to)
func (r *articleRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM articles WHERE created_at >= $1 AND created_at < $2`

	var count int64
	err := r.db.GetReadPool().QueryRow(ctx, query, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles in range: %w", err)
	}

	return count, nil
}

func scanArticle(row rowScanner) (*domain.Article, error) {
	article := &domain.Article{}
	var status string

	err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.HTML,
		&article.Excerpt,
		&article.AuthorWallet,
		&article.AuthorName,
		&article.IrysID,
		&article.IrysURL,
		&article.Tags,
		&article.Category,
		&article.ReadingTime,
		&article.WordCount,
		&status,
		&article.PublishedAt,
		&article.CreatedAt,
		&article.UpdatedAt,
		&article.Views,
	)
	if err != nil {
		return nil, err
	}

	article.Status = domain.ArticleStatus(status)
	return article, nil
}

func collectArticles(rows pgx.Rows) ([]*domain.Article, error) {
	var articles []*domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading article rows: %w", err)
	}

	return articles, nil
}
