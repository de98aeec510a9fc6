package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inkwell/internal/domain"
	"inkwell/pkg/database"

	"github.com/jackc/pgx/v5"
)

const authorColumns = `id, wallet_address, username, display_name, bio, avatar_irys_id, cover_image_irys_id, social_links, created_at, updated_at, total_articles, total_views, active_subscribers`

// authorRepository handles author profiles with PostgreSQL
type authorRepository struct {
	db *database.PostgresDB
}

// NewAuthorRepository creates a new author repository
func NewAuthorRepository(db *database.PostgresDB) AuthorRepository {
	return &authorRepository{
		db: db,
	}
}

// Insert creates a new author profile
func (r *authorRepository) Insert(ctx context.Context, profile *domain.AuthorProfile) error {
	socialLinks, err := json.Marshal(profile.SocialLinks)
	if err != nil {
		return fmt.Errorf("failed to marshal social links: %w", err)
	}

	query := `
		INSERT INTO authors (` + authorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		profile.ID,
		profile.WalletAddress,
		profile.Username,
		profile.DisplayName,
		profile.Bio,
		profile.AvatarIrysID,
		profile.CoverImageIrysID,
		socialLinks,
		profile.CreatedAt,
		profile.UpdatedAt,
		profile.TotalArticles,
		profile.TotalViews,
		profile.ActiveSubscribers,
	)
	if err != nil {
		return fmt.Errorf("failed to insert author profile: %w", err)
	}

	return nil
}

// GetByWallet returns the profile, or nil when absent
func (r *authorRepository) GetByWallet(ctx context.Context, wallet string) (*domain.AuthorProfile, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE wallet_address = $1`

	profile, err := scanAuthorProfile(r.db.GetReadPool().QueryRow(ctx, query, wallet))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get author by wallet: %w", err)
	}

	return profile, nil
}

// Update applies a partial update and returns the fresh profile
func (r *authorRepository) Update(ctx context.Context, wallet string, upd *domain.AuthorProfileUpdate) (*domain.AuthorProfile, error) {
	var socialLinks []byte
	if upd.SocialLinks != nil {
		var err error
		socialLinks, err = json.Marshal(upd.SocialLinks)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal social links: %w", err)
		}
	}

	query := `
		UPDATE authors SET
			username = COALESCE($2, username),
			display_name = COALESCE($3, display_name),
			bio = COALESCE($4, bio),
			avatar_irys_id = COALESCE($5, avatar_irys_id),
			cover_image_irys_id = COALESCE($6, cover_image_irys_id),
			social_links = COALESCE($7, social_links),
			updated_at = NOW()
		WHERE wallet_address = $1
		RETURNING ` + authorColumns + `
	`

	profile, err := scanAuthorProfile(r.db.Pool.QueryRow(ctx, query,
		wallet,
		upd.Username,
		upd.DisplayName,
		upd.Bio,
		upd.AvatarIrysID,
		upd.CoverImageIrysID,
		socialLinks,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update author profile: %w", err)
	}

	return profile, nil
}

// List returns author profiles, newest first
func (r *authorRepository) List(ctx context.Context, limit, offset int) ([]*domain.AuthorProfile, error) {
	query := `
		SELECT ` + authorColumns + `
		FROM authors
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	var profiles []*domain.AuthorProfile
	for rows.Next() {
		profile, err := scanAuthorProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan author row: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading author rows: %w", err)
	}

	return profiles, nil
}

// CountDistinctWallets counts registered author wallets
func (r *authorRepository) CountDistinctWallets(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(DISTINCT wallet_address) FROM authors`

	var count int64
	err := r.db.GetReadPool().QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count author wallets: %w", err)
	}

	return count, nil
}

// CountCreatedBetween counts profiles created in [from, to)
func (r *authorRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM authors WHERE created_at >= $1 AND created_at < $2`

	var count int64
	err := r.db.GetReadPool().QueryRow(ctx, query, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count authors in range: %w", err)
	}

	return count, nil
}

// IncrementArticleCount bumps the article counter, creating a bare profile
// when none exists yet
func (r *authorRepository) IncrementArticleCount(ctx context.Context, wallet string, delta int64) error {
	return r.incrementCounter(ctx, wallet, "total_articles", delta)
}

// IncrementViewCount bumps the view counter, creating a bare profile when
// none exists yet
func (r *authorRepository) IncrementViewCount(ctx context.Context, wallet string, delta int64) error {
	return r.incrementCounter(ctx, wallet, "total_views", delta)
}

// IncrementActiveSubscribers adjusts the subscriber counter
func (r *authorRepository) IncrementActiveSubscribers(ctx context.Context, wallet string, delta int64) error {
	return r.incrementCounter(ctx, wallet, "active_subscribers", delta)
}

// incrementCounter upserts a denormalized counter on the profile row.
// column is always one of the fixed counter names above, never caller input.
func (r *authorRepository) incrementCounter(ctx context.Context, wallet, column string, delta int64) error {
	query := fmt.Sprintf(`
		INSERT INTO authors (id, wallet_address, social_links, created_at, updated_at, %[1]s)
		VALUES (gen_random_uuid(), $1, '{}', NOW(), NOW(), GREATEST($2, 0))
		ON CONFLICT (wallet_address) DO UPDATE SET
			%[1]s = GREATEST(authors.%[1]s + $2, 0),
			updated_at = NOW()
	`, column)

	_, err := r.db.Pool.Exec(ctx, query, wallet, delta)
	if err != nil {
		return fmt.Errorf("failed to increment author %s: %w", column, err)
	}

	return nil
}

func scanAuthorProfile(row rowScanner) (*domain.AuthorProfile, error) {
	profile := &domain.AuthorProfile{}
	var socialLinks []byte

	err := row.Scan(
		&profile.ID,
		&profile.WalletAddress,
		&profile.Username,
		&profile.DisplayName,
		&profile.Bio,
		&profile.AvatarIrysID,
		&profile.CoverImageIrysID,
		&socialLinks,
		&profile.CreatedAt,
		&profile.UpdatedAt,
		&profile.TotalArticles,
		&profile.TotalViews,
		&profile.ActiveSubscribers,
	)
	if err != nil {
		return nil, err
	}

	if len(socialLinks) > 0 {
		if err := json.Unmarshal(socialLinks, &profile.SocialLinks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal social links: %w", err)
		}
	}

	return profile, nil
}
