package repository

import (
	"context"
	"fmt"

	"inkwell/internal/domain"
	"inkwell/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	tipColumns          = `id, from_wallet, to_wallet, article_id, amount, currency, message, tx_hash, status, created_at`
	paidContentColumns  = `id, article_id, price, currency, description, preview_length, is_active, total_purchases, total_revenue, created_at, updated_at`
	purchaseColumns     = `id, buyer_wallet, article_id, amount, currency, tx_hash, status, created_at`
	subscriptionColumns = `id, subscriber_wallet, author_wallet, amount, currency, billing_interval, next_billing, is_active, total_paid, created_at`
)

// monetizationRepository handles tips, paid content, purchases and
// subscriptions with PostgreSQL
type monetizationRepository struct {
	db *database.PostgresDB
}

// NewMonetizationRepository creates a new monetization repository
func NewMonetizationRepository(db *database.PostgresDB) MonetizationRepository {
	return &monetizationRepository{
		db: db,
	}
}

// InsertTip records a tip
func (r *monetizationRepository) InsertTip(ctx context.Context, tip *domain.Tip) error {
	query := `
		INSERT INTO tips (` + tipColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		tip.ID,
		tip.FromWallet,
		tip.ToWallet,
		tip.ArticleID,
		tip.Amount,
		string(tip.Currency),
		tip.Message,
		tip.TransactionHash,
		string(tip.Status),
		tip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tip: %w", err)
	}

	return nil
}

// ListTipsReceived returns tips received by a wallet, newest first
func (r *monetizationRepository) ListTipsReceived(ctx context.Context, wallet string, limit, offset int) ([]*domain.Tip, error) {
	return r.listTips(ctx, "to_wallet", wallet, limit, offset)
}

// ListTipsSent returns tips sent by a wallet, newest first
func (r *monetizationRepository) ListTipsSent(ctx context.Context, wallet string, limit, offset int) ([]*domain.Tip, error) {
	return r.listTips(ctx, "from_wallet", wallet, limit, offset)
}

func (r *monetizationRepository) listTips(ctx context.Context, column, wallet string, limit, offset int) ([]*domain.Tip, error) {
	query := fmt.Sprintf(`
		SELECT `+tipColumns+`
		FROM tips
		WHERE %s = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, column)

	rows, err := r.db.GetReadPool().Query(ctx, query, wallet, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query tips: %w", err)
	}
	defer rows.Close()

	var tips []*domain.Tip
	for rows.Next() {
		tip, err := scanTip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tip row: %w", err)
		}
		tips = append(tips, tip)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading tip rows: %w", err)
	}

	return tips, nil
}

// TipTotalsByArticle returns tip count and exact-decimal amount sum for an article
func (r *monetizationRepository) TipTotalsByArticle(ctx context.Context, articleID string) (int64, decimal.Decimal, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)
		FROM tips
		WHERE article_id = $1 AND status = 'completed'
	`

	var count int64
	var total decimal.Decimal
	err := r.db.GetReadPool().QueryRow(ctx, query, articleID).Scan(&count, &total)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to total tips by article: %w", err)
	}

	return count, total, nil
}

// TipsReceivedRollup sums up to max tips received by a wallet, returning the
// exact total, the tip count and the distinct article IDs tipped
func (r *monetizationRepository) TipsReceivedRollup(ctx context.Context, wallet string, max int) (decimal.Decimal, int64, []string, error) {
	query := `
		SELECT amount, article_id
		FROM tips
		WHERE to_wallet = $1 AND status = 'completed'
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, wallet, max)
	if err != nil {
		return decimal.Zero, 0, nil, fmt.Errorf("failed to query received tips: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	var count int64
	seen := make(map[string]struct{})
	var articleIDs []string

	for rows.Next() {
		var amount decimal.Decimal
		var articleID string
		if err := rows.Scan(&amount, &articleID); err != nil {
			return decimal.Zero, 0, nil, fmt.Errorf("failed to scan tip rollup row: %w", err)
		}
		total = total.Add(amount)
		count++
		if articleID != "" {
			if _, ok := seen[articleID]; !ok {
				seen[articleID] = struct{}{}
				articleIDs = append(articleIDs, articleID)
			}
		}
	}

	if err := rows.Err(); err != nil {
		return decimal.Zero, 0, nil, fmt.Errorf("error reading tip rollup rows: %w", err)
	}

	return total, count, articleIDs, nil
}

// InsertPaidContent creates a paid-content gate for an article
func (r *monetizationRepository) InsertPaidContent(ctx context.Context, pc *domain.PaidContent) error {
	query := `
		INSERT INTO paid_content (` + paidContentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		pc.ID,
		pc.ArticleID,
		pc.Price,
		string(pc.Currency),
		pc.Description,
		pc.PreviewLength,
		pc.IsActive,
		pc.TotalPurchases,
		pc.TotalRevenue,
		pc.CreatedAt,
		pc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert paid content: %w", err)
	}

	return nil
}

// GetPaidContent returns the gate for an article, or nil when absent
func (r *monetizationRepository) GetPaidContent(ctx context.Context, articleID string, activeOnly bool) (*domain.PaidContent, error) {
	query := `SELECT ` + paidContentColumns + ` FROM paid_content WHERE article_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}

	pc, err := scanPaidContent(r.db.GetReadPool().QueryRow(ctx, query, articleID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get paid content: %w", err)
	}

	return pc, nil
}

// UpdatePaidContent applies a partial update and returns the fresh row, nil when absent
func (r *monetizationRepository) UpdatePaidContent(ctx context.Context, articleID string, upd *domain.PaidContentUpdate) (*domain.PaidContent, error) {
	query := `
		UPDATE paid_content SET
			price = COALESCE($2, price),
			currency = COALESCE($3, currency),
			description = COALESCE($4, description),
			preview_length = COALESCE($5, preview_length),
			updated_at = NOW()
		WHERE article_id = $1
		RETURNING ` + paidContentColumns + `
	`

	pc, err := scanPaidContent(r.db.Pool.QueryRow(ctx, query,
		articleID,
		upd.Price,
		upd.Currency,
		upd.Description,
		upd.PreviewLength,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update paid content: %w", err)
	}

	return pc, nil
}

// DeactivatePaidContent disables the gate; reports whether a row matched
func (r *monetizationRepository) DeactivatePaidContent(ctx context.Context, articleID string) (bool, error) {
	query := `UPDATE paid_content SET is_active = FALSE, updated_at = NOW() WHERE article_id = $1`

	result, err := r.db.Pool.Exec(ctx, query, articleID)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate paid content: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// RecordPaidContentSale bumps purchase count and exact-decimal revenue
func (r *monetizationRepository) RecordPaidContentSale(ctx context.Context, articleID string, amount decimal.Decimal) error {
	query := `
		UPDATE paid_content
		SET total_purchases = total_purchases + 1,
			total_revenue = total_revenue + $2,
			updated_at = NOW()
		WHERE article_id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, articleID, amount)
	if err != nil {
		return fmt.Errorf("failed to record paid content sale: %w", err)
	}

	return nil
}

// PaidContentRevenueForArticles sums total_revenue across the given articles
func (r *monetizationRepository) PaidContentRevenueForArticles(ctx context.Context, articleIDs []string) (decimal.Decimal, error) {
	if len(articleIDs) == 0 {
		return decimal.Zero, nil
	}

	query := `
		SELECT COALESCE(SUM(total_revenue), 0)
		FROM paid_content
		WHERE article_id = ANY($1)
	`

	var total decimal.Decimal
	err := r.db.GetReadPool().QueryRow(ctx, query, articleIDs).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum paid content revenue: %w", err)
	}

	return total, nil
}

// InsertPurchase records a purchase of gated content
func (r *monetizationRepository) InsertPurchase(ctx context.Context, purchase *domain.Purchase) error {
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		purchase.ID,
		purchase.BuyerWallet,
		purchase.ArticleID,
		purchase.Amount,
		string(purchase.Currency),
		purchase.TransactionHash,
		string(purchase.Status),
		purchase.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert purchase: %w", err)
	}

	return nil
}

// ListPurchasesByBuyer returns a wallet's purchases, newest first
func (r *monetizationRepository) ListPurchasesByBuyer(ctx context.Context, wallet string, limit, offset int) ([]*domain.Purchase, error) {
	return r.listPurchases(ctx, "buyer_wallet", wallet, limit, offset)
}

// ListPurchasesByArticle returns purchases of one article, newest first
func (r *monetizationRepository) ListPurchasesByArticle(ctx context.Context, articleID string, limit, offset int) ([]*domain.Purchase, error) {
	return r.listPurchases(ctx, "article_id", articleID, limit, offset)
}

func (r *monetizationRepository) listPurchases(ctx context.Context, column, value string, limit, offset int) ([]*domain.Purchase, error) {
	query := fmt.Sprintf(`
		SELECT `+purchaseColumns+`
		FROM purchases
		WHERE %s = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, column)

	rows, err := r.db.GetReadPool().Query(ctx, query, value, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	var purchases []*domain.Purchase
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase row: %w", err)
		}
		purchases = append(purchases, purchase)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading purchase rows: %w", err)
	}

	return purchases, nil
}

// CountPurchasesByBuyer counts completed purchases by a wallet
func (r *monetizationRepository) CountPurchasesByBuyer(ctx context.Context, wallet string) (int64, error) {
	query := `SELECT COUNT(*) FROM purchases WHERE buyer_wallet = $1 AND status = 'completed'`

	var count int64
	err := r.db.GetReadPool().QueryRow(ctx, query, wallet).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count purchases: %w", err)
	}

	return count, nil
}

// InsertSubscription creates a subscription
func (r *monetizationRepository) InsertSubscription(ctx context.Context, sub *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		sub.ID,
		sub.SubscriberWallet,
		sub.AuthorWallet,
		sub.Amount,
		string(sub.Currency),
		string(sub.Interval),
		sub.NextBilling,
		sub.IsActive,
		sub.TotalPaid,
		sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert subscription: %w", err)
	}

	return nil
}

// GetActiveSubscription returns the active pair subscription, or nil
func (r *monetizationRepository) GetActiveSubscription(ctx context.Context, subscriberWallet, authorWallet string) (*domain.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE subscriber_wallet = $1 AND author_wallet = $2 AND is_active = TRUE
	`

	sub, err := scanSubscription(r.db.GetReadPool().QueryRow(ctx, query, subscriberWallet, authorWallet))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}

	return sub, nil
}

// ListActiveBySubscriber returns a wallet's active subscriptions
func (r *monetizationRepository) ListActiveBySubscriber(ctx context.Context, wallet string) ([]*domain.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE subscriber_wallet = $1 AND is_active = TRUE
		ORDER BY created_at DESC
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions by subscriber: %w", err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

// ListActiveByAuthor returns an author's active subscriber records
func (r *monetizationRepository) ListActiveByAuthor(ctx context.Context, wallet string, limit, offset int) ([]*domain.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE author_wallet = $1 AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, wallet, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions by author: %w", err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

// CancelSubscription deactivates by id and returns the row, nil when absent
func (r *monetizationRepository) CancelSubscription(ctx context.Context, id string) (*domain.Subscription, error) {
	query := `
		UPDATE subscriptions
		SET is_active = FALSE
		WHERE id = $1 AND is_active = TRUE
		RETURNING ` + subscriptionColumns + `
	`

	sub, err := scanSubscription(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}

	return sub, nil
}

// ActiveSubscriptionRollup sums total_paid over a wallet's active
// subscribers, returning the exact total and the subscriber count
func (r *monetizationRepository) ActiveSubscriptionRollup(ctx context.Context, authorWallet string) (decimal.Decimal, int64, error) {
	query := `
		SELECT COALESCE(SUM(total_paid), 0), COUNT(*)
		FROM subscriptions
		WHERE author_wallet = $1 AND is_active = TRUE
	`

	var total decimal.Decimal
	var count int64
	err := r.db.GetReadPool().QueryRow(ctx, query, authorWallet).Scan(&total, &count)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to roll up subscriptions: %w", err)
	}

	return total, count, nil
}

func scanTip(row rowScanner) (*domain.Tip, error) {
	tip := &domain.Tip{}
	var currency, status string

	err := row.Scan(
		&tip.ID,
		&tip.FromWallet,
		&tip.ToWallet,
		&tip.ArticleID,
		&tip.Amount,
		&currency,
		&tip.Message,
		&tip.TransactionHash,
		&status,
		&tip.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	tip.Currency = domain.Currency(currency)
	tip.Status = domain.PaymentStatus(status)
	return tip, nil
}

func scanPaidContent(row rowScanner) (*domain.PaidContent, error) {
	pc := &domain.PaidContent{}
	var currency string

	err := row.Scan(
		&pc.ID,
		&pc.ArticleID,
		&pc.Price,
		&currency,
		&pc.Description,
		&pc.PreviewLength,
		&pc.IsActive,
		&pc.TotalPurchases,
		&pc.TotalRevenue,
		&pc.CreatedAt,
		&pc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	pc.Currency = domain.Currency(currency)
	return pc, nil
}

func scanPurchase(row rowScanner) (*domain.Purchase, error) {
	purchase := &domain.Purchase{}
	var currency, status string

	err := row.Scan(
		&purchase.ID,
		&purchase.BuyerWallet,
		&purchase.ArticleID,
		&purchase.Amount,
		&currency,
		&purchase.TransactionHash,
		&status,
		&purchase.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	purchase.Currency = domain.Currency(currency)
	purchase.Status = domain.PaymentStatus(status)
	return purchase, nil
}

func scanSubscription(row rowScanner) (*domain.Subscription, error) {
	sub := &domain.Subscription{}
	var currency, interval string

	err := row.Scan(
		&sub.ID,
		&sub.SubscriberWallet,
		&sub.AuthorWallet,
		&sub.Amount,
		&currency,
		&interval,
		&sub.NextBilling,
		&sub.IsActive,
		&sub.TotalPaid,
		&sub.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	sub.Currency = domain.Currency(currency)
	sub.Interval = domain.BillingInterval(interval)
	return sub, nil
}

func collectSubscriptions(rows pgx.Rows) ([]*domain.Subscription, error) {
	var subs []*domain.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription row: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading subscription rows: %w", err)
	}

	return subs, nil
}
