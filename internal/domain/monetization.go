package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Currency is the closed set of accepted payment currencies
type Currency string

const (
	CurrencyETH   Currency = "ETH"
	CurrencyMATIC Currency = "MATIC"
	CurrencyUSDC  Currency = "USDC"
)

// ParseCurrency validates and converts a raw string into a Currency
func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case CurrencyETH, CurrencyMATIC, CurrencyUSDC:
		return Currency(s), nil
	}
	return "", fmt.Errorf("unknown currency %q", s)
}

// PaymentStatus tracks settlement of an on-chain payment
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// BillingInterval is the closed set of subscription intervals
type BillingInterval string

const (
	IntervalMonthly BillingInterval = "monthly"
	IntervalYearly  BillingInterval = "yearly"
)

// ParseBillingInterval validates and converts a raw string into a BillingInterval
func ParseBillingInterval(s string) (BillingInterval, error) {
	switch BillingInterval(s) {
	case IntervalMonthly, IntervalYearly:
		return BillingInterval(s), nil
	}
	return "", fmt.Errorf("unknown billing interval %q", s)
}

// MinPaymentAmount is the smallest accepted tip, price or purchase amount
var MinPaymentAmount = decimal.RequireFromString("0.0001")

// Tip is a direct wallet-to-wallet payment, optionally tied to an article
type Tip struct {
	ID              string          `json:"id"`
	FromWallet      string          `json:"from_wallet"`
	ToWallet        string          `json:"to_wallet"`
	ArticleID       string          `json:"article_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        Currency        `json:"currency"`
	Message         string          `json:"message,omitempty"`
	TransactionHash string          `json:"transaction_hash,omitempty"`
	Status          PaymentStatus   `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TipInput is the payload for creating a tip
type TipInput struct {
	FromWallet string          `json:"from_wallet"`
	ToWallet   string          `json:"to_wallet"`
	ArticleID  string          `json:"article_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Message    string          `json:"message,omitempty"`
}

// PaidContent gates an article behind a price; at most one per article
type PaidContent struct {
	ID             string          `json:"id"`
	ArticleID      string          `json:"article_id"`
	Price          decimal.Decimal `json:"price"`
	Currency       Currency        `json:"currency"`
	Description    string          `json:"description,omitempty"`
	PreviewLength  int             `json:"preview_length"` // characters shown for free
	IsActive       bool            `json:"is_active"`
	TotalPurchases int64           `json:"total_purchases"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PaidContentInput is the payload for gating an article
type PaidContentInput struct {
	ArticleID     string          `json:"article_id"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	Description   string          `json:"description,omitempty"`
	PreviewLength int             `json:"preview_length"`
}

// PaidContentUpdate carries partial updates; nil fields are untouched
type PaidContentUpdate struct {
	Price         *decimal.Decimal `json:"price,omitempty"`
	Currency      *string          `json:"currency,omitempty"`
	Description   *string          `json:"description,omitempty"`
	PreviewLength *int             `json:"preview_length,omitempty"`
}

// Purchase records a one-off purchase of gated content
type Purchase struct {
	ID              string          `json:"id"`
	BuyerWallet     string          `json:"buyer_wallet"`
	ArticleID       string          `json:"article_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        Currency        `json:"currency"`
	TransactionHash string          `json:"transaction_hash,omitempty"`
	Status          PaymentStatus   `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PurchaseInput is the payload for recording a purchase
type PurchaseInput struct {
	BuyerWallet string          `json:"buyer_wallet"`
	ArticleID   string          `json:"article_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

// Subscription is a recurring payment from a subscriber to an author.
// At most one active subscription per (subscriber, author) pair.
type Subscription struct {
	ID               string          `json:"id"`
	SubscriberWallet string          `json:"subscriber_wallet"`
	AuthorWallet     string          `json:"author_wallet"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         Currency        `json:"currency"`
	Interval         BillingInterval `json:"interval"`
	NextBilling      time.Time       `json:"next_billing"`
	IsActive         bool            `json:"is_active"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	CreatedAt        time.Time       `json:"created_at"`
}

// SubscriptionInput is the payload for creating a subscription
type SubscriptionInput struct {
	SubscriberWallet string          `json:"subscriber_wallet"`
	AuthorWallet     string          `json:"author_wallet"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Interval         string          `json:"interval"`
}
