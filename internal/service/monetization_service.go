package service

import (
	"context"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/repository"
	"inkwell/pkg/errors"
	"inkwell/pkg/logger"

	"github.com/google/uuid"
)

// RevenueTipCap bounds how many received tips feed the revenue rollup
const RevenueTipCap = 1000

// monetizationService manages tips, gated content, purchases and
// subscriptions. All money amounts are exact decimals end to end.
type monetizationService struct {
	monetizationRepo repository.MonetizationRepository
	articleRepo      repository.ArticleRepository
	authorRepo       repository.AuthorRepository
	logger           *logger.Logger
}

// NewMonetizationService creates a new monetization service
func NewMonetizationService(
	monetizationRepo repository.MonetizationRepository,
	articleRepo repository.ArticleRepository,
	authorRepo repository.AuthorRepository,
	logger *logger.Logger,
) MonetizationService {
	return &monetizationService{
		monetizationRepo: monetizationRepo,
		articleRepo:      articleRepo,
		authorRepo:       authorRepo,
		logger:           logger,
	}
}

// CreateTip validates and records a wallet-to-wallet tip
func (s *monetizationService) CreateTip(ctx context.Context, input *domain.TipInput) (*domain.Tip, error) {
	if input.FromWallet == "" || input.ToWallet == "" {
		return nil, errors.NewValidationError("from_wallet and to_wallet are required", nil)
	}
	if input.FromWallet == input.ToWallet {
		return nil, errors.NewValidationError("cannot tip yourself", nil)
	}
	if input.Amount.LessThan(domain.MinPaymentAmount) {
		return nil, errors.NewValidationError("amount below minimum", map[string]interface{}{
			"minimum": domain.MinPaymentAmount.String(),
		})
	}

	currency, err := domain.ParseCurrency(input.Currency)
	if err != nil {
		return nil, errors.NewValidationError("invalid currency", map[string]interface{}{
			"currency": input.Currency,
		})
	}

	if input.ArticleID != "" {
		article, err := s.articleRepo.GetByID(ctx, input.ArticleID)
		if err != nil {
			return nil, errors.NewInternalError("failed to load article", err)
		}
		if article == nil {
			return nil, errors.NewNotFoundError("article not found")
		}
	}

	tip := &domain.Tip{
		ID:         uuid.New().String(),
		FromWallet: input.FromWallet,
		ToWallet:   input.ToWallet,
		ArticleID:  input.ArticleID,
		Amount:     input.Amount,
		Currency:   currency,
		Message:    input.Message,
		Status:     domain.PaymentCompleted,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.monetizationRepo.InsertTip(ctx, tip); err != nil {
		return nil, errors.NewInternalError("failed to record tip", err)
	}

	return tip, nil
}

// GetTipsReceived lists tips received by a wallet, newest first
func (s *monetizationService) GetTipsReceived(ctx context.Context, wallet string, limit, offset int) ([]*domain.Tip, error) {
	if wallet == "" {
		return nil, errors.NewValidationError("wallet is required", nil)
	}

	tips, err := s.monetizationRepo.ListTipsReceived(ctx, wallet, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewInternalError("failed to list received tips", err)
	}

	return tips, nil
}

// GetTipsSent lists tips sent by a wallet, newest first
func (s *monetizationService) GetTipsSent(ctx context.Context, wallet string, limit, offset int) ([]*domain.Tip, error) {
	if wallet == "" {
		return nil, errors.NewValidationError("wallet is required", nil)
	}

	tips, err := s.monetizationRepo.ListTipsSent(ctx, wallet, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewInternalError("failed to list sent tips", err)
	}

	return tips, nil
}

// CreatePaidContent gates an article behind a price; one gate per article
func (s *monetizationService) CreatePaidContent(ctx context.Context, input *domain.PaidContentInput) (*domain.PaidContent, error) {
	if input.ArticleID == "" {
		return nil, errors.NewValidationError("article_id is required", nil)
	}
	if input.Price.LessThan(domain.MinPaymentAmount) {
		return nil, errors.NewValidationError("price below minimum", map[string]interface{}{
			"minimum": domain.MinPaymentAmount.String(),
		})
	}

	currency, err := domain.ParseCurrency(input.Currency)
	if err != nil {
		return nil, errors.NewValidationError("invalid currency", map[string]interface{}{
			"currency": input.Currency,
		})
	}

	article, err := s.articleRepo.GetByID(ctx, input.ArticleID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load article", err)
	}
	if article == nil {
		return nil, errors.NewNotFoundError("article not found")
	}

	existing, err := s.monetizationRepo.GetPaidContent(ctx, input.ArticleID, false)
	if err != nil {
		return nil, errors.NewInternalError("failed to check existing gate", err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("article already has paid content configured")
	}

	now := time.Now().UTC()
	pc := &domain.PaidContent{
		ID:            uuid.New().String(),
		ArticleID:     input.ArticleID,
		Price:         input.Price,
		Currency:      currency,
		Description:   input.Description,
		PreviewLength: input.PreviewLength,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.monetizationRepo.InsertPaidContent(ctx, pc); err != nil {
		return nil, errors.NewInternalError("failed to create paid content", err)
	}

	return pc, nil
}

// GetPaidContent returns the active gate for an article
func (s *monetizationService) GetPaidContent(ctx context.Context, articleID string) (*domain.PaidContent, error) {
	if articleID == "" {
		return nil, errors.NewValidationError("article_id is required", nil)
	}

	pc, err := s.monetizationRepo.GetPaidContent(ctx, articleID, true)
	if err != nil {
		return nil, errors.NewInternalError("failed to load paid content", err)
	}
	if pc == nil {
		return nil, errors.NewNotFoundError("no paid content for this article")
	}

	return pc, nil
}

// UpdatePaidContent applies a partial update to a gate
func (s *monetizationService) UpdatePaidContent(ctx context.Context, articleID string, upd *domain.PaidContentUpdate) (*domain.PaidContent, error) {
	if articleID == "" {
		return nil, errors.NewValidationError("article_id is required", nil)
	}
	if upd.Price != nil && upd.Price.LessThan(domain.MinPaymentAmount) {
		return nil, errors.NewValidationError("price below minimum", map[string]interface{}{
			"minimum": domain.MinPaymentAmount.String(),
		})
	}
	if upd.Currency != nil {
		if _, err := domain.ParseCurrency(*upd.Currency); err != nil {
			return nil, errors.NewValidationError("invalid currency", map[string]interface{}{
				"currency": *upd.Currency,
			})
		}
	}

	pc, err := s.monetizationRepo.UpdatePaidContent(ctx, articleID, upd)
	if err != nil {
		return nil, errors.NewInternalError("failed to update paid content", err)
	}
	if pc == nil {
		return nil, errors.NewNotFoundError("no paid content for this article")
	}

	return pc, nil
}

// RemovePaidContent deactivates a gate; the sales history stays
func (s *monetizationService) RemovePaidContent(ctx context.Context, articleID string) error {
	if articleID == "" {
		return errors.NewValidationError("article_id is required", nil)
	}

	removed, err := s.monetizationRepo.DeactivatePaidContent(ctx, articleID)
	if err != nil {
		return errors.NewInternalError("failed to deactivate paid content", err)
	}
	if !removed {
		return errors.NewNotFoundError("no paid content for this article")
	}

	return nil
}

// RecordPurchase validates against the gate price and records the sale
func (s *monetizationService) RecordPurchase(ctx context.Context, input *domain.PurchaseInput) (*domain.Purchase, error) {
	if input.BuyerWallet == "" {
		return nil, errors.NewValidationError("buyer_wallet is required", nil)
	}
	if input.ArticleID == "" {
		return nil, errors.NewValidationError("article_id is required", nil)
	}

	currency, err := domain.ParseCurrency(input.Currency)
	if err != nil {
		return nil, errors.NewValidationError("invalid currency", map[string]interface{}{
			"currency": input.Currency,
		})
	}

	pc, err := s.monetizationRepo.GetPaidContent(ctx, input.ArticleID, true)
	if err != nil {
		return nil, errors.NewInternalError("failed to load paid content", err)
	}
	if pc == nil {
		return nil, errors.NewNotFoundError("no active paid content for this article")
	}

	if input.Amount.LessThan(pc.Price) {
		return nil, errors.NewValidationError("amount below the content price", map[string]interface{}{
			"price": pc.Price.String(),
		})
	}

	purchase := &domain.Purchase{
		ID:          uuid.New().String(),
		BuyerWallet: input.BuyerWallet,
		ArticleID:   input.ArticleID,
		Amount:      input.Amount,
		Currency:    currency,
		Status:      domain.PaymentCompleted,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.monetizationRepo.InsertPurchase(ctx, purchase); err != nil {
		return nil, errors.NewInternalError("failed to record purchase", err)
	}

	if err := s.monetizationRepo.RecordPaidContentSale(ctx, input.ArticleID, input.Amount); err != nil {
		s.logger.WithError(err).WithField("article_id", input.ArticleID).Warn("Purchase recorded but gate counters update failed")
	}

	return purchase, nil
}

// GetPurchasesByBuyer lists a wallet's purchases, newest first
func (s *monetizationService) GetPurchasesByBuyer(ctx context.Context, wallet string, limit, offset int) ([]*domain.Purchase, error) {
	if wallet == "" {
		return nil, errors.NewValidationError("wallet is required", nil)
	}

	purchases, err := s.monetizationRepo.ListPurchasesByBuyer(ctx, wallet, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewInternalError("failed to list purchases", err)
	}

	return purchases, nil
}

// GetPurchasesByArticle lists purchases of one article, newest first
func (s *monetizationService) GetPurchasesByArticle(ctx context.Context, articleID string, limit, offset int) ([]*domain.Purchase, error) {
	if articleID == "" {
		return nil, errors.NewValidationError("article_id is required", nil)
	}

	purchases, err := s.monetizationRepo.ListPurchasesByArticle(ctx, articleID, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewInternalError("failed to list article purchases", err)
	}

	return purchases, nil
}

// Subscribe creates a subscription; one active per (subscriber, author) pair
func (s *monetizationService) Subscribe(ctx context.Context, input *domain.SubscriptionInput) (*domain.Subscription, error) {
	if input.SubscriberWallet == "" || input.AuthorWallet == "" {
		return nil, errors.NewValidationError("subscriber_wallet and author_wallet are required", nil)
	}
	if input.SubscriberWallet == input.AuthorWallet {
		return nil, errors.NewValidationError("cannot subscribe to yourself", nil)
	}
	if input.Amount.LessThan(domain.MinPaymentAmount) {
		return nil, errors.NewValidationError("amount below minimum", map[string]interface{}{
			"minimum": domain.MinPaymentAmount.String(),
		})
	}

	currency, err := domain.ParseCurrency(input.Currency)
	if err != nil {
		return nil, errors.NewValidationError("invalid currency", map[string]interface{}{
			"currency": input.Currency,
		})
	}

	interval, err := domain.ParseBillingInterval(input.Interval)
	if err != nil {
		return nil, errors.NewValidationError("invalid interval", map[string]interface{}{
			"interval": input.Interval,
		})
	}

	existing, err := s.monetizationRepo.GetActiveSubscription(ctx, input.SubscriberWallet, input.AuthorWallet)
	if err != nil {
		return nil, errors.NewInternalError("failed to check existing subscription", err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("already subscribed to this author")
	}

	now := time.Now().UTC()
	nextBilling := now.AddDate(0, 0, 30)
	if interval == domain.IntervalYearly {
		nextBilling = now.AddDate(0, 0, 365)
	}

	sub := &domain.Subscription{
		ID:               uuid.New().String(),
		SubscriberWallet: input.SubscriberWallet,
		AuthorWallet:     input.AuthorWallet,
		Amount:           input.Amount,
		Currency:         currency,
		Interval:         interval,
		NextBilling:      nextBilling,
		IsActive:         true,
		TotalPaid:        input.Amount, // first period paid up front
		CreatedAt:        now,
	}

	if err := s.monetizationRepo.InsertSubscription(ctx, sub); err != nil {
		return nil, errors.NewInternalError("failed to create subscription", err)
	}

	if err := s.authorRepo.IncrementActiveSubscribers(ctx, input.AuthorWallet, 1); err != nil {
		s.logger.WithError(err).WithField("wallet", input.AuthorWallet).Warn("Subscription created but author counter update failed")
	}

	return sub, nil
}

// GetSubscriptionsBySubscriber lists a wallet's active subscriptions
func (s *monetizationService) GetSubscriptionsBySubscriber(ctx context.Context, wallet string) ([]*domain.Subscription, error) {
	if wallet == "" {
		return nil, errors.NewValidationError("wallet is required", nil)
	}

	subs, err := s.monetizationRepo.ListActiveBySubscriber(ctx, wallet)
	if err != nil {
		return nil, errors.NewInternalError("failed to list subscriptions", err)
	}

	return subs, nil
}

// GetSubscribersByAuthor lists an author's active subscriber records
func (s *monetizationService) GetSubscribersByAuthor(ctx context.Context, wallet string, limit, offset int) ([]*domain.Subscription, error) {
	if wallet == "" {
		return nil, errors.NewValidationError("wallet is required", nil)
	}

	subs, err := s.monetizationRepo.ListActiveByAuthor(ctx, wallet, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewInternalError("failed to list subscribers", err)
	}

	return subs, nil
}

// CancelSubscription deactivates a subscription and decrements the author's
// subscriber counter
func (s *monetizationService) CancelSubscription(ctx context.Context, id string) (*domain.Subscription, error) {
	if id == "" {
		return nil, errors.NewValidationError("subscription id is required", nil)
	}

	sub, err := s.monetizationRepo.CancelSubscription(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to cancel subscription", err)
	}
	if sub == nil {
		return nil, errors.NewNotFoundError("active subscription not found")
	}

	if err := s.authorRepo.IncrementActiveSubscribers(ctx, sub.AuthorWallet, -1); err != nil {
		s.logger.WithError(err).WithField("wallet", sub.AuthorWallet).Warn("Subscription cancelled but author counter update failed")
	}

	return sub, nil
}

// GetRevenueStats computes the exact-decimal revenue breakdown for a wallet:
// tips received, paid-content revenue on the tipped articles, and active
// subscription totals, plus the wallet's own purchase count.
func (s *monetizationService) GetRevenueStats(ctx context.Context, wallet string) (*domain.RevenueStats, error) {
	if wallet == "" {
		return nil, errors.NewValidationError("wallet is required", nil)
	}

	tipTotal, tipCount, articleIDs, err := s.monetizationRepo.TipsReceivedRollup(ctx, wallet, RevenueTipCap)
	if err != nil {
		return nil, errors.NewInternalError("failed to roll up tips", err)
	}

	paidContentRevenue, err := s.monetizationRepo.PaidContentRevenueForArticles(ctx, articleIDs)
	if err != nil {
		return nil, errors.NewInternalError("failed to roll up paid content revenue", err)
	}

	subscriptionRevenue, activeSubscribers, err := s.monetizationRepo.ActiveSubscriptionRollup(ctx, wallet)
	if err != nil {
		return nil, errors.NewInternalError("failed to roll up subscriptions", err)
	}

	purchaseCount, err := s.monetizationRepo.CountPurchasesByBuyer(ctx, wallet)
	if err != nil {
		return nil, errors.NewInternalError("failed to count purchases", err)
	}

	return &domain.RevenueStats{
		TotalTipsReceived:        tipTotal,
		TotalPaidContentRevenue:  paidContentRevenue,
		TotalSubscriptionRevenue: subscriptionRevenue,
		TotalRevenue:             tipTotal.Add(paidContentRevenue).Add(subscriptionRevenue),
		TipsCount:                tipCount,
		PurchasesCount:           purchaseCount,
		ActiveSubscribers:        activeSubscribers,
	}, nil
}
