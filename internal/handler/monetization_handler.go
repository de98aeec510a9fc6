package handler

import (
	"encoding/json"
	"net/http"

	"inkwell/internal/domain"
	"inkwell/internal/service"
	"inkwell/pkg/errors"
	"inkwell/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// MonetizationHandler handles tips, paid content, purchases, subscriptions
// and revenue HTTP requests
type MonetizationHandler struct {
	monetizationService service.MonetizationService
	logger              *logger.Logger
}

// NewMonetizationHandler creates a new monetization handler
func NewMonetizationHandler(monetizationService service.MonetizationService, logger *logger.Logger) *MonetizationHandler {
	return &MonetizationHandler{
		monetizationService: monetizationService,
		logger:              logger,
	}
}

// CreateTip handles POST /api/monetization/tips
func (h *MonetizationHandler) CreateTip(w http.ResponseWriter, r *http.Request) {
	var input domain.TipInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	tip, err := h.monetizationService.CreateTip(r.Context(), &input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusCreated, tip)
}

// GetTipsReceived handles GET /api/monetization/tips/received/{wallet}
func (h *MonetizationHandler) GetTipsReceived(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	tips, err := h.monetizationService.GetTipsReceived(r.Context(), chi.URLParam(r, "wallet"), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if tips == nil {
		tips = []*domain.Tip{}
	}

	writeData(w, h.logger, http.StatusOK, tips)
}

// GetTipsSent handles GET /api/monetization/tips/sent/{wallet}
func (h *MonetizationHandler) GetTipsSent(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	tips, err := h.monetizationService.GetTipsSent(r.Context(), chi.URLParam(r, "wallet"), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if tips == nil {
		tips = []*domain.Tip{}
	}

	writeData(w, h.logger, http.StatusOK, tips)
}

// CreatePaidContent handles POST /api/monetization/paid-content
func (h *MonetizationHandler) CreatePaidContent(w http.ResponseWriter, r *http.Request) {
	var input domain.PaidContentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	pc, err := h.monetizationService.CreatePaidContent(r.Context(), &input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusCreated, pc)
}

// GetPaidContent handles GET /api/monetization/paid-content/{articleID}
func (h *MonetizationHandler) GetPaidContent(w http.ResponseWriter, r *http.Request) {
	pc, err := h.monetizationService.GetPaidContent(r.Context(), chi.URLParam(r, "articleID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, pc)
}

// UpdatePaidContent handles PUT /api/monetization/paid-content/{articleID}
func (h *MonetizationHandler) UpdatePaidContent(w http.ResponseWriter, r *http.Request) {
	var upd domain.PaidContentUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	pc, err := h.monetizationService.UpdatePaidContent(r.Context(), chi.URLParam(r, "articleID"), &upd)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, pc)
}

// RemovePaidContent handles DELETE /api/monetization/paid-content/{articleID}
func (h *MonetizationHandler) RemovePaidContent(w http.ResponseWriter, r *http.Request) {
	articleID := chi.URLParam(r, "articleID")
	if err := h.monetizationService.RemovePaidContent(r.Context(), articleID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, map[string]string{"article_id": articleID})
}

// RecordPurchase handles POST /api/monetization/purchases
func (h *MonetizationHandler) RecordPurchase(w http.ResponseWriter, r *http.Request) {
	var input domain.PurchaseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	purchase, err := h.monetizationService.RecordPurchase(r.Context(), &input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusCreated, purchase)
}

// GetPurchasesByBuyer handles GET /api/monetization/purchases/{wallet}
func (h *MonetizationHandler) GetPurchasesByBuyer(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	purchases, err := h.monetizationService.GetPurchasesByBuyer(r.Context(), chi.URLParam(r, "wallet"), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if purchases == nil {
		purchases = []*domain.Purchase{}
	}

	writeData(w, h.logger, http.StatusOK, purchases)
}

// GetPurchasesByArticle handles GET /api/monetization/purchases/article/{articleID}
func (h *MonetizationHandler) GetPurchasesByArticle(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	purchases, err := h.monetizationService.GetPurchasesByArticle(r.Context(), chi.URLParam(r, "articleID"), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if purchases == nil {
		purchases = []*domain.Purchase{}
	}

	writeData(w, h.logger, http.StatusOK, purchases)
}

// Subscribe handles POST /api/monetization/subscriptions
func (h *MonetizationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var input domain.SubscriptionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	sub, err := h.monetizationService.Subscribe(r.Context(), &input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusCreated, sub)
}

// GetSubscriptionsBySubscriber handles GET /api/monetization/subscriptions/subscriber/{wallet}
func (h *MonetizationHandler) GetSubscriptionsBySubscriber(w http.ResponseWriter, r *http.Request) {
	subs, err := h.monetizationService.GetSubscriptionsBySubscriber(r.Context(), chi.URLParam(r, "wallet"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if subs == nil {
		subs = []*domain.Subscription{}
	}

	writeData(w, h.logger, http.StatusOK, subs)
}

// GetSubscribersByAuthor handles GET /api/monetization/subscriptions/author/{wallet}
func (h *MonetizationHandler) GetSubscribersByAuthor(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	subs, err := h.monetizationService.GetSubscribersByAuthor(r.Context(), chi.URLParam(r, "wallet"), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if subs == nil {
		subs = []*domain.Subscription{}
	}

	writeData(w, h.logger, http.StatusOK, subs)
}

// CancelSubscription handles DELETE /api/monetization/subscriptions/{subscriptionID}
func (h *MonetizationHandler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.monetizationService.CancelSubscription(r.Context(), chi.URLParam(r, "subscriptionID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, sub)
}

// GetRevenueStats handles GET /api/monetization/revenue/{wallet}
func (h *MonetizationHandler) GetRevenueStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.monetizationService.GetRevenueStats(r.Context(), chi.URLParam(r, "wallet"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, stats)
}
