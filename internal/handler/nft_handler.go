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

// NFTHandler handles NFT, marketplace and collection HTTP requests
type NFTHandler struct {
	nftService service.NFTService
	logger     *logger.Logger
}

// NewNFTHandler creates a new NFT handler
func NewNFTHandler(nftService service.NFTService, logger *logger.Logger) *NFTHandler {
	return &NFTHandler{
		nftService: nftService,
		logger:     logger,
	}
}

// Create handles POST /api/nft
func (h *NFTHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.NFTInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	nft, err := h.nftService.Create(r.Context(), &input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusCreated, nft)
}

// Get handles GET /api/nft/{nftID}
func (h *NFTHandler) Get(w http.ResponseWriter, r *http.Request) {
	nft, err := h.nftService.Get(r.Context(), chi.URLParam(r, "nftID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, nft)
}

// GetByArticle handles GET /api/nft/article/{articleID}
func (h *NFTHandler) GetByArticle(w http.ResponseWriter, r *http.Request) {
	nft, err := h.nftService.GetByArticle(r.Context(), chi.URLParam(r, "articleID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, nft)
}

// Update handles PUT /api/nft/{nftID}
func (h *NFTHandler) Update(w http.ResponseWriter, r *http.Request) {
	var upd domain.NFTUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	nft, err := h.nftService.Update(r.Context(), chi.URLParam(r, "nftID"), &upd)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, nft)
}

// Mint handles POST /api/nft/{nftID}/mint
func (h *NFTHandler) Mint(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TransactionHash string `json:"transaction_hash"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	nft, err := h.nftService.Mint(r.Context(), chi.URLParam(r, "nftID"), body.TransactionHash)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, nft)
}

// GetListed handles GET /api/nft/marketplace/listed
func (h *NFTHandler) GetListed(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	nfts, err := h.nftService.GetListed(r.Context(), limit, offset,
		r.URL.Query().Get("min_price"), r.URL.Query().Get("max_price"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if nfts == nil {
		nfts = []*domain.NFT{}
	}

	writeData(w, h.logger, http.StatusOK, nfts)
}

// GetByCreator handles GET /api/nft/marketplace/creator/{wallet}
func (h *NFTHandler) GetByCreator(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	nfts, err := h.nftService.GetByCreator(r.Context(), chi.URLParam(r, "wallet"), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if nfts == nil {
		nfts = []*domain.NFT{}
	}

	writeData(w, h.logger, http.StatusOK, nfts)
}

// List handles POST /api/nft/marketplace/list/{nftID}
func (h *NFTHandler) List(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Price    string `json:"price"`
		Currency string `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	nft, err := h.nftService.List(r.Context(), chi.URLParam(r, "nftID"), body.Price, body.Currency)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, nft)
}

// Unlist handles POST /api/nft/marketplace/unlist/{nftID}
func (h *NFTHandler) Unlist(w http.ResponseWriter, r *http.Request) {
	nft, err := h.nftService.Unlist(r.Context(), chi.URLParam(r, "nftID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, nft)
}

// RecordSale handles POST /api/nft/sales
func (h *NFTHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var input domain.NFTSaleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	sale, err := h.nftService.RecordSale(r.Context(), &input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusCreated, sale)
}

// GetSales handles GET /api/nft/sales/{nftID}
func (h *NFTHandler) GetSales(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	sales, err := h.nftService.GetSales(r.Context(), chi.URLParam(r, "nftID"), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if sales == nil {
		sales = []*domain.NFTSale{}
	}

	writeData(w, h.logger, http.StatusOK, sales)
}

// GetSalesByWallet handles GET /api/nft/sales/user/{wallet}
func (h *NFTHandler) GetSalesByWallet(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	sales, err := h.nftService.GetSalesByWallet(r.Context(), chi.URLParam(r, "wallet"), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if sales == nil {
		sales = []*domain.NFTSale{}
	}

	writeData(w, h.logger, http.StatusOK, sales)
}

// CreateCollection handles POST /api/nft/collections
func (h *NFTHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var input domain.NFTCollectionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	collection, err := h.nftService.CreateCollection(r.Context(), &input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusCreated, collection)
}

// GetCollection handles GET /api/nft/collections/{collectionID}
func (h *NFTHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	collection, err := h.nftService.GetCollection(r.Context(), chi.URLParam(r, "collectionID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, collection)
}

// GetCollections handles GET /api/nft/collections
func (h *NFTHandler) GetCollections(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	collections, err := h.nftService.GetCollections(r.Context(), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if collections == nil {
		collections = []*domain.NFTCollection{}
	}

	writeData(w, h.logger, http.StatusOK, collections)
}

// GetCollectionsByCreator handles GET /api/nft/collections/creator/{wallet}
func (h *NFTHandler) GetCollectionsByCreator(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	collections, err := h.nftService.GetCollectionsByCreator(r.Context(), chi.URLParam(r, "wallet"), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if collections == nil {
		collections = []*domain.NFTCollection{}
	}

	writeData(w, h.logger, http.StatusOK, collections)
}

// GetGlobalStats handles GET /api/nft/stats/global
func (h *NFTHandler) GetGlobalStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.nftService.GetGlobalStats(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, stats)
}

// GetCreatorStats handles GET /api/nft/stats/creator/{wallet}
func (h *NFTHandler) GetCreatorStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.nftService.GetCreatorStats(r.Context(), chi.URLParam(r, "wallet"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeData(w, h.logger, http.StatusOK, stats)
}
