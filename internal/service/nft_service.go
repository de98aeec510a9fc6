package service

import (
	"context"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/repository"
	"inkwell/pkg/errors"
	"inkwell/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// nftService manages article NFTs, the marketplace and collections. Chain
// interaction happens client-side; this service only records state.
type nftService struct {
	nftRepo     repository.NFTRepository
	articleRepo repository.ArticleRepository
	logger      *logger.Logger
}

// NewNFTService creates a new NFT service
func NewNFTService(nftRepo repository.NFTRepository, articleRepo repository.ArticleRepository, logger *logger.Logger) NFTService {
	return &nftService{
		nftRepo:     nftRepo,
		articleRepo: articleRepo,
		logger:      logger,
	}
}

// Create ties a new NFT to an article; one NFT per article
func (s *nftService) Create(ctx context.Context, input *domain.NFTInput) (*domain.NFT, error) {
	if input.ArticleID == "" {
		return nil, errors.NewValidationError("article_id is required", nil)
	}
	if input.CreatorWallet == "" {
		return nil, errors.NewValidationError("creator_wallet is required", nil)
	}
	if input.Supply < 1 {
		return nil, errors.NewValidationError("supply must be at least 1", nil)
	}
	if input.RoyaltyPercentage < 0 || input.RoyaltyPercentage > 50 {
		return nil, errors.NewValidationError("royalty_percentage must be between 0 and 50", nil)
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

	existing, err := s.nftRepo.GetByArticle(ctx, input.ArticleID)
	if err != nil {
		return nil, errors.NewInternalError("failed to check existing nft", err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("article already has an NFT")
	}

	now := time.Now().UTC()
	nft := &domain.NFT{
		ID:                uuid.New().String(),
		ArticleID:         input.ArticleID,
		ChainID:           input.ChainID,
		Metadata:          input.Metadata,
		CreatorWallet:     input.CreatorWallet,
		Supply:            input.Supply,
		Price:             input.Price,
		Currency:          currency,
		RoyaltyPercentage: input.RoyaltyPercentage,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.nftRepo.Insert(ctx, nft); err != nil {
		return nil, errors.NewInternalError("failed to create nft", err)
	}

	return nft, nil
}

// Get returns an NFT by id
func (s *nftService) Get(ctx context.Context, id string) (*domain.NFT, error) {
	if id == "" {
		return nil, errors.NewValidationError("nft id is required", nil)
	}

	nft, err := s.nftRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load nft", err)
	}
	if nft == nil {
		return nil, errors.NewNotFoundError("nft not found")
	}

	return nft, nil
}

// GetByArticle returns the NFT tied to an article
func (s *nftService) GetByArticle(ctx context.Context, articleID string) (*domain.NFT, error) {
	if articleID == "" {
		return nil, errors.NewValidationError("article_id is required", nil)
	}

	nft, err := s.nftRepo.GetByArticle(ctx, articleID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load nft", err)
	}
	if nft == nil {
		return nil, errors.NewNotFoundError("no nft for this article")
	}

	return nft, nil
}

// Update applies a partial update to price, currency or listing state
func (s *nftService) Update(ctx context.Context, id string, upd *domain.NFTUpdate) (*domain.NFT, error) {
	if id == "" {
		return nil, errors.NewValidationError("nft id is required", nil)
	}
	if upd.Currency != nil {
		if _, err := domain.ParseCurrency(*upd.Currency); err != nil {
			return nil, errors.NewValidationError("invalid currency", map[string]interface{}{
				"currency": *upd.Currency,
			})
		}
	}

	nft, err := s.nftRepo.Update(ctx, id, upd)
	if err != nil {
		return nil, errors.NewInternalError("failed to update nft", err)
	}
	if nft == nil {
		return nil, errors.NewNotFoundError("nft not found")
	}

	return nft, nil
}

// Mint records the on-chain mint transaction; minting twice is rejected
func (s *nftService) Mint(ctx context.Context, id, txHash string) (*domain.NFT, error) {
	if id == "" || txHash == "" {
		return nil, errors.NewValidationError("nft id and transaction hash are required", nil)
	}

	minted, err := s.nftRepo.MarkMinted(ctx, id, txHash)
	if err != nil {
		return nil, errors.NewInternalError("failed to mark nft minted", err)
	}
	if !minted {
		nft, err := s.nftRepo.GetByID(ctx, id)
		if err != nil {
			return nil, errors.NewInternalError("failed to load nft", err)
		}
		if nft == nil {
			return nil, errors.NewNotFoundError("nft not found")
		}
		return nil, errors.NewConflictError("nft already minted")
	}

	return s.Get(ctx, id)
}

// GetListed returns listed NFTs with optional price bounds
func (s *nftService) GetListed(ctx context.Context, limit, offset int, minPrice, maxPrice string) ([]*domain.NFT, error) {
	min, err := parseOptionalDecimal(minPrice)
	if err != nil {
		return nil, errors.NewValidationError("invalid min_price", nil)
	}
	max, err := parseOptionalDecimal(maxPrice)
	if err != nil {
		return nil, errors.NewValidationError("invalid max_price", nil)
	}

	nfts, err := s.nftRepo.ListListed(ctx, normalizeLimit(limit), offset, min, max)
	if err != nil {
		return nil, errors.NewInternalError("failed to list marketplace nfts", err)
	}

	return nfts, nil
}

// GetByCreator returns a creator's NFTs, newest first
func (s *nftService) GetByCreator(ctx context.Context, wallet string, limit, offset int) ([]*domain.NFT, error) {
	if wallet == "" {
		return nil, errors.NewValidationError("wallet is required", nil)
	}

	nfts, err := s.nftRepo.ListByCreator(ctx, wallet, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewInternalError("failed to list creator nfts", err)
	}

	return nfts, nil
}

// List puts an NFT on the marketplace, optionally repricing it. Unminted
// NFTs cannot be listed.
func (s *nftService) List(ctx context.Context, id string, price string, currency string) (*domain.NFT, error) {
	if id == "" {
		return nil, errors.NewValidationError("nft id is required", nil)
	}

	nft, err := s.nftRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load nft", err)
	}
	if nft == nil {
		return nil, errors.NewNotFoundError("nft not found")
	}
	if !nft.IsMinted {
		return nil, errors.NewValidationError("nft must be minted before listing", nil)
	}

	priceArg, err := parseOptionalDecimal(price)
	if err != nil {
		return nil, errors.NewValidationError("invalid price", nil)
	}
	if priceArg != nil && priceArg.LessThan(domain.MinPaymentAmount) {
		return nil, errors.NewValidationError("price below minimum", map[string]interface{}{
			"minimum": domain.MinPaymentAmount.String(),
		})
	}

	var currencyArg *domain.Currency
	if currency != "" {
		parsed, err := domain.ParseCurrency(currency)
		if err != nil {
			return nil, errors.NewValidationError("invalid currency", map[string]interface{}{
				"currency": currency,
			})
		}
		currencyArg = &parsed
	}

	if _, err := s.nftRepo.SetListing(ctx, id, true, priceArg, currencyArg); err != nil {
		return nil, errors.NewInternalError("failed to list nft", err)
	}

	return s.Get(ctx, id)
}

// Unlist removes an NFT from the marketplace
func (s *nftService) Unlist(ctx context.Context, id string) (*domain.NFT, error) {
	if id == "" {
		return nil, errors.NewValidationError("nft id is required", nil)
	}

	matched, err := s.nftRepo.SetListing(ctx, id, false, nil, nil)
	if err != nil {
		return nil, errors.NewInternalError("failed to unlist nft", err)
	}
	if !matched {
		return nil, errors.NewNotFoundError("nft not found")
	}

	return s.Get(ctx, id)
}

// RecordSale records a marketplace sale, bumps the NFT's volume and unlists it
func (s *nftService) RecordSale(ctx context.Context, input *domain.NFTSaleInput) (*domain.NFTSale, error) {
	if input.NFTID == "" {
		return nil, errors.NewValidationError("nft_id is required", nil)
	}
	if input.SellerWallet == "" || input.BuyerWallet == "" {
		return nil, errors.NewValidationError("seller_wallet and buyer_wallet are required", nil)
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

	nft, err := s.nftRepo.GetByID(ctx, input.NFTID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load nft", err)
	}
	if nft == nil {
		return nil, errors.NewNotFoundError("nft not found")
	}

	sale := &domain.NFTSale{
		ID:            uuid.New().String(),
		NFTID:         input.NFTID,
		SellerWallet:  input.SellerWallet,
		BuyerWallet:   input.BuyerWallet,
		Price:         input.Price,
		Currency:      currency,
		RoyaltyAmount: input.RoyaltyAmount,
		Status:        domain.PaymentCompleted,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.nftRepo.InsertSale(ctx, sale); err != nil {
		return nil, errors.NewInternalError("failed to record nft sale", err)
	}

	if err := s.nftRepo.RecordSaleStats(ctx, input.NFTID, input.Price); err != nil {
		s.logger.WithError(err).WithField("nft_id", input.NFTID).Warn("Sale recorded but nft counters update failed")
	}
	if _, err := s.nftRepo.SetListing(ctx, input.NFTID, false, nil, nil); err != nil {
		s.logger.WithError(err).WithField("nft_id", input.NFTID).Warn("Sale recorded but unlisting failed")
	}

	return sale, nil
}

// GetSales returns an NFT's sale history, newest first
func (s *nftService) GetSales(ctx context.Context, nftID string, limit, offset int) ([]*domain.NFTSale, error) {
	if nftID == "" {
		return nil, errors.NewValidationError("nft_id is required", nil)
	}

	sales, err := s.nftRepo.ListSalesByNFT(ctx, nftID, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewInternalError("failed to list nft sales", err)
	}

	return sales, nil
}

// GetSalesByWallet returns sales where the wallet was buyer or seller
func (s *nftService) GetSalesByWallet(ctx context.Context, wallet string, limit, offset int) ([]*domain.NFTSale, error) {
	if wallet == "" {
		return nil, errors.NewValidationError("wallet is required", nil)
	}

	sales, err := s.nftRepo.ListSalesByWallet(ctx, wallet, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewInternalError("failed to list wallet sales", err)
	}

	return sales, nil
}

// CreateCollection creates a creator-defined collection
func (s *nftService) CreateCollection(ctx context.Context, input *domain.NFTCollectionInput) (*domain.NFTCollection, error) {
	if input.Name == "" {
		return nil, errors.NewValidationError("name is required", nil)
	}
	if input.CreatorWallet == "" {
		return nil, errors.NewValidationError("creator_wallet is required", nil)
	}

	now := time.Now().UTC()
	collection := &domain.NFTCollection{
		ID:            uuid.New().String(),
		Name:          input.Name,
		Description:   input.Description,
		CreatorWallet: input.CreatorWallet,
		CoverImage:    input.CoverImage,
		Category:      input.Category,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.nftRepo.InsertCollection(ctx, collection); err != nil {
		return nil, errors.NewInternalError("failed to create collection", err)
	}

	return collection, nil
}

// GetCollection returns a collection by id
func (s *nftService) GetCollection(ctx context.Context, id string) (*domain.NFTCollection, error) {
	if id == "" {
		return nil, errors.NewValidationError("collection id is required", nil)
	}

	collection, err := s.nftRepo.GetCollection(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load collection", err)
	}
	if collection == nil {
		return nil, errors.NewNotFoundError("collection not found")
	}

	return collection, nil
}

// GetCollections returns collections, newest first
func (s *nftService) GetCollections(ctx context.Context, limit, offset int) ([]*domain.NFTCollection, error) {
	collections, err := s.nftRepo.ListCollections(ctx, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewInternalError("failed to list collections", err)
	}

	return collections, nil
}

// GetCollectionsByCreator returns a creator's collections, newest first
func (s *nftService) GetCollectionsByCreator(ctx context.Context, wallet string, limit, offset int) ([]*domain.NFTCollection, error) {
	if wallet == "" {
		return nil, errors.NewValidationError("wallet is required", nil)
	}

	collections, err := s.nftRepo.ListCollectionsByCreator(ctx, wallet, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewInternalError("failed to list creator collections", err)
	}

	return collections, nil
}

// GetGlobalStats returns the platform-wide NFT rollup
func (s *nftService) GetGlobalStats(ctx context.Context) (*domain.NFTStats, error) {
	return s.stats(ctx, "")
}

// GetCreatorStats returns one creator's NFT rollup
func (s *nftService) GetCreatorStats(ctx context.Context, wallet string) (*domain.NFTStats, error) {
	if wallet == "" {
		return nil, errors.NewValidationError("wallet is required", nil)
	}
	return s.stats(ctx, wallet)
}

func (s *nftService) stats(ctx context.Context, creatorWallet string) (*domain.NFTStats, error) {
	totalNFTs, err := s.nftRepo.CountNFTs(ctx, creatorWallet)
	if err != nil {
		return nil, errors.NewInternalError("failed to count nfts", err)
	}

	volume, err := s.nftRepo.SumVolume(ctx, creatorWallet)
	if err != nil {
		return nil, errors.NewInternalError("failed to sum volume", err)
	}

	totalSales, err := s.nftRepo.CountSales(ctx, creatorWallet)
	if err != nil {
		return nil, errors.NewInternalError("failed to count sales", err)
	}

	floor, _, err := s.nftRepo.FloorPrice(ctx, creatorWallet)
	if err != nil {
		return nil, errors.NewInternalError("failed to get floor price", err)
	}

	uniqueOwners, err := s.nftRepo.CountDistinctBuyers(ctx, creatorWallet)
	if err != nil {
		return nil, errors.NewInternalError("failed to count owners", err)
	}

	avgPrice, err := s.nftRepo.AverageListedPrice(ctx, creatorWallet)
	if err != nil {
		return nil, errors.NewInternalError("failed to average prices", err)
	}

	return &domain.NFTStats{
		TotalNFTs:    totalNFTs,
		TotalVolume:  volume,
		TotalSales:   totalSales,
		FloorPrice:   floor,
		UniqueOwners: uniqueOwners,
		AveragePrice: avgPrice,
	}, nil
}

func parseOptionalDecimal(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
