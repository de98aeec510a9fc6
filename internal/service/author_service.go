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

// authorService manages creator profiles. Wallet addresses are accepted as
// presented; signature verification is out of scope.
type authorService struct {
	authorRepo   repository.AuthorRepository
	cacheService *CacheService
	logger       *logger.Logger
}

// NewAuthorService creates a new author service. cacheService may be nil.
func NewAuthorService(authorRepo repository.AuthorRepository, cacheService *CacheService, logger *logger.Logger) AuthorService {
	return &authorService{
		authorRepo:   authorRepo,
		cacheService: cacheService,
		logger:       logger,
	}
}

// Create registers a profile; a wallet can register at most once
func (s *authorService) Create(ctx context.Context, input *domain.AuthorProfileInput) (*domain.AuthorProfile, error) {
	if input.WalletAddress == "" {
		return nil, errors.NewValidationError("wallet_address is required", nil)
	}

	existing, err := s.authorRepo.GetByWallet(ctx, input.WalletAddress)
	if err != nil {
		return nil, errors.NewInternalError("failed to check existing profile", err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("author profile already exists for this wallet")
	}

	now := time.Now().UTC()
	profile := &domain.AuthorProfile{
		ID:            uuid.New().String(),
		WalletAddress: input.WalletAddress,
		Username:      input.Username,
		DisplayName:   input.DisplayName,
		Bio:           input.Bio,
		SocialLinks:   input.SocialLinks,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if profile.SocialLinks == nil {
		profile.SocialLinks = map[string]string{}
	}

	if err := s.authorRepo.Insert(ctx, profile); err != nil {
		return nil, errors.NewInternalError("failed to create author profile", err)
	}

	return profile, nil
}

// Get returns a profile by wallet
func (s *authorService) Get(ctx context.Context, wallet string) (*domain.AuthorProfile, error) {
	if wallet == "" {
		return nil, errors.NewValidationError("wallet is required", nil)
	}

	profile, err := s.getProfile(ctx, wallet)
	if err != nil {
		return nil, errors.NewInternalError("failed to load author profile", err)
	}
	if profile == nil {
		return nil, errors.NewNotFoundError("author not found")
	}

	return profile, nil
}

// Update applies a partial update to a profile
func (s *authorService) Update(ctx context.Context, wallet string, upd *domain.AuthorProfileUpdate) (*domain.AuthorProfile, error) {
	if wallet == "" {
		return nil, errors.NewValidationError("wallet is required", nil)
	}

	profile, err := s.authorRepo.Update(ctx, wallet, upd)
	if err != nil {
		return nil, errors.NewInternalError("failed to update author profile", err)
	}
	if profile == nil {
		return nil, errors.NewNotFoundError("author not found")
	}

	if s.cacheService != nil {
		s.cacheService.InvalidateAuthor(ctx, wallet)
	}

	return profile, nil
}

// List returns profiles, newest first
func (s *authorService) List(ctx context.Context, limit, offset int) ([]*domain.AuthorProfile, error) {
	profiles, err := s.authorRepo.List(ctx, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewInternalError("failed to list authors", err)
	}

	return profiles, nil
}

// RecordNewArticle bumps the profile's article counter, creating a bare
// profile when the wallet is new
func (s *authorService) RecordNewArticle(ctx context.Context, wallet string) error {
	if wallet == "" {
		return errors.NewValidationError("wallet is required", nil)
	}

	if err := s.authorRepo.IncrementArticleCount(ctx, wallet, 1); err != nil {
		return errors.NewInternalError("failed to record new article", err)
	}

	if s.cacheService != nil {
		s.cacheService.InvalidateAuthor(ctx, wallet)
	}

	return nil
}

// RecordViews adds views to the profile's view counter
func (s *authorService) RecordViews(ctx context.Context, wallet string, views int64) error {
	if wallet == "" {
		return errors.NewValidationError("wallet is required", nil)
	}
	if views <= 0 {
		return errors.NewValidationError("views must be positive", nil)
	}

	if err := s.authorRepo.IncrementViewCount(ctx, wallet, views); err != nil {
		return errors.NewInternalError("failed to record views", err)
	}

	if s.cacheService != nil {
		s.cacheService.InvalidateAuthor(ctx, wallet)
	}

	return nil
}

func (s *authorService) getProfile(ctx context.Context, wallet string) (*domain.AuthorProfile, error) {
	if s.cacheService != nil {
		return s.cacheService.GetAuthorWithCache(ctx, wallet, s.authorRepo.GetByWallet)
	}
	return s.authorRepo.GetByWallet(ctx, wallet)
}
