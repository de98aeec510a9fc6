package service

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/repository"
	"inkwell/pkg/errors"
	"inkwell/pkg/logger"

	"github.com/google/uuid"
)

// Reading metrics constants
const (
	ReadingWordsPerMinute = 200
	ExcerptMaxChars       = 200
)

// articleService manages the article catalog. The local catalog is the fast
// path; the Irys gateway is the permanent record and the fallback when the
// catalog has nothing to offer.
type articleService struct {
	articleRepo  repository.ArticleRepository
	authorRepo   repository.AuthorRepository
	irysClient   *IrysClient
	cacheService *CacheService
	logger       *logger.Logger
}

// NewArticleService creates a new article service. cacheService may be nil,
// which disables the catalog cache.
func NewArticleService(
	articleRepo repository.ArticleRepository,
	authorRepo repository.AuthorRepository,
	irysClient *IrysClient,
	cacheService *CacheService,
	logger *logger.Logger,
) ArticleService {
	return &articleService{
		articleRepo:  articleRepo,
		authorRepo:   authorRepo,
		irysClient:   irysClient,
		cacheService: cacheService,
		logger:       logger,
	}
}

// Create validates and stores a new article, deriving word count, reading
// time and an excerpt when one wasn't supplied
func (s *articleService) Create(ctx context.Context, input *domain.ArticleInput) (*domain.Article, error) {
	if input.Title == "" {
		return nil, errors.NewValidationError("title is required", nil)
	}
	if input.Content == "" {
		return nil, errors.NewValidationError("content is required", nil)
	}
	if input.AuthorWallet == "" {
		return nil, errors.NewValidationError("author_wallet is required", nil)
	}

	now := time.Now().UTC()
	wordCount := countWords(input.Content)

	excerpt := input.Excerpt
	if excerpt == "" {
		excerpt = makeExcerpt(input.Content, ExcerptMaxChars)
	}

	article := &domain.Article{
		ID:           uuid.New().String(),
		Title:        input.Title,
		Content:      input.Content,
		HTML:         input.HTML,
		Excerpt:      excerpt,
		AuthorWallet: input.AuthorWallet,
		AuthorName:   input.AuthorName,
		Tags:         input.Tags,
		Category:     input.Category,
		ReadingTime:  readingTime(wordCount),
		WordCount:    wordCount,
		Status:       domain.ArticleStatusPublished,
		PublishedAt:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if article.Tags == nil {
		article.Tags = []string{}
	}

	if err := s.articleRepo.Insert(ctx, article); err != nil {
		return nil, errors.NewInternalError("failed to create article", err)
	}

	// Bump the author's denormalized article counter, creating a bare
	// profile for first-time wallets
	if err := s.authorRepo.IncrementArticleCount(ctx, article.AuthorWallet, 1); err != nil {
		s.logger.WithError(err).WithField("wallet", article.AuthorWallet).Warn("Article created but author counter update failed")
	}

	return article, nil
}

// Get returns an article and bumps its denormalized view counter
func (s *articleService) Get(ctx context.Context, id string) (*domain.Article, error) {
	if id == "" {
		return nil, errors.NewValidationError("article id is required", nil)
	}

	article, err := s.getArticle(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load article", err)
	}
	if article == nil {
		return nil, errors.NewNotFoundError("article not found")
	}

	if err := s.articleRepo.IncrementViews(ctx, id); err != nil {
		s.logger.WithError(err).WithField("article_id", id).Warn("Failed to bump article view counter")
	} else {
		article.Views++
	}
	if err := s.authorRepo.IncrementViewCount(ctx, article.AuthorWallet, 1); err != nil {
		s.logger.WithError(err).WithField("wallet", article.AuthorWallet).Warn("Failed to bump author view counter")
	}

	return article, nil
}

// SetIrysPointer records the permanent-storage location after upload
func (s *articleService) SetIrysPointer(ctx context.Context, id, irysID, irysURL string) (*domain.Article, error) {
	if id == "" || irysID == "" {
		return nil, errors.NewValidationError("article id and irys id are required", nil)
	}

	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("failed to load article", err)
	}
	if article == nil {
		return nil, errors.NewNotFoundError("article not found")
	}

	if irysURL == "" && s.irysClient != nil {
		irysURL = s.irysClient.GatewayURL(irysID)
	}

	if err := s.articleRepo.SetIrys(ctx, id, irysID, irysURL); err != nil {
		return nil, errors.NewInternalError("failed to set irys pointer", err)
	}

	if s.cacheService != nil {
		s.cacheService.InvalidateArticle(ctx, id)
	}

	article.IrysID = irysID
	article.IrysURL = irysURL
	return article, nil
}

// List returns published articles, falling back to the Irys gateway when the
// local catalog is empty. Gateway failure degrades to an empty page, never
// an error; listings must stay up when the gateway is down.
func (s *articleService) List(ctx context.Context, limit, offset int) ([]*domain.ArticleSummary, error) {
	limit = normalizeLimit(limit)

	articles, err := s.articleRepo.ListPublished(ctx, limit, offset)
	if err != nil {
		return nil, errors.NewInternalError("failed to list articles", err)
	}

	if len(articles) == 0 && offset == 0 {
		return s.summariesFromGateway(ctx, func() ([]IrysTransaction, error) {
			return s.irysClient.QueryRecent(ctx, limit)
		}), nil
	}

	return summarize(articles), nil
}

// ListByAuthor returns an author's articles with the same gateway fallback
func (s *articleService) ListByAuthor(ctx context.Context, wallet string, limit, offset int) ([]*domain.ArticleSummary, error) {
	if wallet == "" {
		return nil, errors.NewValidationError("wallet is required", nil)
	}
	limit = normalizeLimit(limit)

	articles, err := s.articleRepo.ListByAuthor(ctx, wallet, limit, offset)
	if err != nil {
		return nil, errors.NewInternalError("failed to list author articles", err)
	}

	if len(articles) == 0 && offset == 0 {
		return s.summariesFromGateway(ctx, func() ([]IrysTransaction, error) {
			return s.irysClient.QueryByAuthor(ctx, wallet, limit)
		}), nil
	}

	return summarize(articles), nil
}

// Search filters the catalog, falling back to a gateway tag query when the
// catalog matches nothing and tags were given
func (s *articleService) Search(ctx context.Context, query *domain.ArticleSearchQuery) ([]*domain.ArticleSummary, error) {
	query.Limit = normalizeLimit(query.Limit)

	articles, err := s.articleRepo.Search(ctx, query)
	if err != nil {
		return nil, errors.NewInternalError("failed to search articles", err)
	}

	if len(articles) == 0 && query.Offset == 0 && len(query.Tags) > 0 {
		return s.summariesFromGateway(ctx, func() ([]IrysTransaction, error) {
			return s.irysClient.QueryByTags(ctx, query.Tags, query.Limit)
		}), nil
	}

	return summarize(articles), nil
}

func (s *articleService) getArticle(ctx context.Context, id string) (*domain.Article, error) {
	if s.cacheService != nil {
		return s.cacheService.GetArticleWithCache(ctx, id, s.articleRepo.GetByID)
	}
	return s.articleRepo.GetByID(ctx, id)
}

// summariesFromGateway hydrates listing entries from gateway transactions.
// Upstream failure yields an empty slice, not an error.
func (s *articleService) summariesFromGateway(ctx context.Context, query func() ([]IrysTransaction, error)) []*domain.ArticleSummary {
	if s.irysClient == nil {
		return []*domain.ArticleSummary{}
	}

	transactions, err := query()
	if err != nil {
		s.logger.WithError(err).Warn("Irys gateway fallback failed, returning empty listing")
		return []*domain.ArticleSummary{}
	}

	summaries := make([]*domain.ArticleSummary, 0, len(transactions))
	for _, tx := range transactions {
		summary := &domain.ArticleSummary{
			ID:           tx.ID,
			Title:        tx.Tag("Title"),
			Excerpt:      tx.Tag("Excerpt"),
			AuthorWallet: tx.Tag("Author"),
			AuthorName:   tx.Tag("Author-Name"),
			IrysID:       tx.ID,
			IrysURL:      s.irysClient.GatewayURL(tx.ID),
			Category:     tx.Tag("Category"),
			Tags:         []string{},
			PublishedAt:  time.UnixMilli(tx.Timestamp).UTC(),
		}
		if rawTags := tx.Tag("Tags"); rawTags != "" {
			summary.Tags = strings.Split(rawTags, ",")
		}
		summaries = append(summaries, summary)
	}

	return summaries
}

func summarize(articles []*domain.Article) []*domain.ArticleSummary {
	summaries := make([]*domain.ArticleSummary, 0, len(articles))
	for _, article := range articles {
		summaries = append(summaries, article.Summary())
	}
	return summaries
}

func countWords(content string) int {
	return len(strings.Fields(content))
}

// readingTime estimates minutes at ReadingWordsPerMinute, minimum one minute
func readingTime(wordCount int) int {
	minutes := (wordCount + ReadingWordsPerMinute - 1) / ReadingWordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// makeExcerpt truncates content on a word boundary near maxChars
func makeExcerpt(content string, maxChars int) string {
	content = strings.TrimSpace(content)
	if len(content) <= maxChars {
		return content
	}

	cut := content[:maxChars]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
