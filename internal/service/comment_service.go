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

// commentService manages threaded comments and per-user reactions
type commentService struct {
	commentRepo repository.CommentRepository
	articleRepo repository.ArticleRepository
	logger      *logger.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(commentRepo repository.CommentRepository, articleRepo repository.ArticleRepository, logger *logger.Logger) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		articleRepo: articleRepo,
		logger:      logger,
	}
}

// Create validates and stores a comment; replies must point at an existing
// comment on the same article
func (s *commentService) Create(ctx context.Context, input *domain.CommentInput) (*domain.Comment, error) {
	if input.ArticleID == "" {
		return nil, errors.NewValidationError("article_id is required", nil)
	}
	if input.Content == "" {
		return nil, errors.NewValidationError("content is required", nil)
	}
	if input.AuthorWallet == "" {
		return nil, errors.NewValidationError("author_wallet is required", nil)
	}

	article, err := s.articleRepo.GetByID(ctx, input.ArticleID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load article", err)
	}
	if article == nil {
		return nil, errors.NewNotFoundError("article not found")
	}

	if input.ParentID != "" {
		parent, err := s.commentRepo.GetByID(ctx, input.ParentID)
		if err != nil {
			return nil, errors.NewInternalError("failed to load parent comment", err)
		}
		if parent == nil {
			return nil, errors.NewNotFoundError("parent comment not found")
		}
		if parent.ArticleID != input.ArticleID {
			return nil, errors.NewValidationError("parent comment belongs to a different article", nil)
		}
	}

	now := time.Now().UTC()
	comment := &domain.Comment{
		ID:           uuid.New().String(),
		ArticleID:    input.ArticleID,
		ParentID:     input.ParentID,
		Content:      input.Content,
		AuthorWallet: input.AuthorWallet,
		AuthorName:   input.AuthorName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.commentRepo.Insert(ctx, comment); err != nil {
		return nil, errors.NewInternalError("failed to create comment", err)
	}

	return comment, nil
}

// ListByArticle returns top-level comments with replies attached
func (s *commentService) ListByArticle(ctx context.Context, articleID string, limit, offset int) ([]*domain.CommentThread, error) {
	if articleID == "" {
		return nil, errors.NewValidationError("article_id is required", nil)
	}

	comments, err := s.commentRepo.ListTopLevelByArticle(ctx, articleID, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.NewInternalError("failed to list comments", err)
	}

	threads := make([]*domain.CommentThread, 0, len(comments))
	for _, comment := range comments {
		replies, err := s.commentRepo.ListReplies(ctx, comment.ID)
		if err != nil {
			return nil, errors.NewInternalError("failed to list comment replies", err)
		}
		if replies == nil {
			replies = []*domain.Comment{}
		}
		threads = append(threads, &domain.CommentThread{
			Comment: *comment,
			Replies: replies,
		})
	}

	return threads, nil
}

// Update edits a comment's content and marks it edited
func (s *commentService) Update(ctx context.Context, id, content string) (*domain.Comment, error) {
	if id == "" {
		return nil, errors.NewValidationError("comment id is required", nil)
	}
	if content == "" {
		return nil, errors.NewValidationError("content is required", nil)
	}

	comment, err := s.commentRepo.UpdateContent(ctx, id, content, time.Now().UTC())
	if err != nil {
		return nil, errors.NewInternalError("failed to update comment", err)
	}
	if comment == nil {
		return nil, errors.NewNotFoundError("comment not found")
	}

	return comment, nil
}

// Delete soft-deletes a comment so its reply chain stays navigable
func (s *commentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.NewValidationError("comment id is required", nil)
	}

	deleted, err := s.commentRepo.SoftDelete(ctx, id, time.Now().UTC())
	if err != nil {
		return errors.NewInternalError("failed to delete comment", err)
	}
	if !deleted {
		return errors.NewNotFoundError("comment not found")
	}

	return nil
}

// React records a wallet's reaction; reacting again replaces the previous
// one, and the comment's like/dislike rollups are refreshed afterwards
func (s *commentService) React(ctx context.Context, commentID string, input *domain.ReactionInput) error {
	if commentID == "" {
		return errors.NewValidationError("comment id is required", nil)
	}
	if input.ActorWallet == "" {
		return errors.NewValidationError("user_wallet is required", nil)
	}

	reactionType, err := domain.ParseReactionType(input.ReactionType)
	if err != nil {
		return errors.NewValidationError("invalid reaction_type", map[string]interface{}{
			"reaction_type": input.ReactionType,
		})
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return errors.NewInternalError("failed to load comment", err)
	}
	if comment == nil {
		return errors.NewNotFoundError("comment not found")
	}

	reaction := &domain.Reaction{
		ID:           uuid.New().String(),
		CommentID:    commentID,
		ActorWallet:  input.ActorWallet,
		ReactionType: reactionType,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.commentRepo.UpsertReaction(ctx, reaction); err != nil {
		return errors.NewInternalError("failed to record reaction", err)
	}

	return s.rollupReactions(ctx, commentID)
}

// Unreact removes a wallet's reaction from a comment
func (s *commentService) Unreact(ctx context.Context, commentID, wallet string) error {
	if commentID == "" || wallet == "" {
		return errors.NewValidationError("comment id and wallet are required", nil)
	}

	removed, err := s.commentRepo.DeleteReaction(ctx, commentID, wallet)
	if err != nil {
		return errors.NewInternalError("failed to remove reaction", err)
	}
	if !removed {
		return errors.NewNotFoundError("reaction not found")
	}

	return s.rollupReactions(ctx, commentID)
}

// rollupReactions recounts likes and dislikes onto the comment row
func (s *commentService) rollupReactions(ctx context.Context, commentID string) error {
	likes, err := s.commentRepo.CountReactions(ctx, commentID, domain.ReactionLike)
	if err != nil {
		return errors.NewInternalError("failed to count likes", err)
	}

	dislikes, err := s.commentRepo.CountReactions(ctx, commentID, domain.ReactionDislike)
	if err != nil {
		return errors.NewInternalError("failed to count dislikes", err)
	}

	if err := s.commentRepo.SetReactionCounts(ctx, commentID, likes, dislikes); err != nil {
		return errors.NewInternalError("failed to store reaction counts", err)
	}

	return nil
}
