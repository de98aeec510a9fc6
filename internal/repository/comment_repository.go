package repository

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/domain"
	"inkwell/pkg/database"

	"github.com/jackc/pgx/v5"
)

const commentColumns = `id, article_id, parent_id, content, author_wallet, author_name, likes, dislikes, is_edited, is_deleted, created_at, updated_at`

// commentRepository handles comments and reactions with PostgreSQL
type commentRepository struct {
	db *database.PostgresDB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *database.PostgresDB) CommentRepository {
	return &commentRepository{
		db: db,
	}
}

// Insert creates a new comment
func (r *commentRepository) Insert(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (` + commentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		comment.ID,
		comment.ArticleID,
		comment.ParentID,
		comment.Content,
		comment.AuthorWallet,
		comment.AuthorName,
		comment.Likes,
		comment.Dislikes,
		comment.IsEdited,
		comment.IsDeleted,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	return nil
}

// GetByID returns the comment, or nil when absent
func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	comment, err := scanComment(r.db.GetReadPool().QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get comment by id: %w", err)
	}

	return comment, nil
}

// ListTopLevelByArticle returns an article's root comments, newest first
func (r *commentRepository) ListTopLevelByArticle(ctx context.Context, articleID string, limit, offset int) ([]*domain.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE article_id = $1 AND parent_id = ''
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, articleID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query top-level comments: %w", err)
	}
	defer rows.Close()

	return collectComments(rows)
}

// ListReplies returns a comment's direct replies, oldest first
func (r *commentRepository) ListReplies(ctx context.Context, parentID string) ([]*domain.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE parent_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comment replies: %w", err)
	}
	defer rows.Close()

	return collectComments(rows)
}

// UpdateContent edits a comment and returns the fresh row, nil when absent
func (r *commentRepository) UpdateContent(ctx context.Context, id, content string, now time.Time) (*domain.Comment, error) {
	query := `
		UPDATE comments
		SET content = $2, is_edited = TRUE, updated_at = $3
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING ` + commentColumns + `
	`

	comment, err := scanComment(r.db.Pool.QueryRow(ctx, query, id, content, now))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

// SoftDelete marks a comment deleted; reports whether a row matched
func (r *commentRepository) SoftDelete(ctx context.Context, id string, now time.Time) (bool, error) {
	query := `
		UPDATE comments
		SET is_deleted = TRUE, content = '[deleted]', updated_at = $2
		WHERE id = $1 AND is_deleted = FALSE
	`

	result, err := r.db.Pool.Exec(ctx, query, id, now)
	if err != nil {
		return false, fmt.Errorf("failed to soft delete comment: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// UpsertReaction inserts or replaces the actor's reaction on a comment
func (r *commentRepository) UpsertReaction(ctx context.Context, reaction *domain.Reaction) error {
	query := `
		INSERT INTO reactions (id, comment_id, user_wallet, reaction_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (comment_id, user_wallet) DO UPDATE SET
			reaction_type = EXCLUDED.reaction_type,
			created_at = EXCLUDED.created_at
	`

	_, err := r.db.Pool.Exec(ctx, query,
		reaction.ID,
		reaction.CommentID,
		reaction.ActorWallet,
		string(reaction.ReactionType),
		reaction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert reaction: %w", err)
	}

	return nil
}

// DeleteReaction removes the actor's reaction; reports whether one existed
func (r *commentRepository) DeleteReaction(ctx context.Context, commentID, wallet string) (bool, error) {
	query := `DELETE FROM reactions WHERE comment_id = $1 AND user_wallet = $2`

	result, err := r.db.Pool.Exec(ctx, query, commentID, wallet)
	if err != nil {
		return false, fmt.Errorf("failed to delete reaction: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// CountReactions counts reactions of one type on a comment
func (r *commentRepository) CountReactions(ctx context.Context, commentID string, reactionType domain.ReactionType) (int64, error) {
	query := `SELECT COUNT(*) FROM reactions WHERE comment_id = $1 AND reaction_type = $2`

	var count int64
	err := r.db.GetReadPool().QueryRow(ctx, query, commentID, string(reactionType)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reactions: %w", err)
	}

	return count, nil
}

// SetReactionCounts writes the rolled-up like/dislike counters onto the comment
func (r *commentRepository) SetReactionCounts(ctx context.Context, commentID string, likes, dislikes int64) error {
	query := `UPDATE comments SET likes = $2, dislikes = $3 WHERE id = $1`

	_, err := r.db.Pool.Exec(ctx, query, commentID, likes, dislikes)
	if err != nil {
		return fmt.Errorf("failed to set comment reaction counts: %w", err)
	}

	return nil
}

func scanComment(row rowScanner) (*domain.Comment, error) {
	comment := &domain.Comment{}
	err := row.Scan(
		&comment.ID,
		&comment.ArticleID,
		&comment.ParentID,
		&comment.Content,
		&comment.AuthorWallet,
		&comment.AuthorName,
		&comment.Likes,
		&comment.Dislikes,
		&comment.IsEdited,
		&comment.IsDeleted,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func collectComments(rows pgx.Rows) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading comment rows: %w", err)
	}

	return comments, nil
}
