package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inkwell/internal/domain"
	"inkwell/pkg/database"
)

// engagementRepository handles the engagement ledger with PostgreSQL
type engagementRepository struct {
	db *database.PostgresDB
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *database.PostgresDB) EngagementRepository {
	return &engagementRepository{
		db: db,
	}
}

// Insert appends an engagement event to the ledger
func (r *engagementRepository) Insert(ctx context.Context, event *domain.EngagementEvent) error {
	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal event metadata: %w", err)
	}

	query := `
		INSERT INTO engagement_events (id, actor_wallet, action_type, target_id, target_type, metadata, created_at, engagement_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		event.ID,
		event.ActorWallet,
		string(event.ActionType),
		event.TargetID,
		string(event.TargetType),
		metadata,
		event.CreatedAt,
		event.EngagementDate.Format("2006-01-02"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert engagement event: %w", err)
	}

	return nil
}

// CountByTarget counts events for a target filtered by action type
func (r *engagementRepository) CountByTarget(ctx context.Context, targetID string, targetType domain.TargetType, actionType domain.ActionType) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM engagement_events
		WHERE target_id = $1 AND target_type = $2 AND action_type = $3
	`

	var count int64
	err := r.db.GetReadPool().QueryRow(ctx, query, targetID, string(targetType), string(actionType)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count engagement events by target: %w", err)
	}

	return count, nil
}

// CountByAction counts all events of one action type platform-wide
func (r *engagementRepository) CountByAction(ctx context.Context, actionType domain.ActionType) (int64, error) {
	query := `SELECT COUNT(*) FROM engagement_events WHERE action_type = $1`

	var count int64
	err := r.db.GetReadPool().QueryRow(ctx, query, string(actionType)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count engagement events by action: %w", err)
	}

	return count, nil
}

// CountDistinctActors counts distinct actor wallets active in [from, to)
func (r *engagementRepository) CountDistinctActors(ctx context.Context, from, to time.Time) (int64, error) {
	query := `
		SELECT COUNT(DISTINCT actor_wallet)
		FROM engagement_events
		WHERE actor_wallet <> '' AND created_at >= $1 AND created_at < $2
	`

	var count int64
	err := r.db.GetReadPool().QueryRow(ctx, query, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count distinct actors: %w", err)
	}

	return count, nil
}

// GroupByArticle groups events targeting articles since the given instant.
// The views column counts every event in the group, not only view actions;
// any engagement keeps an article visible in the recency window.
func (r *engagementRepository) GroupByArticle(ctx context.Context, since time.Time, limit int) ([]*domain.EngagementWindow, error) {
	query := `
		SELECT
			target_id,
			COUNT(*) AS views,
			COUNT(*) FILTER (WHERE action_type = 'like') AS likes,
			COUNT(*) FILTER (WHERE action_type = 'comment') AS comments,
			COUNT(*) FILTER (WHERE action_type = 'share') AS shares
		FROM engagement_events
		WHERE target_type = 'article' AND created_at >= $1
		GROUP BY target_id
		ORDER BY views DESC
		LIMIT $2
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to group engagement events: %w", err)
	}
	defer rows.Close()

	var windows []*domain.EngagementWindow
	for rows.Next() {
		window := &domain.EngagementWindow{}
		err := rows.Scan(
			&window.TargetID,
			&window.Views,
			&window.Likes,
			&window.Comments,
			&window.Shares,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan engagement window row: %w", err)
		}
		windows = append(windows, window)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading engagement window rows: %w", err)
	}

	return windows, nil
}

// ListByActor returns a user's engagement history, newest first
func (r *engagementRepository) ListByActor(ctx context.Context, wallet string, limit, offset int) ([]*domain.EngagementEvent, error) {
	query := `
		SELECT id, actor_wallet, action_type, target_id, target_type, metadata, created_at, engagement_date
		FROM engagement_events
		WHERE actor_wallet = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.GetReadPool().Query(ctx, query, wallet, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query engagement events: %w", err)
	}
	defer rows.Close()

	var events []*domain.EngagementEvent
	for rows.Next() {
		event, err := scanEngagementEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading engagement event rows: %w", err)
	}

	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEngagementEvent(row rowScanner) (*domain.EngagementEvent, error) {
	event := &domain.EngagementEvent{}
	var actionType, targetType string
	var metadata []byte

	err := row.Scan(
		&event.ID,
		&event.ActorWallet,
		&actionType,
		&event.TargetID,
		&targetType,
		&metadata,
		&event.CreatedAt,
		&event.EngagementDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan engagement event row: %w", err)
	}

	event.ActionType = domain.ActionType(actionType)
	event.TargetType = domain.TargetType(targetType)

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &event.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event metadata: %w", err)
		}
	}

	return event, nil
}
