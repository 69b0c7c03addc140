package repository

import (
	"context"
	"fmt"

	"github.com/drywaters/glimpse/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VideoRepository stores the signed-in history ("videos" table)
type VideoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new VideoRepository
func NewVideoRepository(pool *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{pool: pool}
}

// Create inserts a history item for userID
func (r *VideoRepository) Create(ctx context.Context, userID uuid.UUID, item model.HistoryItem) error {
	query := `
		INSERT INTO videos (id, user_id, title, thumbnail_url, source_url, language, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID, userID, item.Title, item.ThumbnailURL, item.SourceURL, item.Language, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	return nil
}

// ListByUser returns userID's items, newest first
func (r *VideoRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.HistoryItem, error) {
	if limit <= 0 {
		limit = model.MaxHistoryItems
	}

	query := `
		SELECT id, title, thumbnail_url, source_url, language, created_at
		FROM videos
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	defer rows.Close()

	var items []model.HistoryItem
	for rows.Next() {
		var item model.HistoryItem
		if err := rows.Scan(&item.ID, &item.Title, &item.ThumbnailURL, &item.SourceURL, &item.Language, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate videos: %w", err)
	}
	return items, nil
}

// GetByID retrieves one of userID's items
func (r *VideoRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*model.HistoryItem, error) {
	query := `
		SELECT id, title, thumbnail_url, source_url, language, created_at
		FROM videos
		WHERE user_id = $1 AND id = $2
	`

	var item model.HistoryItem
	err := r.pool.QueryRow(ctx, query, userID, id).Scan(
		&item.ID, &item.Title, &item.ThumbnailURL, &item.SourceURL, &item.Language, &item.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return &item, nil
}

// Delete removes one of userID's items
func (r *VideoRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM videos WHERE user_id = $1 AND id = $2`, userID, id); err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	return nil
}

// DeleteAll removes all of userID's items
func (r *VideoRepository) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM videos WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete videos: %w", err)
	}
	return nil
}

// TrimToNewest deletes all but userID's newest keep items
func (r *VideoRepository) TrimToNewest(ctx context.Context, userID uuid.UUID, keep int) error {
	query := `
		DELETE FROM videos
		WHERE user_id = $1 AND id NOT IN (
			SELECT id FROM videos
			WHERE user_id = $1
			ORDER BY created_at DESC, id
			LIMIT $2
		)
	`
	if _, err := r.pool.Exec(ctx, query, userID, keep); err != nil {
		return fmt.Errorf("failed to trim videos: %w", err)
	}
	return nil
}
