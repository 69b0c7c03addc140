package repository

import (
	"context"
	"fmt"

	"github.com/drywaters/glimpse/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProcessingLogRepository archives lifecycle log lines of signed-in submissions
type ProcessingLogRepository struct {
	pool *pgxpool.Pool
}

// NewProcessingLogRepository creates a new ProcessingLogRepository
func NewProcessingLogRepository(pool *pgxpool.Pool) *ProcessingLogRepository {
	return &ProcessingLogRepository{pool: pool}
}

// Insert stores one log event
func (r *ProcessingLogRepository) Insert(ctx context.Context, userID uuid.UUID, videoID string, ev model.LogEvent) error {
	query := `
		INSERT INTO processing_logs (user_id, video_id, message, severity, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.pool.Exec(ctx, query, userID, videoID, ev.Message, string(ev.Severity), ev.Timestamp); err != nil {
		return fmt.Errorf("failed to insert processing log: %w", err)
	}
	return nil
}

// ListRecent returns userID's newest log events, oldest first
func (r *ProcessingLogRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]model.LogEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT message, severity, created_at FROM (
			SELECT id, message, severity, created_at
			FROM processing_logs
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) recent
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list processing logs: %w", err)
	}
	defer rows.Close()

	var logs []model.LogEvent
	for rows.Next() {
		var (
			ev       model.LogEvent
			severity string
		)
		if err := rows.Scan(&ev.Message, &severity, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan processing log: %w", err)
		}
		ev.Severity = model.Severity(severity)
		logs = append(logs, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate processing logs: %w", err)
	}
	return logs, nil
}
