package repository

import (
	"context"
	"fmt"

	"github.com/drywaters/glimpse/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PreferenceRepository handles the user_preferences table
type PreferenceRepository struct {
	pool *pgxpool.Pool
}

// NewPreferenceRepository creates a new PreferenceRepository
func NewPreferenceRepository(pool *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

// Get retrieves userID's preferences, or nil if none were saved
func (r *PreferenceRepository) Get(ctx context.Context, userID uuid.UUID) (*model.Preferences, error) {
	query := `
		SELECT preferred_language, updated_at
		FROM user_preferences
		WHERE user_id = $1
	`

	var prefs model.Preferences
	err := r.pool.QueryRow(ctx, query, userID).Scan(&prefs.Language, &prefs.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return &prefs, nil
}

// Upsert saves userID's preferred language
func (r *PreferenceRepository) Upsert(ctx context.Context, userID uuid.UUID, language string) error {
	query := `
		INSERT INTO user_preferences (user_id, preferred_language)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			preferred_language = EXCLUDED.preferred_language,
			updated_at = NOW()
	`

	if _, err := r.pool.Exec(ctx, query, userID, language); err != nil {
		return fmt.Errorf("failed to upsert preferences: %w", err)
	}
	return nil
}
