package repository

import (
	"context"
	"fmt"

	"github.com/drywaters/glimpse/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SummaryRepository stores generated summaries keyed by video ID
type SummaryRepository struct {
	pool *pgxpool.Pool
}

// NewSummaryRepository creates a new SummaryRepository
func NewSummaryRepository(pool *pgxpool.Pool) *SummaryRepository {
	return &SummaryRepository{pool: pool}
}

// Upsert saves result under result.VideoID, replacing any earlier summary
// of the same video.
func (r *SummaryRepository) Upsert(ctx context.Context, userID uuid.UUID, result *model.SummaryResult) error {
	if result == nil || result.VideoID == "" {
		return fmt.Errorf("summary has no video id")
	}

	var label *string
	var score *float64
	if result.Sentiment != nil {
		l := string(result.Sentiment.Label)
		s := result.Sentiment.Score
		label, score = &l, &s
	}

	query := `
		INSERT INTO summaries (video_id, user_id, source_url, title, thumbnail_url, original_text,
		                       summary_en, summary_translated, language, sentiment_label, sentiment_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (video_id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			source_url = EXCLUDED.source_url,
			title = EXCLUDED.title,
			thumbnail_url = EXCLUDED.thumbnail_url,
			original_text = EXCLUDED.original_text,
			summary_en = EXCLUDED.summary_en,
			summary_translated = EXCLUDED.summary_translated,
			language = EXCLUDED.language,
			sentiment_label = EXCLUDED.sentiment_label,
			sentiment_score = EXCLUDED.sentiment_score,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		result.VideoID, userID, result.SourceURL, result.Title, result.ThumbnailURL, result.OriginalText,
		result.SummaryEnglish, result.SummaryTranslated, result.Language, label, score,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert summary: %w", err)
	}
	return nil
}
