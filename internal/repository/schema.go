package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS videos (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	thumbnail_url TEXT NOT NULL DEFAULT '',
	source_url TEXT NOT NULL,
	language TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_videos_user_created ON videos(user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS summaries (
	video_id TEXT PRIMARY KEY,
	user_id UUID REFERENCES users(id) ON DELETE SET NULL,
	source_url TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	thumbnail_url TEXT NOT NULL DEFAULT '',
	original_text TEXT NOT NULL DEFAULT '',
	summary_en TEXT NOT NULL DEFAULT '',
	summary_translated TEXT NOT NULL DEFAULT '',
	language TEXT NOT NULL DEFAULT '',
	sentiment_label TEXT,
	sentiment_score DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS user_preferences (
	user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
	preferred_language TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS processing_logs (
	id BIGSERIAL PRIMARY KEY,
	user_id UUID REFERENCES users(id) ON DELETE CASCADE,
	video_id TEXT NOT NULL DEFAULT '',
	message TEXT NOT NULL,
	severity TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_processing_logs_user_created ON processing_logs(user_id, created_at DESC);
`

// EnsureSchema creates the hosted tables if they do not exist yet
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
