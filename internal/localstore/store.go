package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/drywaters/glimpse/internal/model"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Well-known keys
const (
	KeySummaryData       = "summaryData"
	KeyPreferredLanguage = "preferredLanguage"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	owner TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (owner, key)
);

CREATE TABLE IF NOT EXISTS history (
	id TEXT PRIMARY KEY,
	owner TEXT NOT NULL,
	title TEXT NOT NULL,
	thumbnail_url TEXT NOT NULL DEFAULT '',
	source_url TEXT NOT NULL,
	language TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_owner_created ON history(owner, created_at);
`

// Store is the per-device persistent store. It stands in for the browser's
// local storage: every row belongs to an owner key, and concurrent writers
// are last-write-wins.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	// SQLite allows one writer; serialising through one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create local store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key for owner
func (s *Store) Get(ctx context.Context, owner, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE owner = ? AND key = ?`, owner, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key for owner, replacing any previous value
func (s *Store) Set(ctx context.Context, owner, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (owner, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (owner, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, owner, key, value, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes key for owner
func (s *Store) Delete(ctx context.Context, owner, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE owner = ? AND key = ?`, owner, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// AppendHistory inserts item and trims owner's history to the newest limit items
func (s *Store) AppendHistory(ctx context.Context, owner string, item model.HistoryItem, limit int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO history (id, owner, title, thumbnail_url, source_url, language, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, item.ID.String(), owner, item.Title, item.ThumbnailURL, item.SourceURL, item.Language, item.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert history item: %w", err)
	}

	if limit > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM history
			WHERE owner = ? AND id NOT IN (
				SELECT id FROM history WHERE owner = ?
				ORDER BY created_at DESC, rowid DESC
				LIMIT ?
			)
		`, owner, owner, limit)
		if err != nil {
			return fmt.Errorf("failed to trim history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}
	return nil
}

// ListHistory returns owner's history, newest first
func (s *Store) ListHistory(ctx context.Context, owner string, limit int) ([]model.HistoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, thumbnail_url, source_url, language, created_at
		FROM history
		WHERE owner = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var items []model.HistoryItem
	for rows.Next() {
		var (
			item      model.HistoryItem
			id        string
			createdAt int64
		)
		if err := rows.Scan(&id, &item.Title, &item.ThumbnailURL, &item.SourceURL, &item.Language, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan history item: %w", err)
		}
		item.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid history id %q: %w", id, err)
		}
		item.CreatedAt = time.Unix(0, createdAt).UTC()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return items, nil
}

// GetHistory returns one item, or nil if owner has no item with that ID
func (s *Store) GetHistory(ctx context.Context, owner string, id uuid.UUID) (*model.HistoryItem, error) {
	var (
		item      model.HistoryItem
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT title, thumbnail_url, source_url, language, created_at
		FROM history WHERE owner = ? AND id = ?
	`, owner, id.String()).Scan(&item.Title, &item.ThumbnailURL, &item.SourceURL, &item.Language, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history item: %w", err)
	}
	item.ID = id
	item.CreatedAt = time.Unix(0, createdAt).UTC()
	return &item, nil
}

// RemoveHistory deletes one of owner's items
func (s *Store) RemoveHistory(ctx context.Context, owner string, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE owner = ? AND id = ?`, owner, id.String()); err != nil {
		return fmt.Errorf("failed to remove history item: %w", err)
	}
	return nil
}

// ClearHistory deletes all of owner's items
func (s *Store) ClearHistory(ctx context.Context, owner string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE owner = ?`, owner); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
