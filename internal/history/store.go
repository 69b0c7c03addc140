package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/drywaters/glimpse/internal/events"
	"github.com/drywaters/glimpse/internal/model"
	"github.com/google/uuid"
)

// Store picks the history backend for an owner: the hosted table for
// signed-in users, the device store for everyone else. The two are never
// merged; signing in does not migrate device history.
type Store struct {
	videos VideoStore
	local  DeviceStore
	bus    *events.Bus
}

// NewStore creates a Store. videos may be nil when no hosted database is
// configured, in which case every owner uses the device store.
func NewStore(videos VideoStore, local DeviceStore, bus *events.Bus) *Store {
	return &Store{videos: videos, local: local, bus: bus}
}

// For returns the history of owner
func (s *Store) For(owner model.Owner) *History {
	var backend Backend
	if owner.Authenticated() && s.videos != nil {
		backend = NewRemoteBackend(s.videos, owner.UserID)
	} else {
		backend = NewLocalBackend(s.local, owner.Key())
	}
	return &History{owner: owner, backend: backend, bus: s.bus}
}

// History is one owner's capped, newest-first submission list
type History struct {
	owner   model.Owner
	backend Backend
	bus     *events.Bus
}

// Append adds item, filling in ID and CreatedAt when unset
func (h *History) Append(ctx context.Context, item model.HistoryItem) (model.HistoryItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	if err := h.backend.Append(ctx, item); err != nil {
		return item, fmt.Errorf("failed to append history: %w", err)
	}
	h.publish(ctx)
	return item, nil
}

// Remove deletes one item
func (h *History) Remove(ctx context.Context, id uuid.UUID) error {
	if err := h.backend.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to remove history item: %w", err)
	}
	h.publish(ctx)
	return nil
}

// Clear deletes every item
func (h *History) Clear(ctx context.Context) error {
	if err := h.backend.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	h.publish(ctx)
	return nil
}

// List returns at most MaxHistoryItems items, newest first
func (h *History) List(ctx context.Context) ([]model.HistoryItem, error) {
	items, err := h.backend.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	if len(items) > model.MaxHistoryItems {
		items = items[:model.MaxHistoryItems]
	}
	return items, nil
}

// Get returns one item, or nil if it does not exist
func (h *History) Get(ctx context.Context, id uuid.UUID) (*model.HistoryItem, error) {
	item, err := h.backend.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get history item: %w", err)
	}
	return item, nil
}

func (h *History) publish(ctx context.Context) {
	if h.bus == nil {
		return
	}
	items, err := h.List(ctx)
	if err != nil {
		slog.Warn("failed to reload history for broadcast", "owner", h.owner.Key(), "error", err)
		return
	}
	h.bus.Publish(events.Event{Type: events.HistoryUpdated, Owner: h.owner.Key(), History: items})
}
