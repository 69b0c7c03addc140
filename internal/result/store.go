package result

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/drywaters/glimpse/internal/events"
	"github.com/drywaters/glimpse/internal/localstore"
	"github.com/drywaters/glimpse/internal/model"
)

// Cache persists the last result across restarts
type Cache interface {
	Get(ctx context.Context, owner, key string) (string, bool, error)
	Set(ctx context.Context, owner, key, value string) error
}

// Store holds the one current result per owner. Memory is authoritative;
// the cache is only read when memory has nothing for an owner.
type Store struct {
	pubMu   sync.Mutex
	mu      sync.RWMutex
	current map[string]*model.SummaryResult
	cache   Cache
	bus     *events.Bus
}

// NewStore creates a Store. cache and bus may be nil.
func NewStore(cache Cache, bus *events.Bus) *Store {
	return &Store{
		current: make(map[string]*model.SummaryResult),
		cache:   cache,
		bus:     bus,
	}
}

// Publish replaces owner's current result, writes it to the cache and
// notifies subscribers before returning. Concurrent publishes are
// delivered in the order they take effect.
func (s *Store) Publish(ctx context.Context, owner model.Owner, r *model.SummaryResult) {
	if r == nil {
		return
	}
	key := owner.Key()
	stored := r.Clone()

	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	s.current[key] = stored
	s.mu.Unlock()

	if s.cache != nil {
		if data, err := json.Marshal(stored); err != nil {
			slog.Warn("failed to encode result for cache", "owner", key, "error", err)
		} else if err := s.cache.Set(ctx, key, localstore.KeySummaryData, string(data)); err != nil {
			slog.Warn("failed to cache result", "owner", key, "error", err)
		}
	}

	if s.bus != nil {
		s.bus.Publish(events.Event{Type: events.SummaryUpdated, Owner: key, Summary: stored.Clone()})
	}
}

// Last returns a copy of owner's current result, or nil if there is none
func (s *Store) Last(ctx context.Context, owner model.Owner) (*model.SummaryResult, error) {
	key := owner.Key()

	s.mu.RLock()
	r, ok := s.current[key]
	s.mu.RUnlock()
	if ok {
		return r.Clone(), nil
	}

	if s.cache == nil {
		return nil, nil
	}
	data, found, err := s.cache.Get(ctx, key, localstore.KeySummaryData)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached result: %w", err)
	}
	if !found {
		return nil, nil
	}

	var cached model.SummaryResult
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		// A corrupt cache entry is the same as no entry
		slog.Warn("discarding unreadable cached result", "owner", key, "error", err)
		return nil, nil
	}

	s.mu.Lock()
	// a publish may have landed while we were reading the cache
	if existing, ok := s.current[key]; ok {
		s.mu.Unlock()
		return existing.Clone(), nil
	}
	s.current[key] = &cached
	s.mu.Unlock()
	return cached.Clone(), nil
}

// Subscribe calls fn with every published result. The returned function
// unsubscribes.
func (s *Store) Subscribe(fn func(owner string, r *model.SummaryResult)) func() {
	if s.bus == nil {
		return func() {}
	}
	return s.bus.Subscribe(func(ev events.Event) {
		fn(ev.Owner, ev.Summary)
	}, events.SummaryUpdated)
}
