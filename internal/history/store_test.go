package history

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/drywaters/glimpse/internal/events"
	"github.com/drywaters/glimpse/internal/localstore"
	"github.com/drywaters/glimpse/internal/model"
	"github.com/google/uuid"
)

// memoryVideos is an in-memory VideoStore
type memoryVideos struct {
	mu    sync.Mutex
	items map[uuid.UUID][]model.HistoryItem
}

func newMemoryVideos() *memoryVideos {
	return &memoryVideos{items: make(map[uuid.UUID][]model.HistoryItem)}
}

func (m *memoryVideos) Create(ctx context.Context, userID uuid.UUID, item model.HistoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[userID] = append(m.items[userID], item)
	return nil
}

func (m *memoryVideos) sorted(userID uuid.UUID) []model.HistoryItem {
	out := append([]model.HistoryItem(nil), m.items[userID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memoryVideos) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.HistoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sorted(userID)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryVideos) GetByID(ctx context.Context, userID, id uuid.UUID) (*model.HistoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items[userID] {
		if it.ID == id {
			it := it
			return &it, nil
		}
	}
	return nil, nil
}

func (m *memoryVideos) Delete(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.items[userID][:0]
	for _, it := range m.items[userID] {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	m.items[userID] = kept
	return nil
}

func (m *memoryVideos) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, userID)
	return nil
}

func (m *memoryVideos) TrimToNewest(ctx context.Context, userID uuid.UUID, keep int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sorted(userID)
	if len(out) > keep {
		out = out[:keep]
	}
	m.items[userID] = out
	return nil
}

func newTestStore(t *testing.T, bus *events.Bus) (*Store, *memoryVideos) {
	t.Helper()

	local, err := localstore.Open(context.Background(), filepath.Join(t.TempDir(), "local.db"))
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	t.Cleanup(func() { _ = local.Close() })

	videos := newMemoryVideos()
	return NewStore(videos, local, bus), videos
}

func TestHistoryCapsAtTenNewestFirst(t *testing.T) {
	t.Parallel()

	owners := map[string]model.Owner{
		"device": {DeviceID: "dev-1"},
		"user":   {UserID: uuid.New(), DeviceID: "dev-1"},
	}

	for name, owner := range owners {
		owner := owner
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			store, _ := newTestStore(t, nil)
			h := store.For(owner)
			ctx := context.Background()
			base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

			var appended []model.HistoryItem
			for i := 0; i < 15; i++ {
				item, err := h.Append(ctx, model.HistoryItem{
					Title:     "video",
					SourceURL: "https://www.youtube.com/watch?v=abc12345678",
					Language:  "English",
					CreatedAt: base.Add(time.Duration(i) * time.Minute),
				})
				if err != nil {
					t.Fatalf("Append %d: %v", i, err)
				}
				appended = append(appended, item)

				items, err := h.List(ctx)
				if err != nil {
					t.Fatalf("List: %v", err)
				}
				if len(items) > model.MaxHistoryItems {
					t.Fatalf("history has %d items", len(items))
				}
			}

			items, _ := h.List(ctx)
			if len(items) != model.MaxHistoryItems {
				t.Fatalf("len = %d, want %d", len(items), model.MaxHistoryItems)
			}
			for i, item := range items {
				want := appended[len(appended)-1-i]
				if item.ID != want.ID {
					t.Fatalf("item %d = %v, want %v", i, item.ID, want.ID)
				}
			}
		})
	}
}

func TestHistoryTargetsAreNotMerged(t *testing.T) {
	t.Parallel()

	store, videos := newTestStore(t, nil)
	ctx := context.Background()

	device := model.Owner{DeviceID: "dev-1"}
	user := model.Owner{UserID: uuid.New(), DeviceID: "dev-1"}

	if _, err := store.For(device).Append(ctx, model.HistoryItem{Title: "anon", SourceURL: "file://a.mp3", Language: "English"}); err != nil {
		t.Fatalf("device Append: %v", err)
	}
	if _, err := store.For(user).Append(ctx, model.HistoryItem{Title: "mine", SourceURL: "file://b.mp3", Language: "English"}); err != nil {
		t.Fatalf("user Append: %v", err)
	}

	userItems, _ := store.For(user).List(ctx)
	if len(userItems) != 1 || userItems[0].Title != "mine" {
		t.Fatalf("user history = %+v", userItems)
	}
	deviceItems, _ := store.For(device).List(ctx)
	if len(deviceItems) != 1 || deviceItems[0].Title != "anon" {
		t.Fatalf("device history = %+v", deviceItems)
	}
	if len(videos.items[user.UserID]) != 1 {
		t.Fatalf("remote rows = %d, want 1", len(videos.items[user.UserID]))
	}
}

func TestHistoryMutationsPublish(t *testing.T) {
	t.Parallel()

	bus := events.NewBus()
	var mu sync.Mutex
	var lens []int
	bus.Subscribe(func(ev events.Event) {
		mu.Lock()
		lens = append(lens, len(ev.History))
		mu.Unlock()
	}, events.HistoryUpdated)

	store, _ := newTestStore(t, bus)
	h := store.For(model.Owner{DeviceID: "dev-2"})
	ctx := context.Background()

	first, err := h.Append(ctx, model.HistoryItem{Title: "a", SourceURL: "file://a.mp3", Language: "English"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := h.Append(ctx, model.HistoryItem{Title: "b", SourceURL: "file://b.mp3", Language: "English"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := h.Remove(ctx, first.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := h.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []int{1, 2, 1, 0}
	if len(lens) != len(want) {
		t.Fatalf("published %v, want %v", lens, want)
	}
	for i := range want {
		if lens[i] != want[i] {
			t.Fatalf("published %v, want %v", lens, want)
		}
	}
}
