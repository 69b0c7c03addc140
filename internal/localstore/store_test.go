package localstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/drywaters/glimpse/internal/model"
	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "local.db"))
	if err != nil {
		t.Fatalf("failed to open local store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestKeyValue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	if _, ok, err := s.Get(ctx, "device:a", KeyPreferredLanguage); err != nil || ok {
		t.Fatalf("Get on empty store = ok %v err %v", ok, err)
	}

	if err := s.Set(ctx, "device:a", KeyPreferredLanguage, "Hindi"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "device:a", KeyPreferredLanguage, "Tamil"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	v, ok, err := s.Get(ctx, "device:a", KeyPreferredLanguage)
	if err != nil || !ok || v != "Tamil" {
		t.Fatalf("Get = %q %v %v, want Tamil", v, ok, err)
	}

	if _, ok, _ := s.Get(ctx, "device:b", KeyPreferredLanguage); ok {
		t.Fatal("value leaked to another owner")
	}

	if err := s.Delete(ctx, "device:a", KeyPreferredLanguage); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "device:a", KeyPreferredLanguage); ok {
		t.Fatal("value still present after delete")
	}
}

func TestHistoryTrimsOldestBeyondLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 13; i++ {
		item := model.HistoryItem{
			ID:        uuid.New(),
			Title:     "video",
			SourceURL: "https://www.youtube.com/watch?v=abc12345678",
			Language:  "English",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		ids = append(ids, item.ID)
		if err := s.AppendHistory(ctx, "device:a", item, model.MaxHistoryItems); err != nil {
			t.Fatalf("AppendHistory %d: %v", i, err)
		}
	}

	items, err := s.ListHistory(ctx, "device:a", 100)
	if err != nil {
		t.Fatalf("ListHistory: %v", err)
	}
	if len(items) != model.MaxHistoryItems {
		t.Fatalf("len = %d, want %d", len(items), model.MaxHistoryItems)
	}
	if items[0].ID != ids[12] || items[len(items)-1].ID != ids[3] {
		t.Fatalf("unexpected order: first %v last %v", items[0].ID, items[len(items)-1].ID)
	}
	if !items[0].CreatedAt.Equal(base.Add(12 * time.Minute)) {
		t.Fatalf("CreatedAt = %v", items[0].CreatedAt)
	}
}

func TestHistoryRemoveAndClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	a := model.HistoryItem{ID: uuid.New(), Title: "a", SourceURL: "file://a.mp3", Language: "English", CreatedAt: time.Now()}
	b := model.HistoryItem{ID: uuid.New(), Title: "b", SourceURL: "file://b.mp3", Language: "English", CreatedAt: time.Now()}
	for _, it := range []model.HistoryItem{a, b} {
		if err := s.AppendHistory(ctx, "device:a", it, 10); err != nil {
			t.Fatalf("AppendHistory: %v", err)
		}
	}
	if err := s.AppendHistory(ctx, "device:other", model.HistoryItem{ID: uuid.New(), Title: "c", SourceURL: "file://c.mp3", Language: "English", CreatedAt: time.Now()}, 10); err != nil {
		t.Fatalf("AppendHistory other: %v", err)
	}

	got, err := s.GetHistory(ctx, "device:a", a.ID)
	if err != nil || got == nil || got.Title != "a" {
		t.Fatalf("GetHistory = %+v, %v", got, err)
	}
	if missing, err := s.GetHistory(ctx, "device:other", a.ID); err != nil || missing != nil {
		t.Fatalf("GetHistory across owners = %+v, %v", missing, err)
	}

	if err := s.RemoveHistory(ctx, "device:a", a.ID); err != nil {
		t.Fatalf("RemoveHistory: %v", err)
	}
	items, _ := s.ListHistory(ctx, "device:a", 10)
	if len(items) != 1 || items[0].ID != b.ID {
		t.Fatalf("after remove = %+v", items)
	}

	if err := s.ClearHistory(ctx, "device:a"); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	items, _ = s.ListHistory(ctx, "device:a", 10)
	if len(items) != 0 {
		t.Fatalf("after clear = %+v", items)
	}
	others, _ := s.ListHistory(ctx, "device:other", 10)
	if len(others) != 1 {
		t.Fatalf("clear touched another owner: %+v", others)
	}
}
