package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/drywaters/glimpse/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("failed to ping test database: %v", err)
	}
	if err := EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("failed to ensure schema: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

func createTestUser(t *testing.T, pool *pgxpool.Pool) *model.User {
	t.Helper()

	ctx := context.Background()
	users := NewUserRepository(pool)
	user, err := users.Create(ctx, uuid.NewString()+"@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, user.ID)
	})
	return user
}

func TestUserRepository(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	user := createTestUser(t, pool)
	users := NewUserRepository(pool)

	got, err := users.GetByEmail(ctx, "  "+user.Email+" ")
	if err != nil || got == nil || got.ID != user.ID {
		t.Fatalf("GetByEmail = %+v, %v", got, err)
	}

	if _, err := users.Create(ctx, user.Email, "other"); err != ErrEmailTaken {
		t.Fatalf("duplicate Create err = %v, want ErrEmailTaken", err)
	}

	missing, err := users.GetByEmail(ctx, "nobody-"+uuid.NewString()+"@example.com")
	if err != nil || missing != nil {
		t.Fatalf("GetByEmail(missing) = %+v, %v", missing, err)
	}
}

func TestVideoRepositoryTrim(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	user := createTestUser(t, pool)
	videos := NewVideoRepository(pool)

	base := time.Now().Add(-time.Hour).UTC().Truncate(time.Microsecond)
	var newest uuid.UUID
	for i := 0; i < 12; i++ {
		item := model.HistoryItem{
			ID:        uuid.New(),
			Title:     "video",
			SourceURL: "https://www.youtube.com/watch?v=abc12345678",
			Language:  "English",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		newest = item.ID
		if err := videos.Create(ctx, user.ID, item); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if err := videos.TrimToNewest(ctx, user.ID, model.MaxHistoryItems); err != nil {
		t.Fatalf("TrimToNewest: %v", err)
	}

	items, err := videos.ListByUser(ctx, user.ID, 100)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(items) != model.MaxHistoryItems || items[0].ID != newest {
		t.Fatalf("got %d items, first %v", len(items), items[0].ID)
	}

	if err := videos.Delete(ctx, user.ID, newest); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, err := videos.GetByID(ctx, user.ID, newest); err != nil || got != nil {
		t.Fatalf("GetByID after delete = %+v, %v", got, err)
	}

	if err := videos.DeleteAll(ctx, user.ID); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	items, _ = videos.ListByUser(ctx, user.ID, 100)
	if len(items) != 0 {
		t.Fatalf("items after DeleteAll = %d", len(items))
	}
}

func TestSummaryRepositoryUpsert(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	user := createTestUser(t, pool)
	summaries := NewSummaryRepository(pool)

	videoID := "t" + uuid.NewString()[:10]
	t.Cleanup(func() { _, _ = pool.Exec(ctx, `DELETE FROM summaries WHERE video_id = $1`, videoID) })

	first := &model.SummaryResult{VideoID: videoID, SummaryTranslated: "first", Language: "English"}
	if err := summaries.Upsert(ctx, user.ID, first); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	second := &model.SummaryResult{
		VideoID:           videoID,
		SummaryTranslated: "second",
		Language:          "Hindi",
		Sentiment:         &model.Sentiment{Label: model.SentimentPositive, Score: 0.8},
	}
	if err := summaries.Upsert(ctx, user.ID, second); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}

	var (
		summary, language string
		score             *float64
	)
	err := pool.QueryRow(ctx,
		`SELECT summary_translated, language, sentiment_score FROM summaries WHERE video_id = $1`, videoID,
	).Scan(&summary, &language, &score)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if summary != "second" || language != "Hindi" || score == nil || *score != 0.8 {
		t.Fatalf("stored summary = %q, %q, %v", summary, language, score)
	}
}

func TestPreferenceAndLogRepositories(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	user := createTestUser(t, pool)
	prefs := NewPreferenceRepository(pool)
	logs := NewProcessingLogRepository(pool)

	if p, err := prefs.Get(ctx, user.ID); err != nil || p != nil {
		t.Fatalf("Get before save = %+v, %v", p, err)
	}
	if err := prefs.Upsert(ctx, user.ID, "Tamil"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := prefs.Upsert(ctx, user.ID, "Marathi"); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	if p, err := prefs.Get(ctx, user.ID); err != nil || p == nil || p.Language != "Marathi" {
		t.Fatalf("Get = %+v, %v", p, err)
	}

	now := time.Now().UTC()
	for i, msg := range []string{"Starting processing", "Processing complete"} {
		ev := model.NewLogEvent(msg, now.Add(time.Duration(i)*time.Second))
		if err := logs.Insert(ctx, user.ID, "abc12345678", ev); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	recent, err := logs.ListRecent(ctx, user.ID, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recent) != 2 || recent[1].Severity != model.SeveritySuccess {
		t.Fatalf("recent = %+v", recent)
	}
}
