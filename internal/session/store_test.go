package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStoreLifecycle(t *testing.T) {
	t.Parallel()

	store := NewStore(200 * time.Millisecond)
	t.Cleanup(store.Close)

	userID := uuid.New()
	token, err := store.Create(userID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, ok := store.Lookup(token)
	if !ok || got != userID {
		t.Fatalf("Lookup = %v, %v; want %v, true", got, ok, userID)
	}

	time.Sleep(100 * time.Millisecond)
	store.Refresh(token)

	time.Sleep(120 * time.Millisecond)
	if _, ok := store.Lookup(token); !ok {
		t.Fatalf("expected session to be valid after refresh")
	}

	store.Delete(token)
	if _, ok := store.Lookup(token); ok {
		t.Fatalf("expected session to be invalid after delete")
	}
}

func TestStoreExpires(t *testing.T) {
	t.Parallel()

	store := NewStore(150 * time.Millisecond)
	t.Cleanup(store.Close)

	token, err := store.Create(uuid.New())
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	time.Sleep(200 * time.Millisecond)
	if _, ok := store.Lookup(token); ok {
		t.Fatalf("expected session to expire")
	}
}

func TestStoreUnknownToken(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	t.Cleanup(store.Close)

	if _, ok := store.Lookup("nope"); ok {
		t.Fatalf("unknown token should not be valid")
	}
	store.Refresh("nope")
	store.Delete("nope")
}
