package history

import (
	"context"

	"github.com/drywaters/glimpse/internal/model"
	"github.com/google/uuid"
)

// Backend is one place history can live. Implementations are scoped to a
// single owner.
type Backend interface {
	Append(ctx context.Context, item model.HistoryItem) error
	Remove(ctx context.Context, id uuid.UUID) error
	Clear(ctx context.Context) error
	List(ctx context.Context) ([]model.HistoryItem, error)
	Get(ctx context.Context, id uuid.UUID) (*model.HistoryItem, error)
}

// VideoStore is the hosted table behind RemoteBackend
type VideoStore interface {
	Create(ctx context.Context, userID uuid.UUID, item model.HistoryItem) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.HistoryItem, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*model.HistoryItem, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) error
	TrimToNewest(ctx context.Context, userID uuid.UUID, keep int) error
}

// DeviceStore is the per-device store behind LocalBackend
type DeviceStore interface {
	AppendHistory(ctx context.Context, owner string, item model.HistoryItem, limit int) error
	ListHistory(ctx context.Context, owner string, limit int) ([]model.HistoryItem, error)
	GetHistory(ctx context.Context, owner string, id uuid.UUID) (*model.HistoryItem, error)
	RemoveHistory(ctx context.Context, owner string, id uuid.UUID) error
	ClearHistory(ctx context.Context, owner string) error
}

// RemoteBackend keeps a signed-in user's history in the hosted videos table
type RemoteBackend struct {
	videos VideoStore
	userID uuid.UUID
}

// NewRemoteBackend creates a backend for userID
func NewRemoteBackend(videos VideoStore, userID uuid.UUID) *RemoteBackend {
	return &RemoteBackend{videos: videos, userID: userID}
}

func (b *RemoteBackend) Append(ctx context.Context, item model.HistoryItem) error {
	if err := b.videos.Create(ctx, b.userID, item); err != nil {
		return err
	}
	return b.videos.TrimToNewest(ctx, b.userID, model.MaxHistoryItems)
}

func (b *RemoteBackend) Remove(ctx context.Context, id uuid.UUID) error {
	return b.videos.Delete(ctx, b.userID, id)
}

func (b *RemoteBackend) Clear(ctx context.Context) error {
	return b.videos.DeleteAll(ctx, b.userID)
}

func (b *RemoteBackend) List(ctx context.Context) ([]model.HistoryItem, error) {
	return b.videos.ListByUser(ctx, b.userID, model.MaxHistoryItems)
}

func (b *RemoteBackend) Get(ctx context.Context, id uuid.UUID) (*model.HistoryItem, error) {
	return b.videos.GetByID(ctx, b.userID, id)
}

// LocalBackend keeps an anonymous device's history in the local store only
type LocalBackend struct {
	store DeviceStore
	owner string
}

// NewLocalBackend creates a backend for the owner key
func NewLocalBackend(store DeviceStore, owner string) *LocalBackend {
	return &LocalBackend{store: store, owner: owner}
}

func (b *LocalBackend) Append(ctx context.Context, item model.HistoryItem) error {
	return b.store.AppendHistory(ctx, b.owner, item, model.MaxHistoryItems)
}

func (b *LocalBackend) Remove(ctx context.Context, id uuid.UUID) error {
	return b.store.RemoveHistory(ctx, b.owner, id)
}

func (b *LocalBackend) Clear(ctx context.Context) error {
	return b.store.ClearHistory(ctx, b.owner)
}

func (b *LocalBackend) List(ctx context.Context) ([]model.HistoryItem, error) {
	return b.store.ListHistory(ctx, b.owner, model.MaxHistoryItems)
}

func (b *LocalBackend) Get(ctx context.Context, id uuid.UUID) (*model.HistoryItem, error) {
	return b.store.GetHistory(ctx, b.owner, id)
}
