package preferences

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/drywaters/glimpse/internal/localstore"
	"github.com/drywaters/glimpse/internal/model"
	"github.com/google/uuid"
)

// UserStore is the hosted user_preferences table
type UserStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.Preferences, error)
	Upsert(ctx context.Context, userID uuid.UUID, language string) error
}

// DeviceStore is the per-device key/value store
type DeviceStore interface {
	Get(ctx context.Context, owner, key string) (string, bool, error)
	Set(ctx context.Context, owner, key, value string) error
}

// ErrUnknownLanguage is returned when saving a language that is not supported
type ErrUnknownLanguage struct {
	Value string
}

func (e *ErrUnknownLanguage) Error() string {
	return fmt.Sprintf("unsupported language: %q", e.Value)
}

// Service reads and writes an owner's preferred summary language
type Service struct {
	users   UserStore
	devices DeviceStore
}

// NewService creates a Service. users may be nil when no hosted database
// is configured.
func NewService(users UserStore, devices DeviceStore) *Service {
	return &Service{users: users, devices: devices}
}

// Language returns owner's preferred language, or English when none is saved
func (s *Service) Language(ctx context.Context, owner model.Owner) (model.Language, error) {
	if owner.Authenticated() && s.users != nil {
		prefs, err := s.users.Get(ctx, owner.UserID)
		if err != nil {
			return model.DefaultLanguage, err
		}
		if prefs == nil {
			return model.DefaultLanguage, nil
		}
		return model.NormalizeLanguage(prefs.Language), nil
	}

	value, ok, err := s.devices.Get(ctx, owner.Key(), localstore.KeyPreferredLanguage)
	if err != nil {
		return model.DefaultLanguage, fmt.Errorf("failed to read preferred language: %w", err)
	}
	if !ok {
		return model.DefaultLanguage, nil
	}
	return model.NormalizeLanguage(value), nil
}

// SetLanguage saves owner's preferred language
func (s *Service) SetLanguage(ctx context.Context, owner model.Owner, value string) (model.Language, error) {
	lang, ok := model.LookupLanguage(value)
	if !ok {
		return model.Language{}, &ErrUnknownLanguage{Value: value}
	}

	if owner.Authenticated() && s.users != nil {
		if err := s.users.Upsert(ctx, owner.UserID, lang.Name); err != nil {
			return lang, err
		}
		return lang, nil
	}

	if err := s.devices.Set(ctx, owner.Key(), localstore.KeyPreferredLanguage, lang.Name); err != nil {
		return lang, fmt.Errorf("failed to save preferred language: %w", err)
	}
	return lang, nil
}

// Resolve returns the language for a submission: the explicit request
// value when it names a supported language, otherwise the owner's preference.
func (s *Service) Resolve(ctx context.Context, owner model.Owner, requested string) model.Language {
	if lang, ok := model.LookupLanguage(requested); ok {
		return lang
	}
	lang, err := s.Language(ctx, owner)
	if err != nil {
		slog.Warn("failed to load preferred language", "owner", owner.Key(), "error", err)
		return model.DefaultLanguage
	}
	return lang
}
