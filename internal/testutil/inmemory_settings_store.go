package testutil

import (
	"context"
	"sync"

	"github.com/netbill/netbill/internal/domain/settings"
	ierr "github.com/netbill/netbill/internal/errors"
)

// InMemorySettingsStore implements settings.Repository. Like the real store
// it holds exactly one row and seeds defaults on first read.
type InMemorySettingsStore struct {
	mu  sync.RWMutex
	row *settings.Settings
}

func NewInMemorySettingsStore() *InMemorySettingsStore {
	return &InMemorySettingsStore{}
}

func copySettings(s *settings.Settings) *settings.Settings {
	if s == nil {
		return nil
	}
	copied := *s
	return &copied
}

func (s *InMemorySettingsStore) Get(ctx context.Context) (*settings.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.row == nil {
		s.row = settings.Default()
	}
	return copySettings(s.row), nil
}

func (s *InMemorySettingsStore) Update(ctx context.Context, set *settings.Settings) error {
	if set == nil {
		return ierr.NewError("settings cannot be nil").Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.row = copySettings(set)
	s.row.Singleton = settings.SingletonID
	return nil
}

func (s *InMemorySettingsStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.row = nil
}
