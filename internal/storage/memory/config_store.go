package memory

import (
	"context"
	"sync"
	"time"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

// ConfigStore is an in-memory implementation of storage.ConfigStore.
type ConfigStore struct {
	mu      sync.RWMutex
	entries map[string]*domain.ConfigEntry
}

// NewConfigStore creates a new in-memory config store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{entries: make(map[string]*domain.ConfigEntry)}
}

var _ storage.ConfigStore = (*ConfigStore)(nil)

// Get retrieves an entry. Returns ErrNotFound if not exists.
func (s *ConfigStore) Get(_ context.Context, key string) (*domain.ConfigEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[key]
	if !exists {
		return nil, storage.ErrNotFound
	}
	entryCopy := *e
	return &entryCopy, nil
}

// Upsert inserts or replaces an entry.
func (s *ConfigStore) Upsert(_ context.Context, key, value string) error {
	if key == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &domain.ConfigEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return nil
}
