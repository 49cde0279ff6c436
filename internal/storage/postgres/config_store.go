package postgres

import (
	"context"
	"fmt"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

// ConfigStore implements storage.ConfigStore using PostgreSQL.
type ConfigStore struct {
	pool *Pool
}

// NewConfigStore creates a new ConfigStore.
func NewConfigStore(pool *Pool) *ConfigStore {
	return &ConfigStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ConfigStore = (*ConfigStore)(nil)

// Get retrieves an entry. Returns ErrNotFound if not exists.
func (s *ConfigStore) Get(ctx context.Context, key string) (*domain.ConfigEntry, error) {
	var e domain.ConfigEntry
	err := s.pool.QueryRow(ctx,
		`SELECT key, value, updated_at FROM config WHERE key = $1`, key,
	).Scan(&e.Key, &e.Value, &e.UpdatedAt)
	if err != nil {
		return nil, translate("get config "+key, err)
	}
	return &e, nil
}

// Upsert inserts or replaces an entry.
func (s *ConfigStore) Upsert(ctx context.Context, key, value string) error {
	if key == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO config (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	if _, err := s.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert config %s: %w", key, err)
	}
	return nil
}
