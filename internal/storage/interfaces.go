package storage

import (
	"context"
	"time"

	"solana-launchpad/internal/domain"
)

// WalletStore provides access to secure_wallets storage.
type WalletStore interface {
	// Insert adds a new wallet. Generates w.ID when empty.
	// Returns ErrDuplicateKey if id or public_key exists.
	Insert(ctx context.Context, w *domain.SecureWallet) error

	// RecordFunding stores the funding signature and initial balance.
	// Repeating the call with the same values is a no-op. Returns ErrNotFound if id does not exist.
	RecordFunding(ctx context.Context, id, signature string, amountSOL float64) error

	// UpdateNotes replaces the free-text notes. Returns ErrNotFound if id does not exist.
	UpdateNotes(ctx context.Context, id, notes string) error

	// GetByID retrieves a wallet by ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.SecureWallet, error)
}

// ActivityStore provides access to wallet_activities storage (append-only).
type ActivityStore interface {
	// Append adds a new activity. Generates a.ID and a.CreatedAt when empty.
	Append(ctx context.Context, a *domain.WalletActivity) error

	// ListByWallet retrieves all activities for a wallet, ordered by created_at ASC.
	ListByWallet(ctx context.Context, walletID string) ([]*domain.WalletActivity, error)
}

// TokenStore provides access to tokens storage.
type TokenStore interface {
	// Insert adds a new token. Generates t.ID when empty.
	// Returns ErrDuplicateKey if id or mint_address exists.
	Insert(ctx context.Context, t *domain.Token) error

	// GetByMint retrieves a token by mint address. Returns ErrNotFound if not exists.
	GetByMint(ctx context.Context, mint string) (*domain.Token, error)

	// LatestCreationByIP returns the most recent created_at for creatorIP
	// at or after since. Returns ErrNotFound if none.
	LatestCreationByIP(ctx context.Context, creatorIP string, since time.Time) (time.Time, error)

	// CreationsByFeeAccount returns created_at of every token whose normalized
	// fee account equals normalized, at or after since, ordered DESC.
	CreationsByFeeAccount(ctx context.Context, normalized string, since time.Time) ([]time.Time, error)

	// List returns one page of tokens ordered by created_at DESC plus the
	// total number of matching rows.
	List(ctx context.Context, filter domain.TokenFilter) ([]*domain.Token, int, error)
}

// ConfigStore provides access to config key/value storage.
type ConfigStore interface {
	// Get retrieves an entry. Returns ErrNotFound if not exists.
	Get(ctx context.Context, key string) (*domain.ConfigEntry, error)

	// Upsert inserts or replaces an entry.
	Upsert(ctx context.Context, key, value string) error
}
