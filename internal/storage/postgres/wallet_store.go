package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

// WalletStore implements storage.WalletStore using PostgreSQL.
type WalletStore struct {
	pool *Pool
}

// NewWalletStore creates a new WalletStore.
func NewWalletStore(pool *Pool) *WalletStore {
	return &WalletStore{pool: pool}
}

// Compile-time interface check.
var _ storage.WalletStore = (*WalletStore)(nil)

// Insert adds a new wallet. Returns ErrDuplicateKey if id or public_key exists.
func (s *WalletStore) Insert(ctx context.Context, w *domain.SecureWallet) error {
	if w == nil || w.PublicKey == "" {
		return storage.ErrInvalidInput
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}

	query := `
		INSERT INTO secure_wallets (
			id, public_key, private_key, api_key, creator_ip,
			is_active, notes, funding_transaction, initial_balance_sol
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err := s.pool.QueryRow(ctx, query,
		w.ID,
		w.PublicKey,
		w.PrivateKey,
		w.APIKey,
		w.CreatorIP,
		w.IsActive,
		w.Notes,
		w.FundingTransaction,
		w.InitialBalanceSOL,
	).Scan(&w.CreatedAt)
	return translate("insert wallet", err)
}

// RecordFunding stores the funding signature and initial balance.
func (s *WalletStore) RecordFunding(ctx context.Context, id, signature string, amountSOL float64) error {
	query := `
		UPDATE secure_wallets
		SET funding_transaction = $2, initial_balance_sol = $3
		WHERE id = $1::uuid
	`

	tag, err := s.pool.Exec(ctx, query, id, signature, amountSOL)
	if err != nil {
		return translate("record wallet funding", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// UpdateNotes replaces the wallet notes.
func (s *WalletStore) UpdateNotes(ctx context.Context, id, notes string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE secure_wallets SET notes = $2 WHERE id = $1::uuid`, id, notes)
	if err != nil {
		return translate("update wallet notes", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetByID retrieves a wallet by ID. Returns ErrNotFound if not exists.
func (s *WalletStore) GetByID(ctx context.Context, id string) (*domain.SecureWallet, error) {
	query := `
		SELECT id::text, public_key, private_key, api_key, created_at, creator_ip,
			is_active, notes, funding_transaction, initial_balance_sol
		FROM secure_wallets
		WHERE id = $1::uuid
	`

	w, err := scanWallet(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate("get wallet by id", err)
	}
	return w, nil
}

func scanWallet(row pgx.Row) (*domain.SecureWallet, error) {
	var w domain.SecureWallet
	err := row.Scan(
		&w.ID,
		&w.PublicKey,
		&w.PrivateKey,
		&w.APIKey,
		&w.CreatedAt,
		&w.CreatorIP,
		&w.IsActive,
		&w.Notes,
		&w.FundingTransaction,
		&w.InitialBalanceSOL,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
