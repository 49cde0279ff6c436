package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

// WalletStore is an in-memory implementation of storage.WalletStore.
type WalletStore struct {
	mu          sync.RWMutex
	byID        map[string]*domain.SecureWallet
	byPublicKey map[string]string // public_key -> id
}

// NewWalletStore creates a new in-memory wallet store.
func NewWalletStore() *WalletStore {
	return &WalletStore{
		byID:        make(map[string]*domain.SecureWallet),
		byPublicKey: make(map[string]string),
	}
}

var _ storage.WalletStore = (*WalletStore)(nil)

// Insert adds a new wallet. Returns ErrDuplicateKey if id or public key exists.
func (s *WalletStore) Insert(_ context.Context, w *domain.SecureWallet) error {
	if w == nil || w.PublicKey == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}

	if _, exists := s.byID[w.ID]; exists {
		return storage.ErrDuplicateKey
	}
	if _, exists := s.byPublicKey[w.PublicKey]; exists {
		return storage.ErrDuplicateKey
	}

	walletCopy := *w
	s.byID[w.ID] = &walletCopy
	s.byPublicKey[w.PublicKey] = w.ID
	return nil
}

// RecordFunding stores the funding signature and initial balance.
func (s *WalletStore) RecordFunding(_ context.Context, id, signature string, amountSOL float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, exists := s.byID[id]
	if !exists {
		return storage.ErrNotFound
	}
	sig := signature
	w.FundingTransaction = &sig
	w.InitialBalanceSOL = amountSOL
	return nil
}

// UpdateNotes replaces the wallet notes.
func (s *WalletStore) UpdateNotes(_ context.Context, id, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, exists := s.byID[id]
	if !exists {
		return storage.ErrNotFound
	}
	w.Notes = notes
	return nil
}

// GetByID retrieves a wallet by ID. Returns ErrNotFound if not exists.
func (s *WalletStore) GetByID(_ context.Context, id string) (*domain.SecureWallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, exists := s.byID[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	walletCopy := *w
	return &walletCopy, nil
}
