package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

// ActivityStore is an in-memory implementation of storage.ActivityStore.
// Activities are kept in insertion order.
type ActivityStore struct {
	mu         sync.RWMutex
	activities []*domain.WalletActivity
}

// NewActivityStore creates a new in-memory activity store.
func NewActivityStore() *ActivityStore {
	return &ActivityStore{}
}

var _ storage.ActivityStore = (*ActivityStore)(nil)

// Append adds a new activity.
func (s *ActivityStore) Append(_ context.Context, a *domain.WalletActivity) error {
	if a == nil || a.WalletID == "" || a.ActivityType == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	for _, existing := range s.activities {
		if existing.ID == a.ID {
			return storage.ErrDuplicateKey
		}
	}

	activityCopy := *a
	s.activities = append(s.activities, &activityCopy)
	return nil
}

// ListByWallet retrieves all activities for a wallet in insertion order.
func (s *ActivityStore) ListByWallet(_ context.Context, walletID string) ([]*domain.WalletActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.WalletActivity
	for _, a := range s.activities {
		if a.WalletID == walletID {
			activityCopy := *a
			result = append(result, &activityCopy)
		}
	}
	return result, nil
}
