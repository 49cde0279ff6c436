package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

// TokenStore is an in-memory implementation of storage.TokenStore.
type TokenStore struct {
	mu     sync.RWMutex
	byID   map[string]*domain.Token
	byMint map[string]*domain.Token
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		byID:   make(map[string]*domain.Token),
		byMint: make(map[string]*domain.Token),
	}
}

var _ storage.TokenStore = (*TokenStore)(nil)

// Insert adds a new token. Returns ErrDuplicateKey if id or mint exists.
func (s *TokenStore) Insert(_ context.Context, t *domain.Token) error {
	if t == nil || t.MintAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	if _, exists := s.byID[t.ID]; exists {
		return storage.ErrDuplicateKey
	}
	if _, exists := s.byMint[t.MintAddress]; exists {
		return storage.ErrDuplicateKey
	}

	tokenCopy := *t
	s.byID[t.ID] = &tokenCopy
	s.byMint[t.MintAddress] = &tokenCopy
	return nil
}

// GetByMint retrieves a token by mint. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByMint(_ context.Context, mint string) (*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.byMint[mint]
	if !exists {
		return nil, storage.ErrNotFound
	}
	tokenCopy := *t
	return &tokenCopy, nil
}

// LatestCreationByIP returns the newest created_at for the IP since the cutoff.
func (s *TokenStore) LatestCreationByIP(_ context.Context, creatorIP string, since time.Time) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest time.Time
	for _, t := range s.byID {
		if t.CreatorIP != creatorIP || t.CreatedAt.Before(since) {
			continue
		}
		if t.CreatedAt.After(latest) {
			latest = t.CreatedAt
		}
	}
	if latest.IsZero() {
		return time.Time{}, storage.ErrNotFound
	}
	return latest, nil
}

// CreationsByFeeAccount returns matching creation times, newest first.
func (s *TokenStore) CreationsByFeeAccount(_ context.Context, normalized string, since time.Time) ([]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var times []time.Time
	for _, t := range s.byID {
		if t.FeeAccount == nil || t.CreatedAt.Before(since) {
			continue
		}
		if domain.NormalizeFeeAccount(*t.FeeAccount) != normalized {
			continue
		}
		times = append(times, t.CreatedAt)
	}
	sort.Slice(times, func(i, j int) bool {
		return times[i].After(times[j])
	})
	return times, nil
}

// List returns one page of matching tokens, newest first, and the total count.
func (s *TokenStore) List(_ context.Context, filter domain.TokenFilter) ([]*domain.Token, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	excluded := make(map[string]bool, len(filter.ExcludedFeeAccounts))
	for _, h := range filter.ExcludedFeeAccounts {
		excluded[domain.NormalizeFeeAccount(h)] = true
	}
	search := strings.ToLower(filter.Search)

	var matched []*domain.Token
	for _, t := range s.byID {
		if filter.Status != "" && filter.Status != "all" && t.Status != filter.Status {
			continue
		}
		if t.FeeAccount != nil && excluded[domain.NormalizeFeeAccount(*t.FeeAccount)] {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Name), search) &&
			!strings.Contains(strings.ToLower(t.Symbol), search) &&
			!strings.Contains(strings.ToLower(t.MintAddress), search) {
			continue
		}
		matched = append(matched, t)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := filter.Offset()
	if start > total {
		start = total
	}
	end := total
	if filter.Limit > 0 && start+filter.Limit < total {
		end = start + filter.Limit
	}

	page := make([]*domain.Token, 0, end-start)
	for _, t := range matched[start:end] {
		tokenCopy := *t
		page = append(page, &tokenCopy)
	}
	return page, total, nil
}
