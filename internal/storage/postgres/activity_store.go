package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

// ActivityStore implements storage.ActivityStore using PostgreSQL.
type ActivityStore struct {
	pool *Pool
}

// NewActivityStore creates a new ActivityStore.
func NewActivityStore(pool *Pool) *ActivityStore {
	return &ActivityStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ActivityStore = (*ActivityStore)(nil)

// Append adds a new activity. Returns ErrDuplicateKey if id exists.
func (s *ActivityStore) Append(ctx context.Context, a *domain.WalletActivity) error {
	if a == nil || a.WalletID == "" || a.ActivityType == "" {
		return storage.ErrInvalidInput
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO wallet_activities (
			id, wallet_id, activity_type, activity_description,
			transaction_signature, amount_sol, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		a.ID,
		a.WalletID,
		string(a.ActivityType),
		a.Description,
		a.TransactionSignature,
		a.AmountSOL,
		a.CreatedAt,
	)
	return translate("append wallet activity", err)
}

// ListByWallet retrieves all activities for a wallet, oldest first.
func (s *ActivityStore) ListByWallet(ctx context.Context, walletID string) ([]*domain.WalletActivity, error) {
	query := `
		SELECT id::text, wallet_id::text, activity_type, activity_description,
			transaction_signature, amount_sol, created_at
		FROM wallet_activities
		WHERE wallet_id = $1::uuid
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, translate("query wallet activities", err)
	}
	defer rows.Close()

	var result []*domain.WalletActivity
	for rows.Next() {
		var a domain.WalletActivity
		var activityType string
		if err := rows.Scan(
			&a.ID,
			&a.WalletID,
			&activityType,
			&a.Description,
			&a.TransactionSignature,
			&a.AmountSOL,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan wallet activity: %w", err)
		}
		a.ActivityType = domain.ActivityType(activityType)
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet activities: %w", err)
	}
	return result, nil
}
