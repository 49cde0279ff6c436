package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

// ActivityStore implements storage.ActivityStore using ClickHouse.
// It serves as an append-only audit mirror of wallet activities.
type ActivityStore struct {
	conn *Conn
}

// NewActivityStore creates a new ActivityStore.
func NewActivityStore(conn *Conn) *ActivityStore {
	return &ActivityStore{conn: conn}
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
	} else {
		// MergeTree does not enforce uniqueness
		exists, err := s.exists(ctx, a.ID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO wallet_activities (
			id, wallet_id, activity_type, activity_description,
			transaction_signature, amount_sol, created_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	err = batch.Append(
		a.ID, a.WalletID, string(a.ActivityType), a.Description,
		a.TransactionSignature, a.AmountSOL, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// ListByWallet retrieves all activities for a wallet, ordered by created_at ASC.
func (s *ActivityStore) ListByWallet(ctx context.Context, walletID string) ([]*domain.WalletActivity, error) {
	query := `
		SELECT id, wallet_id, activity_type, activity_description,
			transaction_signature, amount_sol, created_at
		FROM wallet_activities
		WHERE wallet_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.conn.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("query by wallet id: %w", err)
	}
	defer rows.Close()

	var result []*domain.WalletActivity
	for rows.Next() {
		var a domain.WalletActivity
		var activityType string
		if err := rows.Scan(
			&a.ID, &a.WalletID, &activityType, &a.Description,
			&a.TransactionSignature, &a.AmountSOL, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		a.ActivityType = domain.ActivityType(activityType)
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

func (s *ActivityStore) exists(ctx context.Context, id string) (bool, error) {
	var count uint64
	row := s.conn.QueryRow(ctx, `SELECT count(*) FROM wallet_activities WHERE id = ?`, id)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
