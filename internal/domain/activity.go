package domain

import "time"

// ActivityType classifies a wallet lifecycle event.
type ActivityType string

const (
	ActivityCreated       ActivityType = "created"
	ActivityFunded        ActivityType = "funded"
	ActivityTokenLaunched ActivityType = "token_launched"
	ActivityError         ActivityType = "error"
)

// WalletActivity is an append-only audit record.
// Corresponds to wallet_activities table in PostgreSQL.
type WalletActivity struct {
	ID                   string // PRIMARY KEY (uuid)
	WalletID             string // FK to secure_wallets
	ActivityType         ActivityType
	Description          string
	TransactionSignature *string  // nullable
	AmountSOL            *float64 // nullable
	CreatedAt            time.Time
}
