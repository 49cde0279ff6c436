package domain

import "time"

// SecureWallet is a custodial wallet provisioned for a single launch.
// Corresponds to secure_wallets table in PostgreSQL.
// PrivateKey and APIKey never leave the persistence layer.
type SecureWallet struct {
	ID                 string    // PRIMARY KEY (uuid)
	PublicKey          string    // base58 wallet address
	PrivateKey         string    // base58 secret key
	APIKey             string    // launch API credential bound to the wallet
	CreatedAt          time.Time // record creation timestamp
	CreatorIP          string    // requester IP
	IsActive           bool
	Notes              string
	FundingTransaction *string // funding signature (nullable until funded)
	InitialBalanceSOL  float64
}

// FundingAmountSOL is the fixed amount transferred to every new wallet.
const FundingAmountSOL = 0.025

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL = 1_000_000_000

// FundingAmountLamports is FundingAmountSOL in lamports.
const FundingAmountLamports uint64 = 25_000_000
