package orchestrator

import (
	"context"
	"encoding/json"

	sol "github.com/gagliardetto/solana-go"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/launcher"
	"solana-launchpad/internal/metadata"
	"solana-launchpad/internal/ratelimit"
	"solana-launchpad/internal/wallet"
)

// State is a step of the launch workflow. States only move forward.
type State string

const (
	StateGated            State = "gated"
	StateWalletCreated    State = "wallet_created"
	StateWalletPersisted  State = "wallet_persisted"
	StateFunded           State = "funded"
	StateFundingPersisted State = "funding_persisted"
	StateMetadataUploaded State = "metadata_uploaded"
	StateTokenLaunched    State = "token_launched"
	StateTokenPersisted   State = "token_persisted"
	StateDone             State = "done"
	StateFailed           State = "failed"
)

// run carries one request through the state machine. It is the only place
// per-request progress lives.
type run struct {
	req   *domain.CreateRequest
	state State

	feeDecision ratelimit.FeeAccountDecision

	wallet     *wallet.ProvisionedWallet
	walletID   string
	fundingSig string
	mint       sol.PrivateKey
	meta       *metadata.Result
	launch     *launcher.Result
	tokenID    *string // nil when the token record could not be stored
}

// transition moves a run from one state to the next.
type transition struct {
	to   State
	step string // metric label
	fn   func(ctx context.Context, r *run) error
}

// transitions lists the edges after the gate in execution order.
func (o *Orchestrator) transitions() []transition {
	return []transition{
		{StateWalletCreated, "create_wallet", o.createWallet},
		{StateWalletPersisted, "persist_wallet", o.persistWallet},
		{StateFunded, "fund_wallet", o.fundWallet},
		{StateFundingPersisted, "persist_funding", o.persistFunding},
		{StateMetadataUploaded, "upload_metadata", o.uploadMetadata},
		{StateTokenLaunched, "launch_token", o.launchToken},
		{StateTokenPersisted, "persist_token", o.persistToken},
	}
}

// Outcome is the caller-facing result of a successful launch. It never
// carries the wallet private key or API key.
type Outcome struct {
	Wallet    WalletSummary
	Token     TokenSummary
	RateLimit RateLimitStatus
}

// WalletSummary is the public part of the provisioned wallet.
type WalletSummary struct {
	ID               string
	PublicKey        string
	FundingSignature string
}

// TokenSummary describes the launched token. ID is nil when the token was
// launched but its record could not be stored.
type TokenSummary struct {
	ID          *string
	Signature   string
	Mint        string
	MetadataURI string
	ImageURI    *string
	Name        string
	Symbol      string
	WalletUsed  string
	RawResponse json.RawMessage
}

// RateLimitStatus reports the fee account usage including this launch.
type RateLimitStatus struct {
	FeeAccount   string
	CurrentCount int
	DailyLimit   int
}

func (r *run) outcome() *Outcome {
	return &Outcome{
		Wallet: WalletSummary{
			ID:               r.walletID,
			PublicKey:        r.wallet.PublicKey,
			FundingSignature: r.fundingSig,
		},
		Token: TokenSummary{
			ID:          r.tokenID,
			Signature:   r.launch.Signature,
			Mint:        r.launch.MintAddress,
			MetadataURI: r.meta.MetadataURI,
			ImageURI:    domain.StringPtr(r.meta.ImageURI),
			Name:        r.req.Name,
			Symbol:      r.req.Symbol,
			WalletUsed:  r.wallet.PublicKey,
			RawResponse: r.launch.Raw,
		},
		RateLimit: RateLimitStatus{
			FeeAccount:   r.req.FeeAccount,
			CurrentCount: r.feeDecision.CurrentCount + 1,
			DailyLimit:   r.feeDecision.DailyLimit,
		},
	}
}
