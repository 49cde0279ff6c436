package orchestrator

import (
	"context"
	"time"

	sol "github.com/gagliardetto/solana-go"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/launcher"
	"solana-launchpad/internal/metadata"
	"solana-launchpad/internal/persistence"
	"solana-launchpad/internal/ratelimit"
	"solana-launchpad/internal/wallet"
)

//go:generate mockgen -destination=../mocks/mock_orchestrator.go -package=mocks solana-launchpad/internal/orchestrator Gate,WalletProvisioner,MetadataUploader,TokenLauncher,Persistence

// Gate evaluates the creation limits.
type Gate interface {
	AcquireIP(ctx context.Context, ip string, ttl time.Duration) (release func(), decision ratelimit.IPDecision)
	CheckIPLimit(ctx context.Context, ip string, now time.Time) ratelimit.IPDecision
	CheckFeeAccountLimit(ctx context.Context, feeAccount string, now time.Time) ratelimit.FeeAccountDecision
}

// WalletProvisioner creates and funds custodial wallets.
type WalletProvisioner interface {
	CreateWallet(ctx context.Context) (*wallet.ProvisionedWallet, error)
	FundWallet(ctx context.Context, from sol.PrivateKey, to string, lamports uint64) (string, error)
}

// MetadataUploader stores token metadata.
type MetadataUploader interface {
	Upload(ctx context.Context, in metadata.Input, image *domain.Image) (*metadata.Result, error)
}

// TokenLauncher submits the on-chain create call.
type TokenLauncher interface {
	Launch(ctx context.Context, in launcher.Input) (*launcher.Result, error)
}

// Persistence records launch facts.
type Persistence interface {
	RecordWallet(ctx context.Context, w *domain.SecureWallet) (string, error)
	RecordFunding(ctx context.Context, walletID, signature string, amountSOL float64) error
	RecordActivity(ctx context.Context, a *domain.WalletActivity) error
	RecordToken(ctx context.Context, t *domain.Token) (string, error)
	UpdateWalletNotes(ctx context.Context, walletID, notes string) error
}

var (
	_ Gate              = (*ratelimit.Limiter)(nil)
	_ WalletProvisioner = (*wallet.Provisioner)(nil)
	_ MetadataUploader  = (*metadata.Uploader)(nil)
	_ TokenLauncher     = (*launcher.Launcher)(nil)
	_ Persistence       = (*persistence.Gateway)(nil)
)
