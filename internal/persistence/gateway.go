// Package persistence records launch facts (wallets, funding, activities,
// tokens) on top of the storage interfaces.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/logger"
	"solana-launchpad/internal/observability"
	"solana-launchpad/internal/storage"
)

// Gateway is the single write path for launch records.
type Gateway struct {
	wallets    storage.WalletStore
	activities storage.ActivityStore
	tokens     storage.TokenStore
	config     storage.ConfigStore
	mirror     storage.ActivityStore
	logger     *zap.Logger
}

// Options configures a Gateway.
type Options struct {
	Wallets    storage.WalletStore
	Activities storage.ActivityStore
	Tokens     storage.TokenStore
	Config     storage.ConfigStore
	// Mirror receives a copy of every activity (e.g. ClickHouse). Optional;
	// mirror failures are logged and never fail the caller.
	Mirror storage.ActivityStore
	Logger *zap.Logger
}

// New creates a Gateway.
func New(opts Options) *Gateway {
	return &Gateway{
		wallets:    opts.Wallets,
		activities: opts.Activities,
		tokens:     opts.Tokens,
		config:     opts.Config,
		mirror:     opts.Mirror,
		logger:     logger.Named(opts.Logger, logger.ComponentPersistence),
	}
}

// track starts timing op. The returned func records the query metrics using
// the final value of *err.
func track(op string, err *error) func() {
	start := time.Now()
	return func() {
		observability.RecordDBQuery(op, time.Since(start).Seconds(), *err)
	}
}

// RecordWallet durably stores a provisioned wallet and returns its ID.
func (g *Gateway) RecordWallet(ctx context.Context, w *domain.SecureWallet) (id string, err error) {
	defer track("record_wallet", &err)()

	if err := g.wallets.Insert(ctx, w); err != nil {
		return "", fmt.Errorf("insert wallet: %w", err)
	}
	return w.ID, nil
}

// RecordFunding stores the funding signature. Recording the same funding
// twice is a no-op.
func (g *Gateway) RecordFunding(ctx context.Context, walletID, signature string, amountSOL float64) (err error) {
	defer track("record_funding", &err)()

	if err := g.wallets.RecordFunding(ctx, walletID, signature, amountSOL); err != nil {
		return fmt.Errorf("record funding: %w", err)
	}
	return nil
}

// RecordActivity appends an audit record. An activity whose ID was already
// recorded is treated as success.
func (g *Gateway) RecordActivity(ctx context.Context, a *domain.WalletActivity) (err error) {
	defer track("record_activity", &err)()

	if err := g.activities.Append(ctx, a); err != nil {
		if !errors.Is(err, storage.ErrDuplicateKey) {
			return fmt.Errorf("append activity: %w", err)
		}
	}

	if g.mirror != nil {
		mirrored := *a
		if err := g.mirror.Append(ctx, &mirrored); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			g.logger.Warn("activity mirror append failed",
				zap.String("wallet_id", a.WalletID),
				zap.String("activity_type", string(a.ActivityType)),
				zap.Error(err))
		}
	}
	return nil
}

// RecordToken stores the public token record and returns its ID.
func (g *Gateway) RecordToken(ctx context.Context, t *domain.Token) (id string, err error) {
	defer track("record_token", &err)()

	if err := g.tokens.Insert(ctx, t); err != nil {
		return "", fmt.Errorf("insert token: %w", err)
	}
	return t.ID, nil
}

// UpdateWalletNotes replaces the wallet's notes.
func (g *Gateway) UpdateWalletNotes(ctx context.Context, walletID, notes string) (err error) {
	defer track("update_wallet_notes", &err)()

	if err := g.wallets.UpdateNotes(ctx, walletID, notes); err != nil {
		return fmt.Errorf("update wallet notes: %w", err)
	}
	return nil
}

// walletActivities returns the audit trail of a wallet, oldest first.
func (g *Gateway) walletActivities(ctx context.Context, walletID string) (acts []*domain.WalletActivity, err error) {
	defer track("list_activities", &err)()
	return g.activities.ListByWallet(ctx, walletID)
}

// ListTokens returns one page of tokens and the total match count.
func (g *Gateway) ListTokens(ctx context.Context, filter domain.TokenFilter) (tokens []*domain.Token, total int, err error) {
	defer track("list_tokens", &err)()
	return g.tokens.List(ctx, filter)
}

// TokenByMint returns one token. Returns storage.ErrNotFound if absent.
func (g *Gateway) TokenByMint(ctx context.Context, mint string) (t *domain.Token, err error) {
	defer track("get_token", &err)()
	return g.tokens.GetByMint(ctx, mint)
}

// CountdownStart returns the stored countdown start, or nil when unset.
func (g *Gateway) CountdownStart(ctx context.Context) (start *time.Time, err error) {
	defer track("get_config", &err)()

	entry, err := g.config.Get(ctx, domain.ConfigKeyCountdownStart)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get countdown start: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, entry.Value)
	if err != nil {
		return nil, fmt.Errorf("parse countdown start %q: %w", entry.Value, err)
	}
	return &ts, nil
}

// SetCountdownStart stores the countdown start.
func (g *Gateway) SetCountdownStart(ctx context.Context, start time.Time) (err error) {
	defer track("upsert_config", &err)()

	if err := g.config.Upsert(ctx, domain.ConfigKeyCountdownStart, start.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("set countdown start: %w", err)
	}
	return nil
}
