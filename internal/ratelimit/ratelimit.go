// Package ratelimit gates token creation per requester IP and per fee account.
package ratelimit

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/logger"
	"solana-launchpad/internal/observability"
	"solana-launchpad/internal/storage"
)

// TokenHistory is the slice of token storage the limiter reads.
type TokenHistory interface {
	LatestCreationByIP(ctx context.Context, creatorIP string, since time.Time) (time.Time, error)
	CreationsByFeeAccount(ctx context.Context, normalized string, since time.Time) ([]time.Time, error)
}

// Config holds window sizes and limits.
type Config struct {
	IPWindow             time.Duration
	FeeAccountWindow     time.Duration
	FeeAccountDailyLimit int
}

// DefaultConfig returns the production windows: one token per IP every
// 7 minutes and 200 tokens per fee account per 24 hours.
func DefaultConfig() Config {
	return Config{
		IPWindow:             7 * time.Minute,
		FeeAccountWindow:     24 * time.Hour,
		FeeAccountDailyLimit: 200,
	}
}

// IPDecision is the outcome of the per-IP check.
type IPDecision struct {
	Allowed          bool
	RemainingSeconds int64
	RemainingMinutes int // ceil of the remaining window
	LastCreation     time.Time
	Err              error // set when the check failed open
}

// FeeAccountDecision is the outcome of the per-fee-account check.
type FeeAccountDecision struct {
	Allowed         bool
	FeeAccount      string // as submitted
	CurrentCount    int
	DailyLimit      int
	ResetAt         time.Time
	HoursUntilReset int
	Err             error // set when the check failed open
}

// Limiter evaluates both creation limits. It never mutates state.
type Limiter struct {
	history TokenHistory
	lock    Lock
	config  Config
	logger  *zap.Logger
}

// Options configures a Limiter.
type Options struct {
	History TokenHistory
	Lock    Lock // nil disables locking
	Config  Config
	Logger  *zap.Logger
}

// New creates a Limiter. Zero config fields take their defaults.
func New(opts Options) *Limiter {
	cfg := opts.Config
	def := DefaultConfig()
	if cfg.IPWindow <= 0 {
		cfg.IPWindow = def.IPWindow
	}
	if cfg.FeeAccountWindow <= 0 {
		cfg.FeeAccountWindow = def.FeeAccountWindow
	}
	if cfg.FeeAccountDailyLimit <= 0 {
		cfg.FeeAccountDailyLimit = def.FeeAccountDailyLimit
	}
	lock := opts.Lock
	if lock == nil {
		lock = NoopLock{}
	}
	return &Limiter{
		history: opts.History,
		lock:    lock,
		config:  cfg,
		logger:  logger.Named(opts.Logger, logger.ComponentRateLimit),
	}
}

// Config returns the effective configuration.
func (l *Limiter) Config() Config {
	return l.config
}

// CheckIPLimit blocks an IP that created a token within the IP window.
func (l *Limiter) CheckIPLimit(ctx context.Context, ip string, now time.Time) IPDecision {
	last, err := l.history.LatestCreationByIP(ctx, ip, now.Add(-l.config.IPWindow))
	if errors.Is(err, storage.ErrNotFound) {
		return IPDecision{Allowed: true}
	}
	if err != nil {
		l.logger.Warn("ip rate limit check failed, allowing request",
			zap.String("ip", ip), zap.Error(err))
		observability.RecordGateFailOpen("ip")
		return IPDecision{Allowed: true, Err: err}
	}

	remaining := l.config.IPWindow - now.Sub(last)
	if remaining <= 0 {
		return IPDecision{Allowed: true}
	}
	return IPDecision{
		Allowed:          false,
		RemainingSeconds: int64(math.Ceil(remaining.Seconds())),
		RemainingMinutes: int(math.Ceil(remaining.Minutes())),
		LastCreation:     last,
	}
}

// CheckFeeAccountLimit blocks a fee account that reached the daily limit.
// A blank fee account is always allowed without touching storage.
func (l *Limiter) CheckFeeAccountLimit(ctx context.Context, feeAccount string, now time.Time) FeeAccountDecision {
	if strings.TrimSpace(feeAccount) == "" {
		return FeeAccountDecision{Allowed: true, DailyLimit: l.config.FeeAccountDailyLimit}
	}

	normalized := domain.NormalizeFeeAccount(feeAccount)
	times, err := l.history.CreationsByFeeAccount(ctx, normalized, now.Add(-l.config.FeeAccountWindow))
	if err != nil {
		l.logger.Warn("fee account rate limit check failed, allowing request",
			zap.String("fee_account", normalized), zap.Error(err))
		observability.RecordGateFailOpen("feeAccount")
		return FeeAccountDecision{
			Allowed:    true,
			FeeAccount: feeAccount,
			DailyLimit: l.config.FeeAccountDailyLimit,
			Err:        err,
		}
	}

	decision := FeeAccountDecision{
		Allowed:      true,
		FeeAccount:   feeAccount,
		CurrentCount: len(times),
		DailyLimit:   l.config.FeeAccountDailyLimit,
	}
	if len(times) < l.config.FeeAccountDailyLimit {
		return decision
	}

	oldest := times[0]
	for _, ts := range times[1:] {
		if ts.Before(oldest) {
			oldest = ts
		}
	}
	decision.Allowed = false
	decision.ResetAt = oldest.Add(l.config.FeeAccountWindow)
	decision.HoursUntilReset = max(1, int(math.Ceil(decision.ResetAt.Sub(now).Hours())))
	return decision
}

// AcquireIP reserves the IP for one creation run. When another run holds the
// reservation the returned decision is blocked for the full IP window.
// Lock failures fail open. release is never nil.
func (l *Limiter) AcquireIP(ctx context.Context, ip string, ttl time.Duration) (release func(), decision IPDecision) {
	unlock, acquired, err := l.lock.Acquire(ctx, "launchpad:gate:ip:"+ip, ttl)
	if err != nil {
		l.logger.Warn("gate lock failed, allowing request", zap.String("ip", ip), zap.Error(err))
		observability.RecordGateFailOpen("lock")
		return func() {}, IPDecision{Allowed: true, Err: err}
	}
	if !acquired {
		return func() {}, IPDecision{
			Allowed:          false,
			RemainingSeconds: int64(l.config.IPWindow.Seconds()),
			RemainingMinutes: int(math.Ceil(l.config.IPWindow.Minutes())),
			LastCreation:     time.Now().UTC(),
		}
	}
	return func() {
		// Release on a fresh context so a cancelled request still frees the key.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := unlock(releaseCtx); err != nil {
			l.logger.Warn("gate lock release failed", zap.String("ip", ip), zap.Error(err))
		}
	}, IPDecision{Allowed: true}
}
