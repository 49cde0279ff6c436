package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// errNotYetConfirmed signals another polling round.
var errNotYetConfirmed = errors.New("signature not yet confirmed")

// PollingConfig configures status polling.
type PollingConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// Timeout bounds the whole confirmation.
	Timeout time.Duration
}

// DefaultPollingConfig returns default polling configuration.
func DefaultPollingConfig() PollingConfig {
	return PollingConfig{
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     4 * time.Second,
		Timeout:         60 * time.Second,
	}
}

// PollingConfirmer confirms signatures by polling getSignatureStatuses
// with exponential backoff.
type PollingConfirmer struct {
	rpc    RPCClient
	config PollingConfig
}

// Compile-time interface check.
var _ Confirmer = (*PollingConfirmer)(nil)

// NewPollingConfirmer creates a polling confirmer.
func NewPollingConfirmer(rpc RPCClient, config *PollingConfig) *PollingConfirmer {
	cfg := DefaultPollingConfig()
	if config != nil {
		cfg = *config
	}
	return &PollingConfirmer{rpc: rpc, config: cfg}
}

// Confirm polls until the signature reaches commitment, fails, or times out.
func (c *PollingConfirmer) Confirm(ctx context.Context, signature string, commitment Commitment) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.InitialInterval
	b.MaxInterval = c.config.MaxInterval
	b.MaxElapsedTime = c.config.Timeout

	op := func() error {
		statuses, err := c.rpc.GetSignatureStatuses(ctx, signature)
		if err != nil {
			// Transient RPC failures are polled through.
			return err
		}
		if len(statuses) == 0 || statuses[0] == nil {
			return errNotYetConfirmed
		}
		st := statuses[0]
		if st.Err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %v", ErrTransactionFailed, st.Err))
		}
		if !st.ConfirmationStatus.Satisfies(commitment) {
			return errNotYetConfirmed
		}
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(b, ctx))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTransactionFailed):
		return err
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return fmt.Errorf("%w: %s: %v", ErrConfirmationTimeout, signature, err)
	}
}
