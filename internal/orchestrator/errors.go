package orchestrator

import (
	"errors"
	"fmt"
	"strings"

	"solana-launchpad/internal/ratelimit"
)

// ErrFundingKeyMissing is returned when no funding keypair is configured.
var ErrFundingKeyMissing = errors.New("funding wallet private key not configured")

// ValidationError reports missing required fields. No side effects occurred.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "Name and symbol are required"
}

// Limit types reported by RateLimitError.
const (
	LimitIP         = "ip"
	LimitFeeAccount = "feeAccount"
)

// RateLimitError reports a gate rejection. No side effects occurred.
type RateLimitError struct {
	Type       string // LimitIP or LimitFeeAccount
	IP         ratelimit.IPDecision
	FeeAccount ratelimit.FeeAccountDecision
}

func (e *RateLimitError) Error() string {
	if e.Type == LimitFeeAccount {
		d := e.FeeAccount
		return fmt.Sprintf("Daily limit exceeded for %s. This account has created %d/%d tokens today. Try again in %d hours.",
			d.FeeAccount, d.CurrentCount, d.DailyLimit, d.HoursUntilReset)
	}
	return fmt.Sprintf("Rate limit exceeded. You can create another token in %d minutes.", e.IP.RemainingMinutes)
}

// PersistenceError wraps a datastore failure during a launch.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// StepError is returned when a transition fails after the gate. Err is the
// adapter or persistence error; side effects of earlier states are kept.
type StepError struct {
	State    State  // the state that could not be reached
	WalletID string // empty if the wallet was never persisted
	Err      error
}

func (e *StepError) Error() string {
	msg := e.Err.Error()
	if msg == "" {
		return "An error occurred while creating the wallet and token"
	}
	return strings.TrimSpace(msg)
}

func (e *StepError) Unwrap() error { return e.Err }
