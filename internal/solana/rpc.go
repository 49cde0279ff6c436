package solana

import (
	"context"
	"errors"
)

// Commitment is a Solana confirmation level.
type Commitment string

const (
	CommitmentProcessed Commitment = "processed"
	CommitmentConfirmed Commitment = "confirmed"
	CommitmentFinalized Commitment = "finalized"
)

// rank orders commitment levels so that a status can satisfy a lower target.
func (c Commitment) rank() int {
	switch c {
	case CommitmentProcessed:
		return 1
	case CommitmentConfirmed:
		return 2
	case CommitmentFinalized:
		return 3
	default:
		return 0
	}
}

// Satisfies reports whether c is at least target.
func (c Commitment) Satisfies(target Commitment) bool {
	return c.rank() > 0 && c.rank() >= target.rank()
}

var (
	// ErrTransactionFailed is returned when a transaction landed with an error.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrConfirmationTimeout is returned when confirmation did not arrive in time.
	ErrConfirmationTimeout = errors.New("confirmation timeout")
)

// RPCClient defines the Solana RPC HTTP methods used for funding transfers.
type RPCClient interface {
	// GetLatestBlockhash returns a recent blockhash (base58) at the given commitment.
	GetLatestBlockhash(ctx context.Context, commitment Commitment) (string, error)

	// SendTransaction submits a signed, serialized transaction and returns its signature.
	// Never retried.
	SendTransaction(ctx context.Context, rawTx []byte) (string, error)

	// GetSignatureStatuses returns one entry per signature, nil when unknown.
	GetSignatureStatuses(ctx context.Context, signatures ...string) ([]*SignatureStatus, error)

	// GetBalance returns the lamport balance of an account.
	GetBalance(ctx context.Context, pubkey string) (uint64, error)
}

// SignatureStatus is the cluster's view of a submitted transaction.
type SignatureStatus struct {
	Slot               int64
	Confirmations      *uint64 // nil once rooted
	Err                any
	ConfirmationStatus Commitment
}
