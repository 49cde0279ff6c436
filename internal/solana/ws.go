package solana

import "context"

// Confirmer blocks until a transaction signature reaches a commitment level.
type Confirmer interface {
	// Confirm returns nil once sig is confirmed at commitment, ErrTransactionFailed
	// if it landed with an error, or a context/timeout error.
	Confirm(ctx context.Context, signature string, commitment Commitment) error
}
