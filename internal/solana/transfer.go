package solana

import (
	"context"
	"fmt"

	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
)

// BuildTransfer builds and signs a single System Program transfer.
func BuildTransfer(from sol.PrivateKey, to string, lamports uint64, recentBlockhash string) (*sol.Transaction, error) {
	toKey, err := sol.PublicKeyFromBase58(to)
	if err != nil {
		return nil, fmt.Errorf("parse recipient: %w", err)
	}
	hash, err := sol.HashFromBase58(recentBlockhash)
	if err != nil {
		return nil, fmt.Errorf("parse blockhash: %w", err)
	}

	fromKey := from.PublicKey()
	tx, err := sol.NewTransaction(
		[]sol.Instruction{
			system.NewTransferInstruction(lamports, fromKey, toKey).Build(),
		},
		hash,
		sol.TransactionPayer(fromKey),
	)
	if err != nil {
		return nil, fmt.Errorf("build transaction: %w", err)
	}

	_, err = tx.Sign(func(key sol.PublicKey) *sol.PrivateKey {
		if key.Equals(fromKey) {
			return &from
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return tx, nil
}

// Transferer submits transfers and waits for confirmation.
type Transferer struct {
	rpc       RPCClient
	confirmer Confirmer
}

// NewTransferer creates a Transferer.
func NewTransferer(rpc RPCClient, confirmer Confirmer) *Transferer {
	return &Transferer{rpc: rpc, confirmer: confirmer}
}

// Transfer sends lamports from -> to and blocks until confirmed.
// The signature is returned alongside any confirmation error so callers can
// record a transfer whose outcome is unknown.
func (t *Transferer) Transfer(ctx context.Context, from sol.PrivateKey, to string, lamports uint64) (string, error) {
	blockhash, err := t.rpc.GetLatestBlockhash(ctx, CommitmentConfirmed)
	if err != nil {
		return "", fmt.Errorf("get latest blockhash: %w", err)
	}

	tx, err := BuildTransfer(from, to, lamports, blockhash)
	if err != nil {
		return "", err
	}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("serialize transaction: %w", err)
	}

	signature, err := t.rpc.SendTransaction(ctx, raw)
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}

	if err := t.confirmer.Confirm(ctx, signature, CommitmentConfirmed); err != nil {
		return signature, fmt.Errorf("confirm %s: %w", signature, err)
	}
	return signature, nil
}

// Balance returns the lamport balance of pubkey.
func (t *Transferer) Balance(ctx context.Context, pubkey string) (uint64, error) {
	return t.rpc.GetBalance(ctx, pubkey)
}
