package stub

import (
	"context"
	"errors"
	"sync"

	"solana-launchpad/internal/solana"
)

// ErrNotFound is returned when an account balance is not set.
var ErrNotFound = errors.New("not found")

// RPCClient implements solana.RPCClient for testing.
type RPCClient struct {
	mu sync.Mutex

	Blockhash    string
	BlockhashErr error
	Signature    string
	SendErr      error
	Balances     map[string]uint64
	Statuses     map[string]*solana.SignatureStatus

	// Sent holds every serialized transaction passed to SendTransaction.
	Sent [][]byte
}

// Compile-time interface check.
var _ solana.RPCClient = (*RPCClient)(nil)

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Blockhash: "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N",
		Signature: "stubSignature",
		Balances:  make(map[string]uint64),
		Statuses:  make(map[string]*solana.SignatureStatus),
	}
}

// GetLatestBlockhash returns the configured blockhash.
func (c *RPCClient) GetLatestBlockhash(_ context.Context, _ solana.Commitment) (string, error) {
	if c.BlockhashErr != nil {
		return "", c.BlockhashErr
	}
	return c.Blockhash, nil
}

// SendTransaction records the transaction and returns the configured signature.
func (c *RPCClient) SendTransaction(_ context.Context, rawTx []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sent = append(c.Sent, rawTx)
	if c.SendErr != nil {
		return "", c.SendErr
	}
	return c.Signature, nil
}

// GetSignatureStatuses returns statuses from the stub store.
func (c *RPCClient) GetSignatureStatuses(_ context.Context, signatures ...string) ([]*solana.SignatureStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*solana.SignatureStatus, len(signatures))
	for i, sig := range signatures {
		out[i] = c.Statuses[sig]
	}
	return out, nil
}

// GetBalance returns the balance from the stub store.
func (c *RPCClient) GetBalance(_ context.Context, pubkey string) (uint64, error) {
	balance, ok := c.Balances[pubkey]
	if !ok {
		return 0, ErrNotFound
	}
	return balance, nil
}

// SentCount returns the number of SendTransaction calls.
func (c *RPCClient) SentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Sent)
}

// Confirmer implements solana.Confirmer for testing.
type Confirmer struct {
	Err   error
	Calls []string
}

// Compile-time interface check.
var _ solana.Confirmer = (*Confirmer)(nil)

// Confirm records the signature and returns the configured error.
func (c *Confirmer) Confirm(_ context.Context, signature string, _ solana.Commitment) error {
	c.Calls = append(c.Calls, signature)
	return c.Err
}
