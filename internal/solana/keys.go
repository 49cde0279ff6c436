package solana

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"filippo.io/edwards25519"
	sol "github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// ParseKeypair decodes a base58 64-byte secret key.
func ParseKeypair(secret string) (sol.PrivateKey, error) {
	raw, err := base58.Decode(secret)
	if err != nil {
		return nil, fmt.Errorf("decode secret key: %w", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("secret key must be %d bytes, got %d", ed25519.PrivateKeySize, len(raw))
	}
	// The trailing half must be the public key derived from the seed.
	derived := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
	if !bytes.Equal(derived, raw) {
		return nil, fmt.Errorf("secret key public half does not match seed")
	}
	return sol.PrivateKey(raw), nil
}

// NewKeypair generates a fresh ed25519 keypair.
func NewKeypair() (sol.PrivateKey, error) {
	key, err := sol.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return key, nil
}

// EncodeSecret returns the base58 form of a secret key.
func EncodeSecret(key sol.PrivateKey) string {
	return base58.Encode(key)
}

// ValidatePublicKey checks that s is a base58 32-byte ed25519 curve point.
func ValidatePublicKey(s string) error {
	raw, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("decode public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
		return fmt.Errorf("public key is not on the ed25519 curve: %w", err)
	}
	return nil
}
