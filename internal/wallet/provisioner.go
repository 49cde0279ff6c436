// Package wallet provisions custodial launch wallets and funds them on-chain.
package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sol "github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"solana-launchpad/internal/logger"
	"solana-launchpad/internal/observability"
	"solana-launchpad/internal/solana"
)

// DefaultTimeout bounds a single wallet service call.
const DefaultTimeout = 30 * time.Second

// ProvisionedWallet holds the credentials returned by the wallet service.
// PrivateKey and APIKey must only be handed to persistence and the launcher.
type ProvisionedWallet struct {
	PublicKey  string
	PrivateKey string
	APIKey     string
}

// Funder submits a transfer and waits for confirmation.
type Funder interface {
	Transfer(ctx context.Context, from sol.PrivateKey, to string, lamports uint64) (string, error)
}

// Provisioner creates wallets through the PumpPortal wallet API and funds
// them from the service funding wallet.
type Provisioner struct {
	baseURL string
	client  *http.Client
	funder  Funder
	logger  *zap.Logger
}

// Options configures a Provisioner.
type Options struct {
	BaseURL    string // e.g. https://pumpportal.fun
	HTTPClient *http.Client
	Funder     Funder
	Logger     *zap.Logger
}

// New creates a Provisioner.
func New(opts Options) *Provisioner {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Provisioner{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client:  client,
		funder:  opts.Funder,
		logger:  logger.Named(opts.Logger, logger.ComponentWallet),
	}
}

// createWalletResponse is the wallet service response body.
type createWalletResponse struct {
	WalletPublicKey string `json:"walletPublicKey"`
	PrivateKey      string `json:"privateKey"`
	APIKey          string `json:"apiKey"`
}

// CreateWallet requests a new custodial wallet.
func (p *Provisioner) CreateWallet(ctx context.Context) (w *ProvisionedWallet, err error) {
	start := time.Now()
	defer func() {
		observability.RecordExternalCall("pumpportal", "create_wallet", time.Since(start), err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/create-wallet", nil)
	if err != nil {
		return nil, &ProvisioningError{Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &ProvisioningError{Err: fmt.Errorf("http request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProvisioningError{Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ProvisioningError{StatusCode: resp.StatusCode, Err: errors.New(strings.TrimSpace(string(body)))}
	}

	var out createWalletResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &ProvisioningError{Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	if out.WalletPublicKey == "" || out.PrivateKey == "" || out.APIKey == "" {
		return nil, &ProvisioningError{Err: errors.New("invalid wallet creation response - missing required fields")}
	}
	if err := solana.ValidatePublicKey(out.WalletPublicKey); err != nil {
		return nil, &ProvisioningError{Err: err}
	}

	p.logger.Info("wallet provisioned", zap.String("public_key", out.WalletPublicKey))
	return &ProvisionedWallet{
		PublicKey:  out.WalletPublicKey,
		PrivateKey: out.PrivateKey,
		APIKey:     out.APIKey,
	}, nil
}

// FundWallet transfers lamports from the funding keypair to the wallet and
// blocks until the transfer is confirmed. The transfer is never resubmitted.
func (p *Provisioner) FundWallet(ctx context.Context, from sol.PrivateKey, to string, lamports uint64) (signature string, err error) {
	start := time.Now()
	defer func() {
		observability.RecordExternalCall("solana", "fund_wallet", time.Since(start), err)
	}()

	if len(from) == 0 {
		return "", &FundingError{Err: errors.New("funding keypair not configured")}
	}
	if p.funder == nil {
		return "", &FundingError{Err: errors.New("no transfer client configured")}
	}

	signature, err = p.funder.Transfer(ctx, from, to, lamports)
	if err != nil {
		return "", &FundingError{Signature: signature, Err: err}
	}

	observability.RecordFunding(lamports)
	p.logger.Info("wallet funded",
		zap.String("public_key", to),
		zap.Uint64("lamports", lamports),
		zap.String("signature", signature))
	return signature, nil
}
