// Package launcher submits token creation calls to the PumpPortal trade API.
package launcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sol "github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/logger"
	"solana-launchpad/internal/observability"
	"solana-launchpad/internal/solana"
)

// Create action parameters. The launch never buys into its own token.
const (
	DefaultSlippage    = 10
	DefaultPriorityFee = 0.0001
	DefaultPool        = "pump"
	DefaultTimeout     = 60 * time.Second
)

// Response keys checked in priority order. The first non-empty string wins.
var (
	MintAddressKeys = [...]string{"mint", "mintAddress", "token", "tokenAddress"}
	SignatureKeys   = [...]string{"signature", "txSignature", "transaction", "hash"}
)

// Input holds everything needed for one create call.
type Input struct {
	Mint        sol.PrivateKey // generated locally
	Name        string
	Symbol      string
	MetadataURI string
	APIKey      string
}

// Result is the outcome of a successful launch.
type Result struct {
	MintAddress string
	Signature   string
	Raw         json.RawMessage
}

// NewMintKeypair generates the mint keypair for a launch.
func NewMintKeypair() (sol.PrivateKey, error) {
	return solana.NewKeypair()
}

// Launcher calls POST {base}/api/trade.
type Launcher struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// Options configures a Launcher.
type Options struct {
	BaseURL    string // e.g. https://pumpportal.fun
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// New creates a Launcher.
func New(opts Options) *Launcher {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Launcher{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client:  client,
		logger:  logger.Named(opts.Logger, logger.ComponentLauncher),
	}
}

type tradeRequest struct {
	Action           string        `json:"action"`
	TokenMetadata    tokenMetadata `json:"tokenMetadata"`
	Mint             string        `json:"mint"`
	DenominatedInSol string        `json:"denominatedInSol"`
	Amount           float64       `json:"amount"`
	Slippage         float64       `json:"slippage"`
	PriorityFee      float64       `json:"priorityFee"`
	Pool             string        `json:"pool"`
}

type tokenMetadata struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URI    string `json:"uri"`
}

// Launch submits a create action signed by the wallet bound to in.APIKey.
func (l *Launcher) Launch(ctx context.Context, in Input) (res *Result, err error) {
	start := time.Now()
	defer func() {
		observability.RecordExternalCall("pumpportal", "launch", time.Since(start), err)
	}()

	if len(in.Mint) == 0 {
		return nil, &LaunchError{Kind: KindTransport, Err: errors.New("mint keypair is required")}
	}

	body, err := json.Marshal(tradeRequest{
		Action: "create",
		TokenMetadata: tokenMetadata{
			Name:   in.Name,
			Symbol: in.Symbol,
			URI:    in.MetadataURI,
		},
		Mint:             solana.EncodeSecret(in.Mint),
		DenominatedInSol: "true",
		Amount:           0,
		Slippage:         DefaultSlippage,
		PriorityFee:      DefaultPriorityFee,
		Pool:             DefaultPool,
	})
	if err != nil {
		return nil, &LaunchError{Kind: KindTransport, Err: fmt.Errorf("marshal request: %w", err)}
	}

	endpoint := l.baseURL + "/api/trade?" + url.Values{"api-key": {in.APIKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &LaunchError{Kind: KindTransport, Err: errors.New("create request failed")}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &LaunchError{Kind: KindTransport, Err: redactURL(err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LaunchError{Kind: KindTransport, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseFailure(resp.StatusCode, respBody)
	}

	var fields map[string]any
	if err := json.Unmarshal(respBody, &fields); err != nil || len(fields) == 0 {
		return nil, &LaunchError{Kind: KindEmptyResponse, StatusCode: resp.StatusCode}
	}
	if msgs := validationMessages(fields); len(msgs) > 0 {
		return nil, &LaunchError{Kind: KindValidation, StatusCode: resp.StatusCode, Messages: msgs}
	}

	res = &Result{
		MintAddress: firstString(fields, MintAddressKeys[:]),
		Signature:   firstString(fields, SignatureKeys[:]),
		Raw:         json.RawMessage(respBody),
	}
	if res.MintAddress == "" {
		res.MintAddress = in.Mint.PublicKey().String()
	}
	if res.Signature == "" {
		res.Signature = domain.UnknownSignature
	}

	l.logger.Info("token launched",
		zap.String("mint", res.MintAddress),
		zap.String("signature", res.Signature))
	return res, nil
}

// parseFailure builds the error for a non-2xx response.
func parseFailure(status int, body []byte) *LaunchError {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		if msgs := validationMessages(payload); len(msgs) > 0 {
			return &LaunchError{Kind: KindValidation, StatusCode: status, Messages: msgs}
		}
		if msg, ok := payload["message"].(string); ok && msg != "" {
			return &LaunchError{Kind: KindTransport, StatusCode: status, Err: errors.New(msg)}
		}
	}
	return &LaunchError{Kind: KindTransport, StatusCode: status, Err: errors.New(strings.TrimSpace(string(body)))}
}

// validationMessages returns the entries of an "errors" array.
func validationMessages(fields map[string]any) []string {
	list, ok := fields["errors"].([]any)
	if !ok {
		return nil
	}
	msgs := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			msgs = append(msgs, s)
			continue
		}
		msgs = append(msgs, fmt.Sprint(v))
	}
	return msgs
}

// firstString returns the first non-empty string value among keys.
func firstString(fields map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := fields[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// redactURL strips the request URL, which carries the API key, from a
// client error.
func redactURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s request: %w", uerr.Op, uerr.Err)
	}
	return err
}
