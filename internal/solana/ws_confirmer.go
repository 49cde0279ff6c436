package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// WSConfirmerConfig configures WebSocket confirmation behavior.
type WSConfirmerConfig struct {
	// HandshakeTimeout bounds the websocket dial.
	HandshakeTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
	// Timeout bounds a whole Confirm call when ctx has no earlier deadline.
	Timeout time.Duration
}

// DefaultWSConfirmerConfig returns default WebSocket confirmation configuration.
func DefaultWSConfirmerConfig() WSConfirmerConfig {
	return WSConfirmerConfig{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
		Timeout:          60 * time.Second,
	}
}

// WSConfirmer confirms signatures via signatureSubscribe.
// Each Confirm dials its own connection, so it is safe for concurrent use.
type WSConfirmer struct {
	endpoint  string
	config    WSConfirmerConfig
	rpc       RPCClient // optional status check after subscribing
	requestID atomic.Uint64
}

// Compile-time interface check.
var _ Confirmer = (*WSConfirmer)(nil)

// NewWSConfirmer creates a confirmer for the given websocket endpoint.
// When rpc is non-nil the signature status is also checked once after the
// subscription is active, covering transactions that confirmed before it.
func NewWSConfirmer(endpoint string, rpc RPCClient, config *WSConfirmerConfig) *WSConfirmer {
	cfg := DefaultWSConfirmerConfig()
	if config != nil {
		cfg = *config
	}
	return &WSConfirmer{endpoint: endpoint, config: cfg, rpc: rpc}
}

// Confirm blocks until the signature notification arrives.
func (c *WSConfirmer) Confirm(ctx context.Context, signature string, commitment Commitment) error {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.config.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	defer conn.Close()

	// Unblock ReadMessage when ctx ends.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	reqID := c.requestID.Add(1)
	req := wsRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  "signatureSubscribe",
		Params: []any{
			signature,
			map[string]string{"commitment": string(commitment)},
		},
	}

	conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	if err := conn.WriteJSON(req); err != nil {
		return c.ctxErr(ctx, fmt.Errorf("write subscribe: %w", err))
	}

	subscribed := false
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return c.ctxErr(ctx, fmt.Errorf("read message: %w", err))
		}

		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		switch {
		case msg.Error != nil && msg.ID == reqID:
			return fmt.Errorf("subscribe: RPC error %d: %s", msg.Error.Code, msg.Error.Message)

		case !subscribed && msg.ID == reqID:
			subscribed = true
			if done, err := c.checkStatus(ctx, signature, commitment); done {
				return err
			}

		case msg.Method == "signatureNotification" && msg.Params != nil:
			var value wsSignatureValue
			if err := json.Unmarshal(msg.Params.Result.Value, &value); err != nil {
				return fmt.Errorf("decode notification: %w", err)
			}
			if value.Err != nil {
				return fmt.Errorf("%w: %v", ErrTransactionFailed, value.Err)
			}
			return nil
		}
	}
}

// checkStatus reports done=true when the RPC already knows the final outcome.
func (c *WSConfirmer) checkStatus(ctx context.Context, signature string, commitment Commitment) (bool, error) {
	if c.rpc == nil {
		return false, nil
	}
	statuses, err := c.rpc.GetSignatureStatuses(ctx, signature)
	if err != nil || len(statuses) == 0 || statuses[0] == nil {
		return false, nil
	}
	st := statuses[0]
	if st.Err != nil {
		return true, fmt.Errorf("%w: %v", ErrTransactionFailed, st.Err)
	}
	return st.ConfirmationStatus.Satisfies(commitment), nil
}

func (c *WSConfirmer) ctxErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if ctxErr == context.DeadlineExceeded {
			return fmt.Errorf("%w: %v", ErrConfirmationTimeout, ctxErr)
		}
		return ctxErr
	}
	return err
}

// WebSocket message types

type wsRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

// wsMessage covers subscribe responses, errors and notifications.
type wsMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  *wsNotifyParams `json:"params,omitempty"`
}

type wsNotifyParams struct {
	Subscription int64          `json:"subscription"`
	Result       wsNotifyResult `json:"result"`
}

type wsNotifyResult struct {
	Context *wsContext      `json:"context"`
	Value   json.RawMessage `json:"value"`
}

type wsContext struct {
	Slot int64 `json:"slot"`
}

type wsSignatureValue struct {
	Err any `json:"err"`
}
