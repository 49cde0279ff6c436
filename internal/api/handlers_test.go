package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/orchestrator"
	"solana-launchpad/internal/persistence"
	"solana-launchpad/internal/ratelimit"
	"solana-launchpad/internal/storage/memory"
	"solana-launchpad/internal/wallet"
)

type fakeLauncher struct {
	out   *orchestrator.Outcome
	err   error
	got   *domain.CreateRequest
	calls int
}

func (f *fakeLauncher) Run(_ context.Context, req *domain.CreateRequest) (*orchestrator.Outcome, error) {
	f.calls++
	f.got = req
	return f.out, f.err
}

func newTestRouter(l Launcher, catalog Catalog, blocked ...string) *gin.Engine {
	if catalog == nil {
		catalog = newCatalog()
	}
	return NewRouter(Options{
		Launcher:           l,
		Catalog:            catalog,
		BlockedFeeAccounts: blocked,
		MaxImageBytes:      1024,
	})
}

func newCatalog() *persistence.Gateway {
	return persistence.New(persistence.Options{
		Wallets:    memory.NewWalletStore(),
		Activities: memory.NewActivityStore(),
		Tokens:     memory.NewTokenStore(),
		Config:     memory.NewConfigStore(),
	})
}

type formFile struct {
	name, contentType string
	data              []byte
}

func multipartRequest(t *testing.T, fields map[string]string, file *formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+file.name+`"`)
		h.Set("Content-Type", file.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/tokens/create", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func successOutcome() *orchestrator.Outcome {
	id := "token-uuid"
	image := "https://ipfs.io/ipfs/img"
	return &orchestrator.Outcome{
		Wallet: orchestrator.WalletSummary{ID: "wallet-uuid", PublicKey: "WalletPub", FundingSignature: "fundSig"},
		Token: orchestrator.TokenSummary{
			ID:          &id,
			Signature:   "launchSig",
			Mint:        "MintPub",
			MetadataURI: "https://ipfs.io/ipfs/meta",
			ImageURI:    &image,
			Name:        "Yield",
			Symbol:      "APY",
			WalletUsed:  "WalletPub",
			RawResponse: json.RawMessage(`{"signature":"launchSig"}`),
		},
		RateLimit: orchestrator.RateLimitStatus{FeeAccount: "@Yield", CurrentCount: 3, DailyLimit: 200},
	}
}

func TestCreateToken_Success(t *testing.T) {
	l := &fakeLauncher{out: successOutcome()}
	r := newTestRouter(l, nil)

	req := multipartRequest(t, map[string]string{
		"name":         " Yield ",
		"symbol":       "APY",
		"description":  "yield bearing",
		"twitter":      "https://x.com/yield",
		"telegram":     "https://t.me/yield",
		"website":      "https://yield.example",
		"directFeesTo": "@Yield",
	}, &formFile{name: "logo.png", contentType: "image/png", data: []byte("png-bytes")})
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	w, body := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := l.got
	require.NotNil(t, got)
	assert.Equal(t, "Yield", got.Name)
	assert.Equal(t, "APY", got.Symbol)
	assert.Equal(t, "yield bearing", got.Description)
	assert.Equal(t, "https://x.com/yield", got.TwitterURL)
	assert.Equal(t, "https://t.me/yield", got.TelegramURL)
	assert.Equal(t, "https://yield.example", got.WebsiteURL)
	assert.Equal(t, "@Yield", got.FeeAccount)
	assert.Equal(t, "203.0.113.7", got.CreatorIP)
	require.True(t, got.HasImage())
	assert.Equal(t, "logo.png", got.Image.Filename)
	assert.Equal(t, "image/png", got.Image.ContentType)
	assert.Equal(t, []byte("png-bytes"), got.Image.Data)

	assert.Equal(t, true, body["success"])
	walletBody := body["wallet"].(map[string]any)
	assert.Equal(t, map[string]any{"id": "wallet-uuid", "publicKey": "WalletPub", "fundingSignature": "fundSig"}, walletBody)

	token := body["token"].(map[string]any)
	assert.Equal(t, "token-uuid", token["id"])
	assert.Equal(t, "launchSig", token["signature"])
	assert.Equal(t, "MintPub", token["mint"])
	assert.Equal(t, "https://ipfs.io/ipfs/meta", token["metadataUri"])
	assert.Equal(t, "https://ipfs.io/ipfs/img", token["imageUri"])
	assert.Equal(t, "Yield", token["tokenName"])
	assert.Equal(t, "APY", token["tokenSymbol"])
	assert.Equal(t, "WalletPub", token["walletUsed"])
	assert.Equal(t, map[string]any{"signature": "launchSig"}, token["rawResponse"])

	status := body["rateLimitStatus"].(map[string]any)
	assert.Equal(t, "@Yield", status["feeAccount"])
	assert.Equal(t, float64(3), status["currentCount"])
	assert.Equal(t, float64(200), status["dailyLimit"])

	raw := w.Body.String()
	assert.NotContains(t, raw, "privateKey")
	assert.NotContains(t, raw, "apiKey")
}

func TestCreateToken_NullTokenID(t *testing.T) {
	out := successOutcome()
	out.Token.ID = nil
	out.Token.ImageURI = nil
	out.Token.RawResponse = nil
	r := newTestRouter(&fakeLauncher{out: out}, nil)

	w, body := serve(r, multipartRequest(t, map[string]string{"name": "Yield", "symbol": "APY"}, nil))
	require.Equal(t, http.StatusOK, w.Code)

	token := body["token"].(map[string]any)
	assert.Contains(t, token, "id")
	assert.Nil(t, token["id"])
	assert.Nil(t, token["imageUri"])
	assert.Nil(t, token["rawResponse"])
}

func TestCreateToken_URLEncodedForm(t *testing.T) {
	l := &fakeLauncher{out: successOutcome()}
	r := newTestRouter(l, nil)

	req := httptest.NewRequest("POST", "/api/tokens/create", strings.NewReader("name=Yield&symbol=APY"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w, _ := serve(r, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Yield", l.got.Name)
	assert.False(t, l.got.HasImage())
	assert.Equal(t, UnknownIP, l.got.CreatorIP)
}

func TestCreateToken_ImageTooLarge(t *testing.T) {
	l := &fakeLauncher{out: successOutcome()}
	r := newTestRouter(l, nil)

	req := multipartRequest(t, map[string]string{"name": "Yield", "symbol": "APY"},
		&formFile{name: "big.png", contentType: "image/png", data: bytes.Repeat([]byte{1}, 2048)})
	w, body := serve(r, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "Image exceeds maximum size")
	assert.Zero(t, l.calls)

	// Oversized text fields carry no file size; the body cap rejects them.
	oversized := map[string]string{"name": "Yield", "symbol": "APY", "description": strings.Repeat("x", 2<<20)}

	t.Run("declared length over cap", func(t *testing.T) {
		w, body := serve(r, multipartRequest(t, oversized, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, false, body["success"])
		assert.Contains(t, body["error"], "Request body exceeds maximum size")
	})

	t.Run("streamed body over cap", func(t *testing.T) {
		req := multipartRequest(t, oversized, nil)
		req.ContentLength = -1
		w, body := serve(r, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, false, body["success"])
		assert.Contains(t, body["error"], "Request body exceeds maximum size")
	})

	assert.Zero(t, l.calls)
}

func TestCreateToken_ErrorMapping(t *testing.T) {
	resetAt := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	last := time.Date(2025, 6, 1, 11, 55, 0, 0, time.UTC)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name:       "validation",
			err:        &orchestrator.ValidationError{Missing: []string{"symbol"}},
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"success": false, "error": "Name and symbol are required"},
		},
		{
			name: "ip limit",
			err: &orchestrator.RateLimitError{
				Type: orchestrator.LimitIP,
				IP:   ratelimit.IPDecision{RemainingMinutes: 2, LastCreation: last},
			},
			wantStatus: http.StatusTooManyRequests,
			wantBody: map[string]any{
				"success":          false,
				"error":            "Rate limit exceeded. You can create another token in 2 minutes.",
				"rateLimited":      true,
				"rateLimitType":    "ip",
				"remainingMinutes": float64(2),
				"lastCreation":     "2025-06-01T11:55:00.000Z",
			},
		},
		{
			name: "fee account limit",
			err: &orchestrator.RateLimitError{
				Type: orchestrator.LimitFeeAccount,
				FeeAccount: ratelimit.FeeAccountDecision{
					FeeAccount:      "@Yield",
					CurrentCount:    200,
					DailyLimit:      200,
					ResetAt:         resetAt,
					HoursUntilReset: 22,
				},
			},
			wantStatus: http.StatusTooManyRequests,
			wantBody: map[string]any{
				"success":         false,
				"error":           "Daily limit exceeded for @Yield. This account has created 200/200 tokens today. Try again in 22 hours.",
				"rateLimited":     true,
				"rateLimitType":   "feeAccount",
				"feeAccount":      "@Yield",
				"currentCount":    float64(200),
				"dailyLimit":      float64(200),
				"hoursUntilReset": float64(22),
				"resetTime":       "2025-06-02T09:30:00.000Z",
			},
		},
		{
			name:       "funding key missing",
			err:        orchestrator.ErrFundingKeyMissing,
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]any{"success": false, "error": "Funding wallet private key not configured"},
		},
		{
			name: "step failure",
			err: &orchestrator.StepError{
				State:    orchestrator.StateWalletCreated,
				WalletID: "",
				Err:      &wallet.ProvisioningError{StatusCode: 502, Err: errors.New("bad gateway")},
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]any{"success": false, "error": "failed to create wallet: 502 - bad gateway"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&fakeLauncher{err: tt.err}, nil)
			w, body := serve(r, multipartRequest(t, map[string]string{"name": "Yield", "symbol": "APY"}, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func seedTokens(t *testing.T, g *persistence.Gateway) {
	t.Helper()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := []struct {
		name, symbol, mint, fee, status string
	}{
		{"Yield", "APY", "MintYield", "@Yield", domain.TokenStatusCreated},
		{"Moon", "MOON", "MintMoon", "moonfan", domain.TokenStatusCreated},
		{"Blocked", "BLK", "MintBlocked", "@Sol_memories", domain.TokenStatusCreated},
		{"Yield Two", "APY2", "MintYieldTwo", "", domain.TokenStatusCreated},
		{"Paused", "PSE", "MintPaused", "", "paused"},
	}
	for i, row := range rows {
		_, err := g.RecordToken(context.Background(), &domain.Token{
			Name:            row.name,
			Symbol:          row.symbol,
			MintAddress:     row.mint,
			FeeAccount:      domain.StringPtr(row.fee),
			Status:          row.status,
			WalletID:        "w",
			WalletPublicKey: "WalletPub",
			CreatorIP:       "203.0.113.7",
			CreatedAt:       base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
}

func listMints(body map[string]any) []string {
	var mints []string
	for _, tok := range body["tokens"].([]any) {
		mints = append(mints, tok.(map[string]any)["mint_address"].(string))
	}
	return mints
}

func TestListTokens(t *testing.T) {
	g := newCatalog()
	seedTokens(t, g)
	r := newTestRouter(&fakeLauncher{}, g, "sol_memories", "@fakelove26790")

	t.Run("defaults exclude blocked accounts", func(t *testing.T) {
		w, body := serve(r, httptest.NewRequest("GET", "/api/tokens", nil))
		require.Equal(t, http.StatusOK, w.Code)

		assert.Equal(t, []string{"MintPaused", "MintYieldTwo", "MintMoon", "MintYield"}, listMints(body))
		assert.Equal(t, map[string]any{
			"page": float64(1), "limit": float64(20), "total": float64(4),
			"totalPages": float64(1), "hasNext": false, "hasPrev": false,
		}, body["pagination"])
		assert.NotContains(t, w.Body.String(), "203.0.113.7")
	})

	t.Run("paging", func(t *testing.T) {
		w, body := serve(r, httptest.NewRequest("GET", "/api/tokens?page=2&limit=3", nil))
		require.Equal(t, http.StatusOK, w.Code)

		assert.Equal(t, []string{"MintYield"}, listMints(body))
		p := body["pagination"].(map[string]any)
		assert.Equal(t, float64(2), p["totalPages"])
		assert.Equal(t, false, p["hasNext"])
		assert.Equal(t, true, p["hasPrev"])
	})

	t.Run("status and search", func(t *testing.T) {
		_, body := serve(r, httptest.NewRequest("GET", "/api/tokens?status=created&search=yield", nil))
		assert.Equal(t, []string{"MintYieldTwo", "MintYield"}, listMints(body))

		_, body = serve(r, httptest.NewRequest("GET", "/api/tokens?status=all&search=mintmoon", nil))
		assert.Equal(t, []string{"MintMoon"}, listMints(body))
	})

	t.Run("limit is capped", func(t *testing.T) {
		_, body := serve(r, httptest.NewRequest("GET", "/api/tokens?limit=1000&page=-3", nil))
		p := body["pagination"].(map[string]any)
		assert.Equal(t, float64(MaxPageSize), p["limit"])
		assert.Equal(t, float64(1), p["page"])
	})

	t.Run("page beyond addressable range", func(t *testing.T) {
		w, body := serve(r, httptest.NewRequest("GET", "/api/tokens?limit=100&page=100000000000000000", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, listMints(body))
		p := body["pagination"].(map[string]any)
		assert.Equal(t, float64(4), p["total"])
		assert.Equal(t, false, p["hasNext"])
	})

	t.Run("empty result is an array", func(t *testing.T) {
		w, _ := serve(r, httptest.NewRequest("GET", "/api/tokens?search=nothing-matches", nil))
		assert.Contains(t, w.Body.String(), `"tokens":[]`)
	})
}

func TestTokenByMint(t *testing.T) {
	g := newCatalog()
	seedTokens(t, g)
	r := newTestRouter(&fakeLauncher{}, g)

	w, body := serve(r, httptest.NewRequest("GET", "/api/tokens/MintMoon", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Moon", body["name"])
	assert.Equal(t, "moonfan", body["fee_account"])
	assert.Equal(t, "2025-06-01T01:00:00.000Z", body["created_at"])

	w, body = serve(r, httptest.NewRequest("GET", "/api/tokens/Missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, body["success"])
}

func TestCountdown(t *testing.T) {
	r := newTestRouter(&fakeLauncher{}, newCatalog())

	w, body := serve(r, httptest.NewRequest("GET", "/api/countdown-start", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body, "startTime")
	assert.Nil(t, body["startTime"])

	post := httptest.NewRequest("POST", "/api/countdown-start", strings.NewReader(`{"startTime":"2025-07-01T18:00:00.000Z"}`))
	post.Header.Set("Content-Type", "application/json")
	w, body = serve(r, post)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"success": true, "startTime": "2025-07-01T18:00:00.000Z"}, body)

	_, body = serve(r, httptest.NewRequest("GET", "/api/countdown-start", nil))
	assert.Equal(t, "2025-07-01T18:00:00.000Z", body["startTime"])

	bad := httptest.NewRequest("POST", "/api/countdown-start", strings.NewReader(`{"startTime":"tomorrow"}`))
	bad.Header.Set("Content-Type", "application/json")
	w, _ = serve(r, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(&fakeLauncher{}, nil)

	w, body := serve(r, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "solana_launchpad_")
}
