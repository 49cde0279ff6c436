package api

import (
	"encoding/json"
	"time"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/orchestrator"
)

type createResponse struct {
	Success         bool                `json:"success"`
	Wallet          walletResponse      `json:"wallet"`
	Token           launchedToken       `json:"token"`
	RateLimitStatus rateLimitStatusBody `json:"rateLimitStatus"`
}

type walletResponse struct {
	ID               string `json:"id"`
	PublicKey        string `json:"publicKey"`
	FundingSignature string `json:"fundingSignature"`
}

type launchedToken struct {
	ID          *string         `json:"id"`
	Signature   string          `json:"signature"`
	Mint        string          `json:"mint"`
	MetadataURI string          `json:"metadataUri"`
	ImageURI    *string         `json:"imageUri"`
	TokenName   string          `json:"tokenName"`
	TokenSymbol string          `json:"tokenSymbol"`
	WalletUsed  string          `json:"walletUsed"`
	RawResponse json.RawMessage `json:"rawResponse"`
}

type rateLimitStatusBody struct {
	FeeAccount   string `json:"feeAccount"`
	CurrentCount int    `json:"currentCount"`
	DailyLimit   int    `json:"dailyLimit"`
}

func newCreateResponse(out *orchestrator.Outcome) createResponse {
	raw := out.Token.RawResponse
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	return createResponse{
		Success: true,
		Wallet: walletResponse{
			ID:               out.Wallet.ID,
			PublicKey:        out.Wallet.PublicKey,
			FundingSignature: out.Wallet.FundingSignature,
		},
		Token: launchedToken{
			ID:          out.Token.ID,
			Signature:   out.Token.Signature,
			Mint:        out.Token.Mint,
			MetadataURI: out.Token.MetadataURI,
			ImageURI:    out.Token.ImageURI,
			TokenName:   out.Token.Name,
			TokenSymbol: out.Token.Symbol,
			WalletUsed:  out.Token.WalletUsed,
			RawResponse: raw,
		},
		RateLimitStatus: rateLimitStatusBody{
			FeeAccount:   out.RateLimit.FeeAccount,
			CurrentCount: out.RateLimit.CurrentCount,
			DailyLimit:   out.RateLimit.DailyLimit,
		},
	}
}

type ipLimitResponse struct {
	Success          bool   `json:"success"`
	Error            string `json:"error"`
	RateLimited      bool   `json:"rateLimited"`
	RateLimitType    string `json:"rateLimitType"`
	RemainingMinutes int    `json:"remainingMinutes"`
	LastCreation     string `json:"lastCreation"`
}

type feeAccountLimitResponse struct {
	Success         bool   `json:"success"`
	Error           string `json:"error"`
	RateLimited     bool   `json:"rateLimited"`
	RateLimitType   string `json:"rateLimitType"`
	FeeAccount      string `json:"feeAccount"`
	CurrentCount    int    `json:"currentCount"`
	DailyLimit      int    `json:"dailyLimit"`
	HoursUntilReset int    `json:"hoursUntilReset"`
	ResetTime       string `json:"resetTime"`
}

func newRateLimitResponse(e *orchestrator.RateLimitError) any {
	if e.Type == orchestrator.LimitFeeAccount {
		return feeAccountLimitResponse{
			Error:           e.Error(),
			RateLimited:     true,
			RateLimitType:   orchestrator.LimitFeeAccount,
			FeeAccount:      e.FeeAccount.FeeAccount,
			CurrentCount:    e.FeeAccount.CurrentCount,
			DailyLimit:      e.FeeAccount.DailyLimit,
			HoursUntilReset: e.FeeAccount.HoursUntilReset,
			ResetTime:       isoTime(e.FeeAccount.ResetAt),
		}
	}
	return ipLimitResponse{
		Error:            e.Error(),
		RateLimited:      true,
		RateLimitType:    orchestrator.LimitIP,
		RemainingMinutes: e.IP.RemainingMinutes,
		LastCreation:     isoTime(e.IP.LastCreation),
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func failure(msg string) errorResponse {
	return errorResponse{Success: false, Error: msg}
}

// tokenResponse is the listing representation of a token record. The
// creator IP and internal wallet id are not exposed.
type tokenResponse struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Symbol               string          `json:"symbol"`
	Description          *string         `json:"description"`
	MintAddress          string          `json:"mint_address"`
	TransactionSignature string          `json:"transaction_signature"`
	MetadataURI          string          `json:"metadata_uri"`
	ImageURI             *string         `json:"image_uri"`
	FeeAccount           *string         `json:"fee_account"`
	TwitterURL           *string         `json:"twitter_url"`
	TelegramURL          *string         `json:"telegram_url"`
	WebsiteURL           *string         `json:"website_url"`
	Status               string          `json:"status"`
	WalletPublicKey      string          `json:"wallet_public_key"`
	RawResponse          json.RawMessage `json:"raw_response,omitempty"`
	CreatedAt            string          `json:"created_at"`
}

func newTokenResponse(t *domain.Token) tokenResponse {
	return tokenResponse{
		ID:                   t.ID,
		Name:                 t.Name,
		Symbol:               t.Symbol,
		Description:          t.Description,
		MintAddress:          t.MintAddress,
		TransactionSignature: t.TransactionSignature,
		MetadataURI:          t.MetadataURI,
		ImageURI:             t.ImageURI,
		FeeAccount:           t.FeeAccount,
		TwitterURL:           t.TwitterURL,
		TelegramURL:          t.TelegramURL,
		WebsiteURL:           t.WebsiteURL,
		Status:               t.Status,
		WalletPublicKey:      t.WalletPublicKey,
		RawResponse:          t.RawResponse,
		CreatedAt:            isoTime(t.CreatedAt),
	}
}

type pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

func newPagination(page, limit, total int) pagination {
	pages := (total + limit - 1) / limit
	return pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
	}
}

type listResponse struct {
	Tokens     []tokenResponse `json:"tokens"`
	Pagination pagination      `json:"pagination"`
}

type countdownResponse struct {
	StartTime *string `json:"startTime"`
}

// isoTime formats t like JavaScript's Date.toISOString.
func isoTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
