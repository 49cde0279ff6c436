package domain

import (
	"encoding/json"
	"math"
	"time"
)

// TokenStatusCreated is the status of every freshly launched token.
const TokenStatusCreated = "created"

// UnknownSignature is stored when the launch response carries no signature.
const UnknownSignature = "Unknown"

// Token is the public record of a launched token.
// Corresponds to tokens table in PostgreSQL.
type Token struct {
	ID                   string // PRIMARY KEY (uuid)
	Name                 string
	Symbol               string
	Description          *string
	MintAddress          string // unique
	TransactionSignature string
	MetadataURI          string
	ImageURI             *string
	FeeAccount           *string // as submitted (not normalized)
	TwitterURL           *string
	TelegramURL          *string
	WebsiteURL           *string // the user's own website, display only
	Status               string
	RawResponse          json.RawMessage // upstream launch response
	WalletID             string
	WalletPublicKey      string
	CreatorIP            string
	CreatedAt            time.Time
}

// TokenFilter selects a page of tokens for listing.
type TokenFilter struct {
	Page   int    // 1-based
	Limit  int    // page size
	Status string // "" or "all" disables the filter
	Search string // case-insensitive substring over name, symbol, mint
	// ExcludedFeeAccounts holds normalized handles hidden from listings.
	ExcludedFeeAccounts []string
}

// Offset returns the row offset of the filter's page. It saturates at
// math.MaxInt for pages too large to address.
func (f TokenFilter) Offset() int {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Limit
}

// StringPtr returns nil for blank strings, otherwise a pointer to s.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
