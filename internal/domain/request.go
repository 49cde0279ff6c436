package domain

import "strings"

// CreateRequest is a single token-creation submission.
// It lives for one orchestrator run and is never persisted as-is.
type CreateRequest struct {
	Name        string
	Symbol      string
	Description string
	Image       *Image // optional
	TwitterURL  string
	TelegramURL string
	WebsiteURL  string
	FeeAccount  string // social handle, "@" prefix optional
	CreatorIP   string
}

// Image is an uploaded token image.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// HasImage reports whether a non-empty image was submitted.
func (r *CreateRequest) HasImage() bool {
	return r.Image != nil && len(r.Image.Data) > 0
}

// MissingFields returns the required fields that are blank.
func (r *CreateRequest) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(r.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(r.Symbol) == "" {
		missing = append(missing, "symbol")
	}
	return missing
}

// NormalizeFeeAccount strips a leading "@" and case-folds the handle so that
// "@Yield", "yield" and "YIELD" compare equal.
func NormalizeFeeAccount(handle string) string {
	h := strings.TrimSpace(handle)
	h = strings.TrimPrefix(h, "@")
	return strings.ToLower(h)
}

// FeeAccountHandle returns the handle without its "@" prefix, preserving case.
func FeeAccountHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}
