package api

import (
	"net/http"
	"strings"
)

// UnknownIP is recorded when no client address header is present.
const UnknownIP = "unknown"

// ClientIP returns the requester address used for rate limiting and audit.
// Precedence: first X-Forwarded-For entry, CF-Connecting-IP, X-Real-IP.
// The socket address is never consulted.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return UnknownIP
}
