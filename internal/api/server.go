// Package api exposes the launchpad over HTTP.
package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/logger"
	"solana-launchpad/internal/observability"
	"solana-launchpad/internal/orchestrator"
	"solana-launchpad/internal/persistence"
)

var (
	_ Launcher = (*orchestrator.Orchestrator)(nil)
	_ Catalog  = (*persistence.Gateway)(nil)
)

// Options for creating the router.
type Options struct {
	Launcher Launcher
	Catalog  Catalog

	// BlockedFeeAccounts are hidden from listings. Matching ignores case
	// and a leading "@".
	BlockedFeeAccounts []string

	// Per-IP HTTP throttle. Disabled when RPS is zero.
	RPS   float64
	Burst int

	MaxImageBytes int64 // defaults to DefaultMaxImageBytes
	Logger        *zap.Logger
}

// NewRouter builds the gin engine with middleware and routes registered.
func NewRouter(opts Options) *gin.Engine {
	log := logger.Named(opts.Logger, logger.ComponentAPI)

	h := &handlers{
		launcher:      opts.Launcher,
		catalog:       opts.Catalog,
		excluded:      normalizeHandles(opts.BlockedFeeAccounts),
		maxImageBytes: opts.MaxImageBytes,
		logger:        log,
	}
	if h.maxImageBytes <= 0 {
		h.maxImageBytes = DefaultMaxImageBytes
	}

	r := gin.New()
	r.Use(gin.Recovery(), CorrelationID(), RequestLogger(opts.Logger))
	if opts.RPS > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		r.Use(NewThrottle(opts.RPS, burst).Middleware(opts.Logger))
	}
	// Room for the image plus the text fields.
	r.MaxMultipartMemory = h.maxImageBytes + 1<<20

	r.GET("/health", health)
	r.GET("/metrics", gin.WrapH(observability.Handler()))

	api := r.Group("/api")
	api.POST("/tokens/create", h.createToken)
	api.GET("/tokens", h.listTokens)
	api.GET("/tokens/:mint", h.tokenByMint)
	api.GET("/countdown-start", h.getCountdown)
	api.POST("/countdown-start", h.setCountdown)

	return r
}

func normalizeHandles(handles []string) []string {
	seen := make(map[string]bool, len(handles))
	var out []string
	for _, handle := range handles {
		n := domain.NormalizeFeeAccount(handle)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
