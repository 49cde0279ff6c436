// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the typed service configuration.
type Config struct {
	Stage    string
	LogLevel string

	HTTPAddr  string
	HTTPRPS   float64 // per-IP request rate for the HTTP throttle
	HTTPBurst int

	PostgresDSN   string
	UseMemory     bool
	RunMigrations bool
	ClickhouseDSN string // optional activity audit mirror
	RedisURL      string // optional gate lock

	SolanaRPCURL            string
	SolanaWSURL             string // empty selects polling confirmation
	FundingWalletPrivateKey string

	PumpPortalBaseURL string
	PumpFunIPFSURL    string
	ServiceDomain     string

	StepTimeout    time.Duration
	RequestTimeout time.Duration

	IPWindow             time.Duration
	FeeAccountWindow     time.Duration
	FeeAccountDailyLimit int
	BlockedFeeAccounts   []string
}

// Defaults.
const (
	DefaultHTTPAddr          = ":8080"
	DefaultSolanaRPCURL      = "https://api.mainnet-beta.solana.com"
	DefaultPumpPortalBaseURL = "https://pumpportal.fun"
	DefaultPumpFunIPFSURL    = "https://pump.fun/api/ipfs"
	DefaultServiceDomain     = "launchyield.fun"
	DefaultStepTimeout       = 60 * time.Second
	DefaultRequestTimeout    = 3 * time.Minute
	DefaultIPWindow          = 7 * time.Minute
	DefaultFeeAccountWindow  = 24 * time.Hour
	DefaultFeeAccountLimit   = 200
)

// Load reads .env (if present) and then the process environment.
// Overrides run before validation.
func Load(overrides ...func(*Config)) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv, overrides...)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string, overrides ...func(*Config)) (*Config, error) {
	p := parser{getenv: getenv}

	cfg := &Config{
		Stage:    p.str("STAGE", "dev"),
		LogLevel: p.str("LOG_LEVEL", "info"),

		HTTPAddr:  p.str("HTTP_ADDR", DefaultHTTPAddr),
		HTTPRPS:   p.float("HTTP_RPS", 5),
		HTTPBurst: p.int("HTTP_BURST", 20),

		PostgresDSN:   getenv("POSTGRES_DSN"),
		UseMemory:     p.bool("USE_MEMORY", false),
		RunMigrations: p.bool("RUN_MIGRATIONS", true),
		ClickhouseDSN: getenv("CLICKHOUSE_DSN"),
		RedisURL:      getenv("REDIS_URL"),

		SolanaRPCURL:            p.str("SOLANA_RPC_URL", DefaultSolanaRPCURL),
		SolanaWSURL:             getenv("SOLANA_WS_URL"),
		FundingWalletPrivateKey: getenv("FUNDING_WALLET_PRIVATE_KEY"),

		PumpPortalBaseURL: strings.TrimRight(p.str("PUMPPORTAL_BASE_URL", DefaultPumpPortalBaseURL), "/"),
		PumpFunIPFSURL:    p.str("PUMPFUN_IPFS_URL", DefaultPumpFunIPFSURL),
		ServiceDomain:     p.str("SERVICE_DOMAIN", DefaultServiceDomain),

		StepTimeout:    p.duration("STEP_TIMEOUT", DefaultStepTimeout),
		RequestTimeout: p.duration("REQUEST_TIMEOUT", DefaultRequestTimeout),

		IPWindow:             p.duration("IP_WINDOW", DefaultIPWindow),
		FeeAccountWindow:     p.duration("FEE_ACCOUNT_WINDOW", DefaultFeeAccountWindow),
		FeeAccountDailyLimit: p.int("FEE_ACCOUNT_DAILY_LIMIT", DefaultFeeAccountLimit),
		BlockedFeeAccounts:   p.list("BLOCKED_FEE_ACCOUNTS"),
	}

	if len(p.errs) > 0 {
		return nil, errors.Join(p.errs...)
	}
	for _, override := range overrides {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	var errs []error
	if !c.UseMemory && c.PostgresDSN == "" {
		errs = append(errs, errors.New("POSTGRES_DSN is required unless USE_MEMORY=true"))
	}
	if c.StepTimeout <= 0 || c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("STEP_TIMEOUT and REQUEST_TIMEOUT must be positive"))
	}
	if c.FeeAccountDailyLimit <= 0 {
		errs = append(errs, errors.New("FEE_ACCOUNT_DAILY_LIMIT must be positive"))
	}
	if c.HTTPRPS <= 0 || c.HTTPBurst <= 0 {
		errs = append(errs, errors.New("HTTP_RPS and HTTP_BURST must be positive"))
	}
	return errors.Join(errs...)
}

// parser collects conversion errors so Load reports them all at once.
type parser struct {
	getenv func(string) string
	errs   []error
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) bool(key string, def bool) bool {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func (p *parser) int(key string, def int) int {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func (p *parser) list(key string) []string {
	var out []string
	for _, item := range strings.Split(p.getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
