// Package main runs the launchpad HTTP service:
// - POST /api/tokens/create: gated wallet provisioning, funding and token launch
// - GET /api/tokens, /api/tokens/:mint: public token listing
// - /api/countdown-start, /health, /metrics
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sol "github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solana-launchpad/internal/api"
	"solana-launchpad/internal/config"
	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/launcher"
	"solana-launchpad/internal/logger"
	"solana-launchpad/internal/metadata"
	"solana-launchpad/internal/orchestrator"
	"solana-launchpad/internal/persistence"
	"solana-launchpad/internal/ratelimit"
	"solana-launchpad/internal/solana"
	"solana-launchpad/internal/storage"
	chstore "solana-launchpad/internal/storage/clickhouse"
	"solana-launchpad/internal/storage/memory"
	"solana-launchpad/internal/storage/migrations"
	pgstore "solana-launchpad/internal/storage/postgres"
	"solana-launchpad/internal/wallet"
)

const shutdownTimeout = 30 * time.Second

// stores bundles the persistence backends chosen at startup.
type stores struct {
	wallets    storage.WalletStore
	activities storage.ActivityStore
	tokens     storage.TokenStore
	config     storage.ConfigStore
	mirror     storage.ActivityStore // nil without ClickHouse
}

func main() {
	httpAddr := flag.String("http-addr", config.DefaultHTTPAddr, "HTTP listen address (overrides HTTP_ADDR)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL (overrides USE_MEMORY)")
	migrate := flag.Bool("migrate", true, "Apply embedded migrations on startup (overrides RUN_MIGRATIONS)")
	stage := flag.String("stage", "dev", "Deployment stage, dev or prod (overrides STAGE)")
	flag.Parse()

	// Only flags given on the command line override the environment.
	cfg, err := config.Load(func(c *config.Config) {
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "http-addr":
				c.HTTPAddr = *httpAddr
			case "use-memory":
				c.UseMemory = *useMemory
			case "migrate":
				c.RunMigrations = *migrate
			case "stage":
				c.Stage = *stage
			}
		})
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger.InitLogger(cfg.Stage)
	defer func() { _ = logger.Sync() }()
	log := logger.Named(nil, logger.ComponentServer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
	log.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	st, cleanup, err := createStores(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("create stores: %w", err)
	}
	defer cleanup()

	gateway := persistence.New(persistence.Options{
		Wallets:    st.wallets,
		Activities: st.activities,
		Tokens:     st.tokens,
		Config:     st.config,
		Mirror:     st.mirror,
		Logger:     logger.Log,
	})

	lock, closeLock, err := createLock(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLock()

	limiter := ratelimit.New(ratelimit.Options{
		History: st.tokens,
		Lock:    lock,
		Config: ratelimit.Config{
			IPWindow:             cfg.IPWindow,
			FeeAccountWindow:     cfg.FeeAccountWindow,
			FeeAccountDailyLimit: cfg.FeeAccountDailyLimit,
		},
		Logger: logger.Log,
	})

	rpc := solana.NewHTTPClient(cfg.SolanaRPCURL)
	var confirmer solana.Confirmer
	if cfg.SolanaWSURL != "" {
		confirmer = solana.NewWSConfirmer(cfg.SolanaWSURL, rpc, nil)
		log.Info("confirming transfers over websocket", zap.String("endpoint", cfg.SolanaWSURL))
	} else {
		confirmer = solana.NewPollingConfirmer(rpc, nil)
		log.Info("confirming transfers by polling")
	}
	transferer := solana.NewTransferer(rpc, confirmer)

	fundingKey := loadFundingKey(ctx, cfg, transferer, log)

	orch := orchestrator.New(orchestrator.Options{
		Gate: limiter,
		Wallets: wallet.New(wallet.Options{
			BaseURL: cfg.PumpPortalBaseURL,
			Funder:  transferer,
			Logger:  logger.Log,
		}),
		Uploader: metadata.New(metadata.Options{
			Endpoint:      cfg.PumpFunIPFSURL,
			ServiceDomain: cfg.ServiceDomain,
			Logger:        logger.Log,
		}),
		Launcher: launcher.New(launcher.Options{
			BaseURL: cfg.PumpPortalBaseURL,
			Logger:  logger.Log,
		}),
		Store:          gateway,
		FundingKey:     fundingKey,
		StepTimeout:    cfg.StepTimeout,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger.Log,
	})

	if cfg.Stage == logger.ProdStage {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Options{
		Launcher:           orch,
		Catalog:            gateway,
		BlockedFeeAccounts: cfg.BlockedFeeAccounts,
		RPS:                cfg.HTTPRPS,
		Burst:              cfg.HTTPBurst,
		Logger:             logger.Log,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		// Creation requests wait for the whole launch.
		WriteTimeout: cfg.RequestTimeout + 30*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down, draining in-flight launches", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// createStores opens PostgreSQL (or memory) and the optional ClickHouse mirror.
func createStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, func(), error) {
	if cfg.UseMemory {
		log.Warn("using in-memory storage; data is lost on restart")
		return &stores{
			wallets:    memory.NewWalletStore(),
			activities: memory.NewActivityStore(),
			tokens:     memory.NewTokenStore(),
			config:     memory.NewConfigStore(),
		}, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if cfg.RunMigrations {
		applied, err := migrations.RunPostgresMigrations(ctx, pool.Pool)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres migrations: %w", err)
		}
		log.Info("postgres schema up to date", zap.Strings("applied", applied))
	}

	st := &stores{
		wallets:    pgstore.NewWalletStore(pool),
		activities: pgstore.NewActivityStore(pool),
		tokens:     pgstore.NewTokenStore(pool),
		config:     pgstore.NewConfigStore(pool),
	}
	cleanup := func() { pool.Close() }

	if cfg.ClickhouseDSN == "" {
		return st, cleanup, nil
	}

	var conn *chstore.Conn
	if cfg.RunMigrations {
		conn, err = migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
	} else {
		conn, err = chstore.NewConn(ctx, cfg.ClickhouseDSN)
	}
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	log.Info("mirroring wallet activities to clickhouse")
	st.mirror = chstore.NewActivityStore(conn)

	return st, func() {
		conn.Close()
		pool.Close()
	}, nil
}

// createLock returns the Redis gate lock when REDIS_URL is set.
func createLock(ctx context.Context, cfg *config.Config, log *zap.Logger) (ratelimit.Lock, func(), error) {
	if cfg.RedisURL == "" {
		log.Info("gate lock disabled; concurrent requests from one IP may both pass")
		return nil, func() {}, nil
	}
	rdb, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	return ratelimit.NewRedisLock(rdb), func() { _ = rdb.Close() }, nil
}

// loadFundingKey parses the funding keypair and reports its balance. Launches
// are refused when the key is absent or invalid.
func loadFundingKey(ctx context.Context, cfg *config.Config, t *solana.Transferer, log *zap.Logger) sol.PrivateKey {
	if cfg.FundingWalletPrivateKey == "" {
		log.Warn("FUNDING_WALLET_PRIVATE_KEY not set; token creation is disabled")
		return nil
	}
	key, err := solana.ParseKeypair(cfg.FundingWalletPrivateKey)
	if err != nil {
		log.Error("invalid FUNDING_WALLET_PRIVATE_KEY; token creation is disabled", zap.Error(err))
		return nil
	}

	pub := key.PublicKey().String()
	balCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	lamports, err := t.Balance(balCtx, pub)
	if err != nil {
		log.Warn("could not read funding wallet balance", zap.String("public_key", pub), zap.Error(err))
		return key
	}
	fields := []zap.Field{
		zap.String("public_key", pub),
		zap.Float64("balance_sol", float64(lamports)/domain.LamportsPerSOL),
	}
	if lamports < domain.FundingAmountLamports {
		log.Warn("funding wallet balance below one wallet funding", fields...)
	} else {
		log.Info("funding wallet loaded", fields...)
	}
	return key
}
