// Package orchestrator runs the token launch workflow.
// It coordinates: gate → wallet → funding → metadata → launch → persistence
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	sol "github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/launcher"
	"solana-launchpad/internal/logger"
	"solana-launchpad/internal/metadata"
	"solana-launchpad/internal/observability"
	"solana-launchpad/internal/wallet"
)

// Default timeouts.
const (
	DefaultStepTimeout    = 60 * time.Second
	DefaultRequestTimeout = 3 * time.Minute

	auditTimeout = 5 * time.Second
)

// Creation outcomes used as metric labels.
const (
	outcomeSuccess     = "success"
	outcomeInvalid     = "invalid"
	outcomeRateLimited = "rate_limited"
	outcomeFailed      = "failed"
)

// Orchestrator coordinates a single token launch per Run call.
// Flow: gate → create wallet → persist wallet → fund → persist funding →
// upload metadata → launch → persist token
type Orchestrator struct {
	gate     Gate
	wallets  WalletProvisioner
	uploader MetadataUploader
	launcher TokenLauncher
	store    Persistence

	fundingKey sol.PrivateKey
	newMint    func() (sol.PrivateKey, error)
	now        func() time.Time

	stepTimeout    time.Duration
	requestTimeout time.Duration
	logger         *zap.Logger
}

// Options for creating Orchestrator.
type Options struct {
	// Required collaborators
	Gate     Gate
	Wallets  WalletProvisioner
	Uploader MetadataUploader
	Launcher TokenLauncher
	Store    Persistence

	// FundingKey pays for every new wallet. Runs fail before any side
	// effect when it is empty.
	FundingKey sol.PrivateKey

	// Optional
	NewMint        func() (sol.PrivateKey, error) // defaults to launcher.NewMintKeypair
	Now            func() time.Time
	StepTimeout    time.Duration
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		gate:           opts.Gate,
		wallets:        opts.Wallets,
		uploader:       opts.Uploader,
		launcher:       opts.Launcher,
		store:          opts.Store,
		fundingKey:     opts.FundingKey,
		newMint:        opts.NewMint,
		now:            opts.Now,
		stepTimeout:    opts.StepTimeout,
		requestTimeout: opts.RequestTimeout,
		logger:         logger.Named(opts.Logger, logger.ComponentOrchestrator),
	}
	if o.newMint == nil {
		o.newMint = launcher.NewMintKeypair
	}
	if o.now == nil {
		o.now = func() time.Time { return time.Now().UTC() }
	}
	if o.stepTimeout <= 0 {
		o.stepTimeout = DefaultStepTimeout
	}
	if o.requestTimeout <= 0 {
		o.requestTimeout = DefaultRequestTimeout
	}
	return o
}

// Run executes the launch workflow for req.
//
// Errors:
//   - *ValidationError and *RateLimitError: returned before any side effect
//   - ErrFundingKeyMissing: returned before any side effect
//   - *StepError: a transition failed; earlier side effects are kept
//
// Once the gate passes, cancelling ctx no longer stops the run; only the
// request timeout does.
func (o *Orchestrator) Run(ctx context.Context, req *domain.CreateRequest) (*Outcome, error) {
	log := logger.FromContext(ctx, o.logger)
	r := &run{req: req}

	if missing := req.MissingFields(); len(missing) > 0 {
		observability.RecordCreation(outcomeInvalid)
		return nil, &ValidationError{Missing: missing}
	}

	release, err := o.checkGate(ctx, r)
	defer release()
	if err != nil {
		observability.RecordCreation(outcomeRateLimited)
		return nil, err
	}

	if len(o.fundingKey) == 0 {
		observability.RecordCreation(outcomeFailed)
		return nil, ErrFundingKeyMissing
	}

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.requestTimeout)
	defer cancel()

	log.Info("starting token launch",
		zap.String("name", req.Name),
		zap.String("symbol", req.Symbol),
		zap.String("ip", req.CreatorIP))

	for _, t := range o.transitions() {
		if err := o.step(runCtx, r, t); err != nil {
			return nil, o.fail(runCtx, r, t.to, err)
		}
	}

	o.finish(runCtx, r)
	observability.RecordCreation(outcomeSuccess)
	log.Info("token launch complete",
		zap.String("wallet_id", r.walletID),
		zap.String("mint", r.launch.MintAddress),
		zap.String("signature", r.launch.Signature))
	return r.outcome(), nil
}

// checkGate evaluates the IP limit, then the fee account limit. The returned
// release func is never nil and must be called when the run ends.
func (o *Orchestrator) checkGate(ctx context.Context, r *run) (func(), error) {
	ip := r.req.CreatorIP
	now := o.now()

	release, held := o.gate.AcquireIP(ctx, ip, o.requestTimeout)
	if !held.Allowed {
		observability.RecordGateRejection(LimitIP)
		return release, &RateLimitError{Type: LimitIP, IP: held}
	}

	ipDecision := o.gate.CheckIPLimit(ctx, ip, now)
	if !ipDecision.Allowed {
		observability.RecordGateRejection(LimitIP)
		return release, &RateLimitError{Type: LimitIP, IP: ipDecision}
	}

	feeDecision := o.gate.CheckFeeAccountLimit(ctx, r.req.FeeAccount, now)
	if !feeDecision.Allowed {
		observability.RecordGateRejection(LimitFeeAccount)
		return release, &RateLimitError{Type: LimitFeeAccount, FeeAccount: feeDecision}
	}

	r.feeDecision = feeDecision
	r.state = StateGated
	return release, nil
}

// step runs one transition under the step timeout.
func (o *Orchestrator) step(ctx context.Context, r *run, t transition) error {
	stepCtx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()

	start := time.Now()
	err := t.fn(stepCtx, r)
	status := "ok"
	if err != nil {
		status = "error"
	}
	observability.ObserveStep(t.step, status, time.Since(start))
	if err != nil {
		return err
	}

	r.state = t.to
	logger.FromContext(ctx, o.logger).Debug("state reached", zap.String("state", string(t.to)))
	return nil
}

// fail is the single terminal error handler. It records an error activity
// when a wallet is already persisted; that write is best effort.
func (o *Orchestrator) fail(ctx context.Context, r *run, target State, err error) error {
	from := r.state
	r.state = StateFailed
	observability.RecordCreation(outcomeFailed)

	log := logger.FromContext(ctx, o.logger)
	log.Error("token creation failed",
		zap.String("from_state", string(from)),
		zap.String("target_state", string(target)),
		zap.String("wallet_id", r.walletID),
		zap.Error(err))

	if r.walletID != "" {
		activity := &domain.WalletActivity{
			WalletID:     r.walletID,
			ActivityType: domain.ActivityError,
			Description:  "Error during token creation: " + err.Error(),
		}
		var ferr *wallet.FundingError
		if errors.As(err, &ferr) && ferr.Signature != "" {
			activity.TransactionSignature = &ferr.Signature
		}

		auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
		defer cancel()
		if aerr := o.store.RecordActivity(auditCtx, activity); aerr != nil {
			log.Warn("failed to log error activity", zap.String("wallet_id", r.walletID), zap.Error(aerr))
		}
	}

	return &StepError{State: target, WalletID: r.walletID, Err: err}
}

// Transitions

func (o *Orchestrator) createWallet(ctx context.Context, r *run) error {
	w, err := o.wallets.CreateWallet(ctx)
	if err != nil {
		return err
	}
	r.wallet = w
	return nil
}

func (o *Orchestrator) persistWallet(ctx context.Context, r *run) error {
	id, err := o.store.RecordWallet(ctx, &domain.SecureWallet{
		PublicKey:  r.wallet.PublicKey,
		PrivateKey: r.wallet.PrivateKey,
		APIKey:     r.wallet.APIKey,
		CreatorIP:  r.req.CreatorIP,
		IsActive:   true,
		Notes:      fmt.Sprintf("Created for token: %s (%s)", r.req.Name, r.req.Symbol),
	})
	if err != nil {
		return &PersistenceError{Op: "record_wallet", Err: err}
	}
	r.walletID = id

	err = o.store.RecordActivity(ctx, &domain.WalletActivity{
		WalletID:     id,
		ActivityType: domain.ActivityCreated,
		Description:  fmt.Sprintf("Wallet created for token %s (%s)", r.req.Name, r.req.Symbol),
	})
	if err != nil {
		return &PersistenceError{Op: "record_activity", Err: err}
	}
	return nil
}

func (o *Orchestrator) fundWallet(ctx context.Context, r *run) error {
	sig, err := o.wallets.FundWallet(ctx, o.fundingKey, r.wallet.PublicKey, domain.FundingAmountLamports)
	if err != nil {
		return err
	}
	r.fundingSig = sig
	return nil
}

func (o *Orchestrator) persistFunding(ctx context.Context, r *run) error {
	if err := o.store.RecordFunding(ctx, r.walletID, r.fundingSig, domain.FundingAmountSOL); err != nil {
		return &PersistenceError{Op: "record_funding", Err: err}
	}

	amount := domain.FundingAmountSOL
	err := o.store.RecordActivity(ctx, &domain.WalletActivity{
		WalletID:             r.walletID,
		ActivityType:         domain.ActivityFunded,
		Description:          "Wallet funded with initial SOL",
		TransactionSignature: &r.fundingSig,
		AmountSOL:            &amount,
	})
	if err != nil {
		return &PersistenceError{Op: "record_activity", Err: err}
	}
	return nil
}

func (o *Orchestrator) uploadMetadata(ctx context.Context, r *run) error {
	mint, err := o.newMint()
	if err != nil {
		return fmt.Errorf("generate mint keypair: %w", err)
	}
	r.mint = mint

	var image *domain.Image
	if r.req.HasImage() {
		image = r.req.Image
	}

	meta, err := o.uploader.Upload(ctx, metadata.Input{
		Name:        r.req.Name,
		Symbol:      r.req.Symbol,
		Description: r.req.Description,
		TwitterURL:  r.req.TwitterURL,
		TelegramURL: r.req.TelegramURL,
		FeeAccount:  r.req.FeeAccount,
		MintAddress: mint.PublicKey().String(),
	}, image)
	if err != nil {
		return err
	}
	r.meta = meta
	return nil
}

func (o *Orchestrator) launchToken(ctx context.Context, r *run) error {
	res, err := o.launcher.Launch(ctx, launcher.Input{
		Mint:        r.mint,
		Name:        r.req.Name,
		Symbol:      r.req.Symbol,
		MetadataURI: r.meta.MetadataURI,
		APIKey:      r.wallet.APIKey,
	})
	if err != nil {
		return err
	}
	r.launch = res
	return nil
}

// persistToken never fails the run: the token already exists on-chain.
func (o *Orchestrator) persistToken(ctx context.Context, r *run) error {
	token := &domain.Token{
		Name:                 r.req.Name,
		Symbol:               r.req.Symbol,
		Description:          domain.StringPtr(r.req.Description),
		MintAddress:          r.launch.MintAddress,
		TransactionSignature: r.launch.Signature,
		MetadataURI:          r.meta.MetadataURI,
		ImageURI:             domain.StringPtr(r.meta.ImageURI),
		FeeAccount:           domain.StringPtr(r.req.FeeAccount),
		TwitterURL:           domain.StringPtr(r.req.TwitterURL),
		TelegramURL:          domain.StringPtr(r.req.TelegramURL),
		WebsiteURL:           domain.StringPtr(r.req.WebsiteURL),
		Status:               domain.TokenStatusCreated,
		RawResponse:          r.launch.Raw,
		WalletID:             r.walletID,
		WalletPublicKey:      r.wallet.PublicKey,
		CreatorIP:            r.req.CreatorIP,
		CreatedAt:            o.now(),
	}

	id, err := o.store.RecordToken(ctx, token)
	if err != nil {
		logger.FromContext(ctx, o.logger).Error("token launched but failed to save to database",
			zap.String("mint", r.launch.MintAddress),
			zap.Error(&PersistenceError{Op: "record_token", Err: err}))
		return nil
	}
	r.tokenID = &id
	return nil
}

// finish moves TokenPersisted → Done. The launch activity and the wallet
// notes are best effort and only written when the token record exists.
func (o *Orchestrator) finish(ctx context.Context, r *run) {
	defer func() { r.state = StateDone }()
	if r.tokenID == nil {
		return
	}

	log := logger.FromContext(ctx, o.logger)
	sig := r.launch.Signature
	err := o.store.RecordActivity(ctx, &domain.WalletActivity{
		WalletID:             r.walletID,
		ActivityType:         domain.ActivityTokenLaunched,
		Description:          fmt.Sprintf("Token launched: %s (%s)", r.req.Name, r.req.Symbol),
		TransactionSignature: &sig,
	})
	if err != nil {
		log.Warn("failed to log launch activity", zap.String("wallet_id", r.walletID), zap.Error(err))
	}

	notes := fmt.Sprintf("Token launched: %s (%s) - Mint: %s", r.req.Name, r.req.Symbol, r.launch.MintAddress)
	if err := o.store.UpdateWalletNotes(ctx, r.walletID, notes); err != nil {
		log.Warn("failed to update wallet notes", zap.String("wallet_id", r.walletID), zap.Error(err))
	}
}
