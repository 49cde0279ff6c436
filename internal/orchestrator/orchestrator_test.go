package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	sol "github.com/gagliardetto/solana-go"
	"go.uber.org/mock/gomock"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/launcher"
	"solana-launchpad/internal/metadata"
	"solana-launchpad/internal/mocks"
	"solana-launchpad/internal/persistence"
	"solana-launchpad/internal/ratelimit"
	"solana-launchpad/internal/solana"
	"solana-launchpad/internal/storage/memory"
	"solana-launchpad/internal/wallet"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// spyStore wraps the gateway and records the order of persistence calls.
type spyStore struct {
	*persistence.Gateway
	events   *[]string
	tokenErr error
}

func (s *spyStore) RecordWallet(ctx context.Context, w *domain.SecureWallet) (string, error) {
	*s.events = append(*s.events, "record_wallet")
	return s.Gateway.RecordWallet(ctx, w)
}

func (s *spyStore) RecordFunding(ctx context.Context, id, sig string, amount float64) error {
	*s.events = append(*s.events, "record_funding")
	return s.Gateway.RecordFunding(ctx, id, sig, amount)
}

func (s *spyStore) RecordActivity(ctx context.Context, a *domain.WalletActivity) error {
	*s.events = append(*s.events, "activity:"+string(a.ActivityType))
	return s.Gateway.RecordActivity(ctx, a)
}

func (s *spyStore) RecordToken(ctx context.Context, t *domain.Token) (string, error) {
	*s.events = append(*s.events, "record_token")
	if s.tokenErr != nil {
		return "", s.tokenErr
	}
	return s.Gateway.RecordToken(ctx, t)
}

func (s *spyStore) UpdateWalletNotes(ctx context.Context, id, notes string) error {
	*s.events = append(*s.events, "update_notes")
	return s.Gateway.UpdateWalletNotes(ctx, id, notes)
}

// fixture wires mocked adapters to a real limiter and gateway over memory stores.
type fixture struct {
	wallets  *mocks.MockWalletProvisioner
	uploader *mocks.MockMetadataUploader
	launcher *mocks.MockTokenLauncher

	walletStore   *memory.WalletStore
	activityStore *memory.ActivityStore
	tokenStore    *memory.TokenStore
	store         *spyStore
	limiter       *ratelimit.Limiter

	events     []string
	fundingKey sol.PrivateKey
	mint       sol.PrivateKey
	now        time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		wallets:       mocks.NewMockWalletProvisioner(ctrl),
		uploader:      mocks.NewMockMetadataUploader(ctrl),
		launcher:      mocks.NewMockTokenLauncher(ctrl),
		walletStore:   memory.NewWalletStore(),
		activityStore: memory.NewActivityStore(),
		tokenStore:    memory.NewTokenStore(),
		now:           t0,
	}
	f.store = &spyStore{
		Gateway: persistence.New(persistence.Options{
			Wallets:    f.walletStore,
			Activities: f.activityStore,
			Tokens:     f.tokenStore,
			Config:     memory.NewConfigStore(),
		}),
		events: &f.events,
	}
	f.limiter = ratelimit.New(ratelimit.Options{History: f.tokenStore})
	f.fundingKey, _ = solana.NewKeypair()
	f.mint, _ = solana.NewKeypair()
	return f
}

func (f *fixture) orchestrator(gate Gate) *Orchestrator {
	if gate == nil {
		gate = f.limiter
	}
	return New(Options{
		Gate:       gate,
		Wallets:    f.wallets,
		Uploader:   f.uploader,
		Launcher:   f.launcher,
		Store:      f.store,
		FundingKey: f.fundingKey,
		NewMint:    func() (sol.PrivateKey, error) { return f.mint, nil },
		Now:        func() time.Time { return f.now },
	})
}

func (f *fixture) record(event string) {
	f.events = append(f.events, event)
}

var provisioned = &wallet.ProvisionedWallet{
	PublicKey:  "WalletPublicKey1111111111111111111111111111",
	PrivateKey: "TOP-SECRET-PRIVATE-KEY",
	APIKey:     "TOP-SECRET-API-KEY",
}

// expectHappyPath sets up every adapter to succeed.
func (f *fixture) expectHappyPath(t *testing.T) {
	t.Helper()
	f.wallets.EXPECT().CreateWallet(gomock.Any()).DoAndReturn(
		func(context.Context) (*wallet.ProvisionedWallet, error) {
			f.record("create_wallet")
			return provisioned, nil
		})
	f.wallets.EXPECT().FundWallet(gomock.Any(), f.fundingKey, provisioned.PublicKey, domain.FundingAmountLamports).DoAndReturn(
		func(context.Context, sol.PrivateKey, string, uint64) (string, error) {
			f.record("fund_wallet")
			return "fundingSig", nil
		})
	f.uploader.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in metadata.Input, _ *domain.Image) (*metadata.Result, error) {
			f.record("upload_metadata")
			if in.MintAddress != f.mint.PublicKey().String() {
				t.Errorf("metadata must link to the local mint, got %q", in.MintAddress)
			}
			return &metadata.Result{MetadataURI: "https://ipfs.io/ipfs/meta", ImageURI: "https://ipfs.io/ipfs/img"}, nil
		})
	f.launcher.EXPECT().Launch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in launcher.Input) (*launcher.Result, error) {
			f.record("launch")
			if in.APIKey != provisioned.APIKey || in.MetadataURI != "https://ipfs.io/ipfs/meta" {
				t.Errorf("unexpected launch input %+v", in)
			}
			return &launcher.Result{
				MintAddress: "UpstreamMint",
				Signature:   "launchSig",
				Raw:         json.RawMessage(`{"signature":"launchSig","mint":"UpstreamMint"}`),
			}, nil
		})
}

func yieldRequest() *domain.CreateRequest {
	return &domain.CreateRequest{
		Name:       "Yield",
		Symbol:     "APY",
		FeeAccount: "@YieldDev",
		CreatorIP:  "203.0.113.7",
	}
}

func TestRun_Success(t *testing.T) {
	f := newFixture(t)
	f.expectHappyPath(t)

	out, err := f.orchestrator(nil).Run(context.Background(), yieldRequest())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantEvents := []string{
		"create_wallet",
		"record_wallet", "activity:created",
		"fund_wallet",
		"record_funding", "activity:funded",
		"upload_metadata",
		"launch",
		"record_token",
		"activity:token_launched", "update_notes",
	}
	if strings.Join(f.events, ",") != strings.Join(wantEvents, ",") {
		t.Errorf("events = %v\nwant     %v", f.events, wantEvents)
	}

	w, err := f.walletStore.GetByID(context.Background(), out.Wallet.ID)
	if err != nil {
		t.Fatalf("wallet not persisted: %v", err)
	}
	if w.PrivateKey != provisioned.PrivateKey || w.APIKey != provisioned.APIKey {
		t.Errorf("secrets not persisted")
	}
	if w.Notes != "Token launched: Yield (APY) - Mint: UpstreamMint" {
		t.Errorf("Notes = %q", w.Notes)
	}

	acts, _ := f.activityStore.ListByWallet(context.Background(), out.Wallet.ID)
	var kinds []string
	for _, a := range acts {
		kinds = append(kinds, string(a.ActivityType))
	}
	if strings.Join(kinds, ",") != "created,funded,token_launched" {
		t.Errorf("activities = %v", kinds)
	}

	token, err := f.tokenStore.GetByMint(context.Background(), "UpstreamMint")
	if err != nil {
		t.Fatalf("token not persisted: %v", err)
	}
	if token.MintAddress != out.Token.Mint || token.TransactionSignature != "launchSig" {
		t.Errorf("unexpected token %+v", token)
	}
	if out.Token.ID == nil || *out.Token.ID != token.ID {
		t.Errorf("outcome token id mismatch")
	}
	if !token.CreatedAt.Equal(t0) || token.CreatorIP != "203.0.113.7" {
		t.Errorf("token must carry the gate's history keys")
	}

	if out.Wallet.FundingSignature != "fundingSig" || out.Token.WalletUsed != provisioned.PublicKey {
		t.Errorf("unexpected outcome %+v", out)
	}
	if out.RateLimit.CurrentCount != 1 || out.RateLimit.DailyLimit != 200 || out.RateLimit.FeeAccount != "@YieldDev" {
		t.Errorf("unexpected rate limit status %+v", out.RateLimit)
	}

	body, _ := json.Marshal(out)
	for _, secret := range []string{provisioned.PrivateKey, provisioned.APIKey} {
		if strings.Contains(string(body), secret) {
			t.Errorf("outcome leaks secret %q", secret)
		}
	}
}

func TestRun_MissingSymbol(t *testing.T) {
	f := newFixture(t)
	gate := mocks.NewMockGate(gomock.NewController(t))

	req := yieldRequest()
	req.Symbol = "  "
	_, err := f.orchestrator(gate).Run(context.Background(), req)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Missing) != 1 || verr.Missing[0] != "symbol" {
		t.Errorf("Missing = %v", verr.Missing)
	}
	if len(f.events) != 0 {
		t.Errorf("expected no side effects, got %v", f.events)
	}
}

func TestRun_IPWindow(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		allowed bool
	}{
		{"6m59s", 6*time.Minute + 59*time.Second, false},
		{"7m01s", 7*time.Minute + 1*time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if err := f.tokenStore.Insert(context.Background(), &domain.Token{
				MintAddress: "PriorMint",
				CreatorIP:   "203.0.113.7",
				CreatedAt:   t0,
			}); err != nil {
				t.Fatalf("Insert: %v", err)
			}
			f.now = t0.Add(tt.elapsed)

			if tt.allowed {
				f.wallets.EXPECT().CreateWallet(gomock.Any()).Return(nil, errors.New("stop here"))
			}

			_, err := f.orchestrator(nil).Run(context.Background(), yieldRequest())
			var rerr *RateLimitError
			isLimited := errors.As(err, &rerr)
			if isLimited == tt.allowed {
				t.Fatalf("allowed=%v but got err %v", tt.allowed, err)
			}
			if isLimited {
				if rerr.Type != LimitIP || rerr.IP.RemainingMinutes != 1 {
					t.Errorf("unexpected rejection %+v", rerr)
				}
				if !strings.Contains(rerr.Error(), "1 minutes") {
					t.Errorf("message = %q", rerr.Error())
				}
			}
		})
	}
}

func TestRun_FeeAccountLimit(t *testing.T) {
	f := newFixture(t)
	variants := []string{"@Yield", "yield", "YIELD", "@yIeLd"}
	for i := 0; i < 200; i++ {
		fee := variants[i%len(variants)]
		err := f.tokenStore.Insert(context.Background(), &domain.Token{
			MintAddress: fmt.Sprintf("Mint%d", i),
			FeeAccount:  &fee,
			CreatorIP:   fmt.Sprintf("10.0.0.%d", i),
			CreatedAt:   t0.Add(-time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	req := yieldRequest()
	req.FeeAccount = "yield"
	_, err := f.orchestrator(nil).Run(context.Background(), req)

	var rerr *RateLimitError
	if !errors.As(err, &rerr) || rerr.Type != LimitFeeAccount {
		t.Fatalf("expected fee account rejection, got %v", err)
	}
	d := rerr.FeeAccount
	if d.CurrentCount != 200 || d.DailyLimit != 200 || d.HoursUntilReset < 1 {
		t.Errorf("unexpected decision %+v", d)
	}
	if d.FeeAccount != "yield" {
		t.Errorf("FeeAccount = %q", d.FeeAccount)
	}
	if len(f.events) != 0 {
		t.Errorf("expected no side effects, got %v", f.events)
	}
}

func TestRun_GateOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	gate := mocks.NewMockGate(ctrl)
	f := newFixture(t)

	released := 0
	gate.EXPECT().AcquireIP(gomock.Any(), "203.0.113.7", gomock.Any()).
		Return(func() { released++ }, ratelimit.IPDecision{Allowed: true})
	gate.EXPECT().CheckIPLimit(gomock.Any(), "203.0.113.7", t0).
		Return(ratelimit.IPDecision{Allowed: false, RemainingMinutes: 3})
	// CheckFeeAccountLimit must not be called once the IP is blocked.

	_, err := f.orchestrator(gate).Run(context.Background(), yieldRequest())
	var rerr *RateLimitError
	if !errors.As(err, &rerr) || rerr.Type != LimitIP {
		t.Fatalf("expected IP rejection, got %v", err)
	}
	if released != 1 {
		t.Errorf("gate lock must be released, released=%d", released)
	}
}

func TestRun_GateLockHeld(t *testing.T) {
	ctrl := gomock.NewController(t)
	gate := mocks.NewMockGate(ctrl)
	f := newFixture(t)

	gate.EXPECT().AcquireIP(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(func() {}, ratelimit.IPDecision{Allowed: false, RemainingMinutes: 7})

	_, err := f.orchestrator(gate).Run(context.Background(), yieldRequest())
	var rerr *RateLimitError
	if !errors.As(err, &rerr) || rerr.IP.RemainingMinutes != 7 {
		t.Fatalf("expected IP rejection, got %v", err)
	}
}

func TestRun_GateFailsOpen(t *testing.T) {
	f := newFixture(t)
	limiter := ratelimit.New(ratelimit.Options{History: brokenHistory{}})
	f.wallets.EXPECT().CreateWallet(gomock.Any()).Return(nil, &wallet.ProvisioningError{StatusCode: 503, Err: errors.New("down")})

	_, err := f.orchestrator(limiter).Run(context.Background(), yieldRequest())

	var perr *wallet.ProvisioningError
	if !errors.As(err, &perr) {
		t.Fatalf("expected the run to pass the gate and fail at provisioning, got %v", err)
	}
}

type brokenHistory struct{}

func (brokenHistory) LatestCreationByIP(context.Context, string, time.Time) (time.Time, error) {
	return time.Time{}, errors.New("connection refused")
}

func (brokenHistory) CreationsByFeeAccount(context.Context, string, time.Time) ([]time.Time, error) {
	return nil, errors.New("connection refused")
}

func TestRun_FundingKeyMissing(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(nil)
	o.fundingKey = nil

	_, err := o.Run(context.Background(), yieldRequest())
	if !errors.Is(err, ErrFundingKeyMissing) {
		t.Fatalf("expected ErrFundingKeyMissing, got %v", err)
	}
	if len(f.events) != 0 {
		t.Errorf("expected no side effects, got %v", f.events)
	}
}

func TestRun_MetadataFailure(t *testing.T) {
	f := newFixture(t)
	f.wallets.EXPECT().CreateWallet(gomock.Any()).Return(provisioned, nil)
	f.wallets.EXPECT().FundWallet(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("fundingSig", nil)
	f.uploader.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &metadata.MetadataUploadError{StatusCode: 500, Err: errors.New("ipfs down")})
	// No Launch expectation: any launcher call fails the test.

	_, err := f.orchestrator(nil).Run(context.Background(), yieldRequest())

	var serr *StepError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if serr.State != StateMetadataUploaded {
		t.Errorf("State = %s", serr.State)
	}
	var uerr *metadata.MetadataUploadError
	if !errors.As(err, &uerr) {
		t.Errorf("expected wrapped MetadataUploadError")
	}
	if !strings.Contains(err.Error(), "ipfs down") {
		t.Errorf("message must come from the uploader, got %q", err.Error())
	}

	w, getErr := f.walletStore.GetByID(context.Background(), serr.WalletID)
	if getErr != nil {
		t.Fatalf("wallet must stay persisted: %v", getErr)
	}
	if w.FundingTransaction == nil || *w.FundingTransaction != "fundingSig" {
		t.Errorf("funding must stay recorded")
	}

	acts, _ := f.activityStore.ListByWallet(context.Background(), serr.WalletID)
	last := acts[len(acts)-1]
	if last.ActivityType != domain.ActivityError || !strings.HasPrefix(last.Description, "Error during token creation: ") {
		t.Errorf("expected error activity, got %+v", last)
	}
}

func TestRun_ProvisioningFailureHasNoWallet(t *testing.T) {
	f := newFixture(t)
	f.wallets.EXPECT().CreateWallet(gomock.Any()).Return(nil, &wallet.ProvisioningError{Err: errors.New("missing fields")})

	_, err := f.orchestrator(nil).Run(context.Background(), yieldRequest())
	var serr *StepError
	if !errors.As(err, &serr) || serr.WalletID != "" {
		t.Fatalf("expected StepError without wallet, got %v", err)
	}
	if len(f.events) != 0 {
		t.Errorf("no activity can be written without a wallet, got %v", f.events)
	}
}

func TestRun_FundingFailureKeepsSignature(t *testing.T) {
	f := newFixture(t)
	f.wallets.EXPECT().CreateWallet(gomock.Any()).Return(provisioned, nil)
	f.wallets.EXPECT().FundWallet(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", &wallet.FundingError{Signature: "pendingSig", Err: solana.ErrConfirmationTimeout})

	_, err := f.orchestrator(nil).Run(context.Background(), yieldRequest())
	var serr *StepError
	if !errors.As(err, &serr) || serr.State != StateFunded {
		t.Fatalf("expected StepError at funded, got %v", err)
	}

	acts, _ := f.activityStore.ListByWallet(context.Background(), serr.WalletID)
	last := acts[len(acts)-1]
	if last.ActivityType != domain.ActivityError || last.TransactionSignature == nil || *last.TransactionSignature != "pendingSig" {
		t.Errorf("error activity must carry the unconfirmed signature, got %+v", last)
	}
}

func TestRun_WalletPersistFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	f.wallets.EXPECT().CreateWallet(gomock.Any()).Return(&wallet.ProvisionedWallet{}, nil)
	// An empty public key is rejected by the store; funding must not start.

	_, err := f.orchestrator(nil).Run(context.Background(), yieldRequest())
	var perr *PersistenceError
	if !errors.As(err, &perr) || perr.Op != "record_wallet" {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
}

func TestRun_TokenPersistFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	f.expectHappyPath(t)
	f.store.tokenErr = errors.New("db write failed")

	out, err := f.orchestrator(nil).Run(context.Background(), yieldRequest())
	if err != nil {
		t.Fatalf("launch already happened on-chain, expected success: %v", err)
	}
	if out.Token.ID != nil {
		t.Errorf("expected null token id, got %v", *out.Token.ID)
	}
	if out.Token.Mint != "UpstreamMint" || out.Token.Signature != "launchSig" {
		t.Errorf("unexpected token summary %+v", out.Token)
	}
	for _, e := range f.events {
		if e == "activity:token_launched" || e == "update_notes" {
			t.Errorf("unexpected follow-up %s without a token record", e)
		}
	}
}

func TestRun_CallerCancellationDoesNotAbortLaunch(t *testing.T) {
	f := newFixture(t)
	f.expectHappyPath(t)

	ctx, cancel := context.WithCancel(context.Background())
	o := f.orchestrator(nil)
	o.wallets = cancelingProvisioner{WalletProvisioner: f.wallets, cancel: cancel}

	if _, err := o.Run(ctx, yieldRequest()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

// cancelingProvisioner cancels the caller's context once the wallet exists.
type cancelingProvisioner struct {
	WalletProvisioner
	cancel context.CancelFunc
}

func (p cancelingProvisioner) CreateWallet(ctx context.Context) (*wallet.ProvisionedWallet, error) {
	w, err := p.WalletProvisioner.CreateWallet(ctx)
	p.cancel()
	return w, err
}

func TestRun_StepTimeout(t *testing.T) {
	f := newFixture(t)
	f.wallets.EXPECT().CreateWallet(gomock.Any()).DoAndReturn(
		func(ctx context.Context) (*wallet.ProvisionedWallet, error) {
			<-ctx.Done()
			return nil, &wallet.ProvisioningError{Err: ctx.Err()}
		})

	o := f.orchestrator(nil)
	o.stepTimeout = 20 * time.Millisecond

	_, err := o.Run(context.Background(), yieldRequest())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRun_ImageForwarded(t *testing.T) {
	f := newFixture(t)
	f.wallets.EXPECT().CreateWallet(gomock.Any()).Return(provisioned, nil)
	f.wallets.EXPECT().FundWallet(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("fundingSig", nil)

	img := &domain.Image{Filename: "a.png", ContentType: "image/png", Data: []byte{1}}
	f.uploader.EXPECT().Upload(gomock.Any(), gomock.Any(), img).Return(nil, errors.New("stop"))

	req := yieldRequest()
	req.Image = img
	if _, err := f.orchestrator(nil).Run(context.Background(), req); err == nil {
		t.Fatal("expected error")
	}
}
