package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	escrowhttp "github.com/gigvora/escrow/internal/adapter/http"
	"github.com/gigvora/escrow/internal/adapter/http/dto"
	"github.com/gigvora/escrow/internal/adapter/http/handler"
	"github.com/gigvora/escrow/internal/domain"
	"github.com/gigvora/escrow/internal/usecase"
	"github.com/gigvora/escrow/internal/usecase/mocks"
)

type harness struct {
	server          *httptest.Server
	accountRepo     *mocks.MockAccountRepository
	transactionRepo *mocks.MockTransactionRepository
	disputeRepo     *mocks.MockDisputeRepository

	requests         atomic.Int64
	overviewRequests atomic.Int64
	failing          atomic.Bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		accountRepo:     mocks.NewMockAccountRepository(),
		transactionRepo: mocks.NewMockTransactionRepository(),
		disputeRepo:     mocks.NewMockDisputeRepository(),
	}

	activityRepo := mocks.NewMockActivityRepository()
	outboxRepo := mocks.NewMockOutboxRepository()
	txManager := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()
	cache := mocks.NewMockCache()

	overviewUC := usecase.NewOverviewUseCase(h.accountRepo, h.transactionRepo, h.disputeRepo, activityRepo, cache, 0)
	accountUC := usecase.NewAccountUseCase(txManager, h.accountRepo, activityRepo, outboxRepo, idGen, nil)
	transactionUC := usecase.NewTransactionUseCase(txManager, h.accountRepo, h.transactionRepo, activityRepo, outboxRepo, idGen, nil)
	disputeUC := usecase.NewDisputeUseCase(txManager, h.transactionRepo, h.accountRepo, h.disputeRepo, activityRepo, outboxRepo, idGen, nil)

	router := escrowhttp.NewRouter(escrowhttp.RouterConfig{
		OverviewHandler:    handler.NewOverviewHandler(overviewUC),
		AccountHandler:     handler.NewAccountHandler(accountUC, overviewUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC, overviewUC),
		DisputeHandler:     handler.NewDisputeHandler(disputeUC, overviewUC),
		HealthHandler:      handler.NewHealthHandler(nil, nil),
		Logger:             zerolog.Nop(),
	})

	h.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.requests.Add(1)
		if strings.HasSuffix(r.URL.Path, "/overview") {
			h.overviewRequests.Add(1)
		}
		if h.failing.Load() {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"error":"bad_gateway"}`))
			return
		}
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(h.server.Close)

	return h
}

func (h *harness) client(freelancerID string, cache *OverviewCache) *Client {
	return New(Config{
		BaseURL:      h.server.URL,
		FreelancerID: freelancerID,
		Cache:        cache,
		Logger:       zerolog.Nop(),
	})
}

func (h *harness) seedAccount(id, freelancerID string) {
	now := time.Now().UTC()
	h.accountRepo.Seed(&domain.Account{
		ID:                 id,
		FreelancerID:       freelancerID,
		Provider:           domain.ProviderStripe,
		CurrencyCode:       "USD",
		Status:             domain.AccountStatusActive,
		CurrentBalance:     decimal.Zero,
		OutstandingBalance: decimal.Zero,
		ReleasedVolume:     decimal.Zero,
		RefundedVolume:     decimal.Zero,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
}

func TestFetchOverviewWithoutFreelancerReturnsZeroState(t *testing.T) {
	h := newHarness(t)
	c := h.client("", nil)

	result, err := c.FetchOverview(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Overview.Metrics.TotalAccounts != 0 {
		t.Fatalf("expected zero accounts, got %d", result.Overview.Metrics.TotalAccounts)
	}
	if result.Overview.Accounts == nil || len(result.Overview.Accounts) != 0 {
		t.Fatal("expected empty non-nil accounts slice")
	}
	if result.Overview.ReleaseQueue == nil || result.Overview.ActivityLog == nil {
		t.Fatal("expected all slices to be non-nil")
	}

	if h.requests.Load() != 0 {
		t.Fatalf("expected no network calls, got %d", h.requests.Load())
	}
}

func TestFetchOverviewCacheTTL(t *testing.T) {
	h := newHarness(t)
	h.seedAccount("acc-1", "f-1")

	cache := NewOverviewCache(45 * time.Second)
	now := time.Now()
	cache.nowFn = func() time.Time { return now }

	c := h.client("f-1", cache)
	ctx := context.Background()

	if _, err := c.FetchOverview(ctx, nil); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}

	// Second fetch inside the TTL is served from cache.
	now = now.Add(30 * time.Second)
	result, err := c.FetchOverview(ctx, nil)
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	if !result.FromCache {
		t.Fatal("expected cached result inside TTL")
	}
	if got := h.overviewRequests.Load(); got != 1 {
		t.Fatalf("expected exactly one network call inside TTL, got %d", got)
	}

	// After the TTL expires the snapshot is refetched.
	now = now.Add(16 * time.Second)
	result, err = c.FetchOverview(ctx, nil)
	if err != nil {
		t.Fatalf("third fetch failed: %v", err)
	}
	if result.FromCache {
		t.Fatal("expected fresh result after TTL expiry")
	}
	if got := h.overviewRequests.Load(); got != 2 {
		t.Fatalf("expected a second network call after TTL, got %d", got)
	}
}

func TestFetchOverviewServesStaleOnTransportFailure(t *testing.T) {
	h := newHarness(t)
	h.seedAccount("acc-1", "f-1")

	cache := NewOverviewCache(45 * time.Second)
	c := h.client("f-1", cache)
	ctx := context.Background()

	if _, err := c.FetchOverview(ctx, nil); err != nil {
		t.Fatalf("initial fetch failed: %v", err)
	}

	h.failing.Store(true)

	result, err := c.Refresh(ctx)
	if err != nil {
		t.Fatalf("expected stale snapshot, got error: %v", err)
	}
	if !result.FromCache || !result.Stale {
		t.Fatalf("expected stale cached result, got %+v", result)
	}
	if result.Err == nil {
		t.Fatal("expected fetch error to be recorded on the result")
	}
	if len(result.Overview.Accounts) != 1 {
		t.Fatalf("expected the stale snapshot to keep its account, got %d", len(result.Overview.Accounts))
	}
}

func TestConcurrentFetchAndFailingRefresh(t *testing.T) {
	h := newHarness(t)
	h.seedAccount("acc-1", "f-1")

	cache := NewOverviewCache(45 * time.Second)
	c := h.client("f-1", cache)
	ctx := context.Background()

	if _, err := c.FetchOverview(ctx, nil); err != nil {
		t.Fatalf("initial fetch failed: %v", err)
	}

	h.failing.Store(true)

	// Readers serve the cached snapshot while refreshes record the
	// transport failure against the same entry.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(refresh bool) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				if refresh {
					if result, err := c.Refresh(ctx); err != nil {
						t.Errorf("refresh lost the snapshot: %v", err)
					} else if !result.Stale {
						t.Error("expected stale result from failing refresh")
					}
					continue
				}

				result, err := c.FetchOverview(ctx, nil)
				if err != nil {
					t.Errorf("fetch lost the snapshot: %v", err)
				} else if len(result.Overview.Accounts) != 1 {
					t.Errorf("expected cached account, got %d", len(result.Overview.Accounts))
				}
			}
		}(i%2 == 0)
	}
	wg.Wait()
}

func TestRefreshFailsWithoutAnySnapshot(t *testing.T) {
	h := newHarness(t)
	h.failing.Store(true)

	c := h.client("f-1", nil)

	if _, err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected error when no snapshot exists")
	}
}

func TestMutationsGuardAgainstMissingFreelancer(t *testing.T) {
	h := newHarness(t)
	c := h.client("", nil)
	ctx := context.Background()

	calls := []func() error{
		func() error { _, err := c.CreateAccount(ctx, dto.CreateAccountRequest{}); return err },
		func() error { _, err := c.UpdateAccount(ctx, "acc-1", dto.UpdateAccountRequest{}); return err },
		func() error { _, err := c.CreateTransaction(ctx, dto.CreateTransactionRequest{}); return err },
		func() error { _, err := c.ReleaseTransaction(ctx, "txn-1"); return err },
		func() error { _, err := c.RefundTransaction(ctx, "txn-1"); return err },
		func() error { _, err := c.OpenDispute(ctx, "txn-1", dto.OpenDisputeRequest{}); return err },
		func() error { _, err := c.AppendDisputeEvent(ctx, "dsp-1", dto.AppendDisputeEventRequest{}); return err },
	}

	for i, call := range calls {
		if err := call(); !errors.Is(err, ErrNoFreelancer) {
			t.Fatalf("mutation %d: expected ErrNoFreelancer, got %v", i, err)
		}
	}

	if h.requests.Load() != 0 {
		t.Fatalf("expected zero transport calls, got %d", h.requests.Load())
	}
}

func TestMutationTriggersRefreshAfterWrite(t *testing.T) {
	h := newHarness(t)
	c := h.client("f-1", nil)

	if _, err := c.CreateAccount(context.Background(), dto.CreateAccountRequest{
		Provider:     "stripe",
		CurrencyCode: "USD",
	}); err != nil {
		t.Fatalf("create account failed: %v", err)
	}

	if got := h.overviewRequests.Load(); got != 1 {
		t.Fatalf("expected exactly one overview refresh after the write, got %d", got)
	}

	state := c.ActionState()
	if state.Action != ActionCreateAccount || state.Status != ActionSuccess || state.Err != nil {
		t.Fatalf("unexpected action state %+v", state)
	}
}

func TestMutationErrorPropagates(t *testing.T) {
	h := newHarness(t)
	c := h.client("f-1", nil)

	// No account seeded, so funding must fail server-side.
	_, err := c.CreateTransaction(context.Background(), dto.CreateTransactionRequest{
		AccountID: "missing",
		Reference: "INV-1",
		Amount:    decimal.NewFromInt(100),
	})
	if err == nil {
		t.Fatal("expected error from server")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", apiErr.StatusCode)
	}

	state := c.ActionState()
	if state.Action != ActionCreateTransaction || state.Status != ActionError {
		t.Fatalf("unexpected action state %+v", state)
	}
	if !errors.Is(state.Err, err) {
		t.Fatalf("expected action state to carry the same error")
	}

	// A failed mutation must not refresh the overview.
	if got := h.overviewRequests.Load(); got != 0 {
		t.Fatalf("expected no overview refresh after a failed write, got %d", got)
	}
}

func TestReleaseQueueOrderingThroughClient(t *testing.T) {
	h := newHarness(t)
	h.seedAccount("acc-1", "f-1")

	base := time.Now().UTC()
	schedule := func(d time.Duration) *time.Time {
		at := base.Add(d)
		return &at
	}
	for _, txn := range []struct {
		id string
		at *time.Time
	}{
		{"txn-3d", schedule(72 * time.Hour)},
		{"txn-1d", schedule(24 * time.Hour)},
		{"txn-2d", schedule(48 * time.Hour)},
	} {
		h.transactionRepo.Seed(&domain.Transaction{
			ID: txn.id, AccountID: "acc-1", FreelancerID: "f-1",
			Reference: txn.id, Amount: decimal.NewFromInt(100),
			NetAmount: decimal.NewFromInt(100), FeeAmount: decimal.Zero,
			CurrencyCode: "USD", Status: domain.TransactionStatusFunded,
			ScheduledReleaseAt: txn.at, CreatedAt: base, UpdatedAt: base,
		})
	}

	c := h.client("f-1", nil)
	result, err := c.FetchOverview(context.Background(), nil)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	want := []string{"txn-1d", "txn-2d", "txn-3d"}
	if len(result.Overview.ReleaseQueue) != len(want) {
		t.Fatalf("expected %d queue entries, got %d", len(want), len(result.Overview.ReleaseQueue))
	}
	for i, id := range want {
		if result.Overview.ReleaseQueue[i].ID != id {
			t.Fatalf("queue position %d: expected %s, got %s", i, id, result.Overview.ReleaseQueue[i].ID)
		}
	}
}

func TestAppendDisputeEventIsAppendOnly(t *testing.T) {
	h := newHarness(t)
	h.seedAccount("acc-1", "f-1")

	c := h.client("f-1", nil)
	ctx := context.Background()

	txn, err := c.CreateTransaction(ctx, dto.CreateTransactionRequest{
		AccountID: "acc-1",
		Reference: "INV-7",
		Amount:    decimal.NewFromInt(200),
		FeeAmount: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("funding failed: %v", err)
	}

	dispute, err := c.OpenDispute(ctx, txn.ID, dto.OpenDisputeRequest{
		ReasonCode: string(domain.ReasonDelay),
		Priority:   string(domain.PriorityMedium),
		Summary:    "Milestone overdue by two weeks",
	})
	if err != nil {
		t.Fatalf("open dispute failed: %v", err)
	}
	baseline := len(dispute.Events)

	first, err := c.AppendDisputeEvent(ctx, dispute.ID, dto.AppendDisputeEventRequest{Notes: "First follow-up"})
	if err != nil {
		t.Fatalf("first append failed: %v", err)
	}
	if len(first.Events) != baseline+1 {
		t.Fatalf("expected %d events, got %d", baseline+1, len(first.Events))
	}

	second, err := c.AppendDisputeEvent(ctx, dispute.ID, dto.AppendDisputeEventRequest{Notes: "Second follow-up"})
	if err != nil {
		t.Fatalf("second append failed: %v", err)
	}
	if len(second.Events) != baseline+2 {
		t.Fatalf("expected %d events, got %d", baseline+2, len(second.Events))
	}

	// The prefix of the timeline never changes.
	for i := range first.Events {
		if second.Events[i].ID != first.Events[i].ID || second.Events[i].Notes != first.Events[i].Notes {
			t.Fatalf("event %d changed between appends", i)
		}
	}
}

func TestEndToEndReleaseMovesMetrics(t *testing.T) {
	h := newHarness(t)
	c := h.client("f-1", nil)
	ctx := context.Background()

	account, err := c.CreateAccount(ctx, dto.CreateAccountRequest{
		Provider:     "stripe",
		CurrencyCode: "USD",
		Metadata:     &dto.AccountMetadataPayload{AccountLabel: "Primary"},
		Settings: &dto.AccountSettingsPayload{
			AutoReleaseOnApproval: true,
			NotifyOnDispute:       true,
		},
	})
	if err != nil {
		t.Fatalf("create account failed: %v", err)
	}

	txn, err := c.CreateTransaction(ctx, dto.CreateTransactionRequest{
		AccountID: account.ID,
		Reference: "INV-1",
		Amount:    decimal.NewFromInt(500),
		FeeAmount: decimal.NewFromInt(25),
	})
	if err != nil {
		t.Fatalf("funding failed: %v", err)
	}

	before, err := c.Refresh(ctx)
	if err != nil {
		t.Fatalf("overview before release failed: %v", err)
	}
	if !before.Overview.Metrics.Outstanding.Equal(decimal.NewFromInt(475)) {
		t.Fatalf("expected outstanding 475 before release, got %s", before.Overview.Metrics.Outstanding)
	}

	if _, err := c.ReleaseTransaction(ctx, txn.ID); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	after, err := c.FetchOverview(ctx, nil)
	if err != nil {
		t.Fatalf("overview after release failed: %v", err)
	}

	if !after.Overview.Metrics.Released.Equal(decimal.NewFromInt(475)) {
		t.Fatalf("expected released 475, got %s", after.Overview.Metrics.Released)
	}
	if !after.Overview.Metrics.Outstanding.Equal(decimal.Zero) {
		t.Fatalf("expected outstanding 0 after release, got %s", after.Overview.Metrics.Outstanding)
	}
}
