package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/gigvora/escrow/internal/domain"
	"github.com/gigvora/escrow/internal/usecase"
	"github.com/gigvora/escrow/internal/usecase/mocks"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func newOverviewFixture() (*usecase.OverviewUseCase, *mocks.MockAccountRepository, *mocks.MockTransactionRepository, *mocks.MockDisputeRepository, *mocks.MockActivityRepository, *mocks.MockCache) {
	accRepo := mocks.NewMockAccountRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	disputeRepo := mocks.NewMockDisputeRepository()
	activityRepo := mocks.NewMockActivityRepository()
	cache := mocks.NewMockCache()

	uc := usecase.NewOverviewUseCase(accRepo, txnRepo, disputeRepo, activityRepo, cache, 0)

	return uc, accRepo, txnRepo, disputeRepo, activityRepo, cache
}

func TestOverviewUseCase_EmptyFreelancerReturnsZeroOverview(t *testing.T) {
	uc, accRepo, _, _, _, _ := newOverviewFixture()

	accRepo.ListByFreelancerFunc = func(ctx context.Context, freelancerID string, limit, offset int) ([]*domain.Account, error) {
		t.Fatal("no repository call expected without a freelancer id")
		return nil, nil
	}

	overview, err := uc.BuildOverview(context.Background(), usecase.BuildOverviewInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if overview.Metrics.TotalAccounts != 0 || !overview.Metrics.GrossVolume.IsZero() {
		t.Errorf("expected zeroed metrics, got %+v", overview.Metrics)
	}
	if overview.Accounts == nil || overview.Transactions == nil || overview.ReleaseQueue == nil ||
		overview.Disputes == nil || overview.ActivityLog == nil {
		t.Error("expected empty, non-nil collections")
	}
	if len(overview.Accounts) != 0 || len(overview.Transactions) != 0 {
		t.Errorf("expected empty collections, got %+v", overview)
	}
}

func TestOverviewUseCase_ReleaseQueueOrdering(t *testing.T) {
	uc, _, txnRepo, _, _, _ := newOverviewFixture()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := base.Add(d)
		return &ts
	}

	held := func(id string, scheduled *time.Time, created time.Time) *domain.Transaction {
		return &domain.Transaction{
			ID:                 id,
			FreelancerID:       "freelancer-1",
			Status:             domain.TransactionStatusInEscrow,
			ScheduledReleaseAt: scheduled,
			CreatedAt:          created,
		}
	}

	input := []*domain.Transaction{
		held("late", at(72*time.Hour), base),
		held("released", nil, base),
		held("early", at(2*time.Hour), base),
		held("no-schedule", nil, base.Add(24*time.Hour)),
		held("mid", at(24*time.Hour), base),
	}
	input[1].Status = domain.TransactionStatusReleased

	txnRepo.ListByFreelancerFunc = func(ctx context.Context, freelancerID string, status domain.TransactionStatus, limit, offset int) ([]*domain.Transaction, error) {
		return input, nil
	}

	overview, err := uc.BuildOverview(context.Background(), usecase.BuildOverviewInput{FreelancerID: "freelancer-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// released is terminal and never enters the queue; no-schedule sorts
	// by its creation time
	want := []string{"early", "mid", "no-schedule", "late"}
	if len(overview.ReleaseQueue) != len(want) {
		t.Fatalf("expected %d queued transactions, got %d", len(want), len(overview.ReleaseQueue))
	}
	for i, id := range want {
		if overview.ReleaseQueue[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, overview.ReleaseQueue[i].ID)
		}
	}
}

func TestOverviewUseCase_ReleaseQueueStableOnTies(t *testing.T) {
	uc, _, txnRepo, _, _, _ := newOverviewFixture()

	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	input := []*domain.Transaction{
		{ID: "a", FreelancerID: "freelancer-1", Status: domain.TransactionStatusInEscrow, ScheduledReleaseAt: &ts, CreatedAt: ts},
		{ID: "b", FreelancerID: "freelancer-1", Status: domain.TransactionStatusInEscrow, ScheduledReleaseAt: &ts, CreatedAt: ts},
		{ID: "c", FreelancerID: "freelancer-1", Status: domain.TransactionStatusInEscrow, ScheduledReleaseAt: &ts, CreatedAt: ts},
	}

	txnRepo.ListByFreelancerFunc = func(ctx context.Context, freelancerID string, status domain.TransactionStatus, limit, offset int) ([]*domain.Transaction, error) {
		return input, nil
	}

	overview, err := uc.BuildOverview(context.Background(), usecase.BuildOverviewInput{FreelancerID: "freelancer-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, id := range []string{"a", "b", "c"} {
		if overview.ReleaseQueue[i].ID != id {
			t.Errorf("tie broke input order at %d: got %s", i, overview.ReleaseQueue[i].ID)
		}
	}
}

func TestOverviewUseCase_Metrics(t *testing.T) {
	uc, accRepo, txnRepo, _, _, _ := newOverviewFixture()

	account := &domain.Account{
		ID:           "acc-1",
		FreelancerID: "freelancer-1",
		Provider:     domain.ProviderEscrowCom,
		CurrencyCode: "USD",
		Status:       domain.AccountStatusActive,
	}
	account.ApplyFunding(decimal.NewFromInt(950))
	account.ApplyFunding(decimal.NewFromInt(450))
	account.ApplyRelease(decimal.NewFromInt(450))
	accRepo.Seed(account)

	funded := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	released := funded.Add(4 * 24 * time.Hour)

	releasedTxn := &domain.Transaction{
		ID:           "txn-released",
		FreelancerID: "freelancer-1",
		Amount:       decimal.NewFromInt(500),
		FeeAmount:    decimal.NewFromInt(50),
		NetAmount:    decimal.NewFromInt(450),
		Status:       domain.TransactionStatusReleased,
		CreatedAt:    funded,
	}
	releasedTxn.AppendAudit(domain.AuditActionFunded, funded)
	releasedTxn.AppendAudit(domain.AuditActionReleased, released)
	txnRepo.Seed(releasedTxn)

	disputedTxn := &domain.Transaction{
		ID:           "txn-disputed",
		FreelancerID: "freelancer-1",
		Amount:       decimal.NewFromInt(1000),
		FeeAmount:    decimal.NewFromInt(50),
		NetAmount:    decimal.NewFromInt(950),
		Status:       domain.TransactionStatusDisputed,
		CreatedAt:    funded,
	}
	txnRepo.Seed(disputedTxn)

	overview, err := uc.BuildOverview(context.Background(), usecase.BuildOverviewInput{FreelancerID: "freelancer-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := overview.Metrics
	if m.TotalAccounts != 1 {
		t.Errorf("expected 1 account, got %d", m.TotalAccounts)
	}
	if !m.GrossVolume.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("expected gross 1500, got %s", m.GrossVolume)
	}
	if !m.NetVolume.Equal(decimal.NewFromInt(1400)) {
		t.Errorf("expected net 1400, got %s", m.NetVolume)
	}
	if !usecase.GrossMinusFees(m).Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected total fees 100, got %s", usecase.GrossMinusFees(m))
	}
	if !m.Outstanding.Equal(decimal.NewFromInt(950)) {
		t.Errorf("expected outstanding 950, got %s", m.Outstanding)
	}
	if !m.Released.Equal(decimal.NewFromInt(450)) {
		t.Errorf("expected released 450, got %s", m.Released)
	}
	if m.DisputedCount != 1 {
		t.Errorf("expected 1 disputed, got %d", m.DisputedCount)
	}
	if m.AverageReleaseDays == nil || *m.AverageReleaseDays != 4 {
		t.Errorf("expected average release of 4 days, got %v", m.AverageReleaseDays)
	}
	if m.LongestReleaseDays == nil || *m.LongestReleaseDays != 4 {
		t.Errorf("expected longest release of 4 days, got %v", m.LongestReleaseDays)
	}
}

func TestOverviewUseCase_MetricsNoReleases(t *testing.T) {
	uc, _, txnRepo, _, _, _ := newOverviewFixture()

	txnRepo.Seed(&domain.Transaction{
		ID:           "txn-1",
		FreelancerID: "freelancer-1",
		Amount:       decimal.NewFromInt(100),
		NetAmount:    decimal.NewFromInt(100),
		Status:       domain.TransactionStatusInEscrow,
	})

	overview, err := uc.BuildOverview(context.Background(), usecase.BuildOverviewInput{FreelancerID: "freelancer-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if overview.Metrics.AverageReleaseDays != nil {
		t.Errorf("expected nil average with no releases, got %v", *overview.Metrics.AverageReleaseDays)
	}
	if overview.Metrics.LongestReleaseDays != nil {
		t.Errorf("expected nil longest with no releases, got %v", *overview.Metrics.LongestReleaseDays)
	}
}

func TestOverviewUseCase_CachesUnfilteredSnapshot(t *testing.T) {
	uc, accRepo, _, _, _, _ := newOverviewFixture()

	calls := 0
	accRepo.ListByFreelancerFunc = func(ctx context.Context, freelancerID string, limit, offset int) ([]*domain.Account, error) {
		calls++
		return nil, nil
	}

	ctx := context.Background()
	if _, err := uc.BuildOverview(ctx, usecase.BuildOverviewInput{FreelancerID: "freelancer-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.BuildOverview(ctx, usecase.BuildOverviewInput{FreelancerID: "freelancer-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected second fetch served from cache, got %d repo calls", calls)
	}

	// Force always goes back to the database
	if _, err := uc.BuildOverview(ctx, usecase.BuildOverviewInput{FreelancerID: "freelancer-1", Force: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected forced rebuild, got %d repo calls", calls)
	}

	// filtered views bypass the cache both ways
	if _, err := uc.BuildOverview(ctx, usecase.BuildOverviewInput{FreelancerID: "freelancer-1", Status: domain.TransactionStatusReleased}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected filtered view to rebuild, got %d repo calls", calls)
	}
}

func TestOverviewUseCase_InvalidateDropsSnapshot(t *testing.T) {
	uc, accRepo, _, _, _, _ := newOverviewFixture()

	calls := 0
	accRepo.ListByFreelancerFunc = func(ctx context.Context, freelancerID string, limit, offset int) ([]*domain.Account, error) {
		calls++
		return nil, nil
	}

	ctx := context.Background()
	if _, err := uc.BuildOverview(ctx, usecase.BuildOverviewInput{FreelancerID: "freelancer-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	uc.Invalidate(ctx, "freelancer-1")

	if _, err := uc.BuildOverview(ctx, usecase.BuildOverviewInput{FreelancerID: "freelancer-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected rebuild after invalidation, got %d repo calls", calls)
	}
}

func TestOverviewUseCase_CacheInteractions(t *testing.T) {
	ctrl := gomock.NewController(t)

	cache := mocks.NewMockGomockCache(ctrl)

	uc := usecase.NewOverviewUseCase(
		mocks.NewMockAccountRepository(),
		mocks.NewMockTransactionRepository(),
		mocks.NewMockDisputeRepository(),
		mocks.NewMockActivityRepository(),
		cache,
		0,
	)

	ctx := context.Background()

	gomock.InOrder(
		cache.EXPECT().Get(ctx, "overview:freelancer-1").Return("", context.Canceled),
		cache.EXPECT().
			Set(ctx, "overview:freelancer-1", gomock.Any(), usecase.OverviewCacheTTL).
			DoAndReturn(func(_ context.Context, _ string, value string, _ time.Duration) error {
				var overview domain.Overview
				if err := json.Unmarshal([]byte(value), &overview); err != nil {
					t.Errorf("cached snapshot is not valid JSON: %v", err)
				}
				return nil
			}),
		cache.EXPECT().Delete(ctx, "overview:freelancer-1").Return(nil),
	)

	if _, err := uc.BuildOverview(ctx, usecase.BuildOverviewInput{FreelancerID: "freelancer-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	uc.Invalidate(ctx, "freelancer-1")
}
