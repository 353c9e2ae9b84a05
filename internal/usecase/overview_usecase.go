package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gigvora/escrow/internal/domain"
)

// OverviewUseCase builds the aggregated escrow read-model for one
// freelancer. Snapshots are cached in Redis for the configured TTL; any
// successful mutation invalidates the snapshot so the next fetch is
// authoritative.
type OverviewUseCase struct {
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	disputeRepo     DisputeRepository
	activityRepo    ActivityRepository
	cache           Cache
	cacheTTL        time.Duration
}

// NewOverviewUseCase creates a new OverviewUseCase. A non-positive
// cacheTTL falls back to OverviewCacheTTL.
func NewOverviewUseCase(
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	disputeRepo DisputeRepository,
	activityRepo ActivityRepository,
	cache Cache,
	cacheTTL time.Duration,
) *OverviewUseCase {
	if cacheTTL <= 0 {
		cacheTTL = OverviewCacheTTL
	}

	return &OverviewUseCase{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		disputeRepo:     disputeRepo,
		activityRepo:    activityRepo,
		cache:           cache,
		cacheTTL:        cacheTTL,
	}
}

// BuildOverviewInput represents input for building an overview.
type BuildOverviewInput struct {
	FreelancerID  string
	Status        domain.TransactionStatus
	TransactionID string
	Force         bool
}

// BuildOverview assembles the overview. Filtered views are always built
// fresh; only the unfiltered snapshot is cached.
func (uc *OverviewUseCase) BuildOverview(ctx context.Context, input BuildOverviewInput) (*domain.Overview, error) {
	if input.FreelancerID == "" {
		return domain.ZeroOverview(), nil
	}

	filtered := input.Status != "" || input.TransactionID != ""

	if !filtered && !input.Force && uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, overviewCacheKey(input.FreelancerID)); err == nil {
			var overview domain.Overview
			if err := json.Unmarshal([]byte(cached), &overview); err == nil {
				return &overview, nil
			}
		}
	}

	overview, err := uc.build(ctx, input)
	if err != nil {
		return nil, err
	}

	if !filtered && uc.cache != nil {
		if data, err := json.Marshal(overview); err == nil {
			_ = uc.cache.Set(ctx, overviewCacheKey(input.FreelancerID), string(data), uc.cacheTTL)
		}
	}

	return overview, nil
}

// Invalidate drops the cached snapshot for a freelancer. Called after
// every successful mutation so refresh-after-write reads fresh state.
func (uc *OverviewUseCase) Invalidate(ctx context.Context, freelancerID string) {
	if uc.cache == nil || freelancerID == "" {
		return
	}

	_ = uc.cache.Delete(ctx, overviewCacheKey(freelancerID))
}

func (uc *OverviewUseCase) build(ctx context.Context, input BuildOverviewInput) (*domain.Overview, error) {
	const aggregateLimit = 500

	accounts, err := uc.accountRepo.ListByFreelancer(ctx, input.FreelancerID, aggregateLimit, 0)
	if err != nil {
		return nil, err
	}

	transactions, err := uc.transactionRepo.ListByFreelancer(ctx, input.FreelancerID, input.Status, aggregateLimit, 0)
	if err != nil {
		return nil, err
	}

	disputes, err := uc.disputeRepo.ListByFreelancer(ctx, input.FreelancerID, aggregateLimit, 0)
	if err != nil {
		return nil, err
	}

	activity, err := uc.activityRepo.List(ctx, domain.ActivityFilter{
		FreelancerID:  input.FreelancerID,
		TransactionID: input.TransactionID,
		Limit:         aggregateLimit,
	})
	if err != nil {
		return nil, err
	}

	overview := domain.ZeroOverview()
	overview.FreelancerID = input.FreelancerID
	overview.GeneratedAt = time.Now().UTC()
	overview.Accounts = accounts
	overview.Transactions = transactions
	overview.Disputes = disputes
	overview.ActivityLog = activity
	overview.ReleaseQueue = buildReleaseQueue(transactions)
	overview.Metrics = computeMetrics(accounts, transactions)

	return overview, nil
}

// buildReleaseQueue returns pending transactions ordered earliest release
// first. Entries without a scheduled release fall back to creation time;
// ties keep input order (stable sort).
func buildReleaseQueue(transactions []*domain.Transaction) []*domain.Transaction {
	queue := make([]*domain.Transaction, 0, len(transactions))
	for _, txn := range transactions {
		if txn.CanRelease() {
			queue = append(queue, txn)
		}
	}

	sort.SliceStable(queue, func(i, j int) bool {
		return releaseSortKey(queue[i]).Before(releaseSortKey(queue[j]))
	})

	return queue
}

func releaseSortKey(txn *domain.Transaction) time.Time {
	if txn.ScheduledReleaseAt != nil {
		return *txn.ScheduledReleaseAt
	}

	return txn.CreatedAt
}

func computeMetrics(accounts []*domain.Account, transactions []*domain.Transaction) domain.Metrics {
	m := domain.ZeroMetrics()
	m.TotalAccounts = int64(len(accounts))

	for _, a := range accounts {
		m.Outstanding = m.Outstanding.Add(a.OutstandingBalance)
		m.Released = m.Released.Add(a.ReleasedVolume)
		m.Refunded = m.Refunded.Add(a.RefundedVolume)
	}

	var releaseDays []float64
	for _, txn := range transactions {
		m.GrossVolume = m.GrossVolume.Add(txn.Amount)
		m.NetVolume = m.NetVolume.Add(txn.NetAmount)

		if txn.Status == domain.TransactionStatusDisputed {
			m.DisputedCount++
		}

		if releasedAt := txn.ReleasedAt(); releasedAt != nil {
			days := releasedAt.Sub(txn.FundedAt()).Hours() / 24
			releaseDays = append(releaseDays, days)
		}
	}

	if len(releaseDays) > 0 {
		var sum, longest float64
		for _, d := range releaseDays {
			sum += d
			if d > longest {
				longest = d
			}
		}

		avg := sum / float64(len(releaseDays))
		m.AverageReleaseDays = &avg
		m.LongestReleaseDays = &longest
	}

	return m
}

// GrossMinusFees is a convenience check used by reconciliation tooling:
// gross volume minus net volume equals total fees charged.
func GrossMinusFees(m domain.Metrics) decimal.Decimal {
	return m.GrossVolume.Sub(m.NetVolume)
}

func overviewCacheKey(freelancerID string) string {
	return "overview:" + freelancerID
}
