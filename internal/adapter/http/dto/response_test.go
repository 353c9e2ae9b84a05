package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigvora/escrow/internal/domain"
)

func TestTransactionRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	scheduled := now.Add(72 * time.Hour)

	txn := &domain.Transaction{
		ID:                 "txn-1",
		AccountID:          "acc-1",
		FreelancerID:       "fr-1",
		Reference:          "INV-1001",
		Amount:             decimal.NewFromInt(1000),
		FeeAmount:          decimal.NewFromInt(50),
		NetAmount:          decimal.NewFromInt(950),
		CurrencyCode:       "USD",
		Status:             domain.TransactionStatusFunded,
		ScheduledReleaseAt: &scheduled,
		AuditTrail:         []domain.AuditEntry{{Action: "funded", At: now}},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	resp := TransactionFromDomain(txn)
	require.NotNil(t, resp)
	assert.True(t, resp.NetAmount.Equal(decimal.NewFromInt(950)))
	require.Len(t, resp.AuditTrail, 1)
	assert.Equal(t, "funded", resp.AuditTrail[0].Action)

	back := resp.ToDomain()
	assert.Equal(t, txn.ID, back.ID)
	assert.Equal(t, txn.Status, back.Status)
	require.NotNil(t, back.ScheduledReleaseAt)
	assert.True(t, back.ScheduledReleaseAt.Equal(scheduled))
	assert.Equal(t, txn.AuditTrail, back.AuditTrail)
}

func TestOverviewToDomainStartsFromZeroValue(t *testing.T) {
	resp := &OverviewResponse{FreelancerID: "fr-1"}

	overview := resp.ToDomain()
	require.NotNil(t, overview)

	assert.Equal(t, "fr-1", overview.FreelancerID)
	assert.NotNil(t, overview.Accounts)
	assert.NotNil(t, overview.Transactions)
	assert.NotNil(t, overview.ReleaseQueue)
	assert.NotNil(t, overview.Disputes)
	assert.NotNil(t, overview.ActivityLog)
	assert.True(t, overview.Metrics.GrossVolume.IsZero())
	assert.Nil(t, overview.Metrics.AverageReleaseDays)
}

func TestDisputeFromDomainKeepsEventOrder(t *testing.T) {
	base := time.Now().UTC()
	dispute := &domain.Dispute{
		ID:           "dsp-1",
		FreelancerID: "fr-1",
		ReasonCode:   domain.ReasonQualityGap,
		Priority:     domain.PriorityHigh,
		Events: []domain.DisputeEvent{
			{ID: "ev-1", ActorType: "system", Notes: "dispute opened", EventAt: base},
			{ID: "ev-2", ActorType: "freelancer", Notes: "uploaded evidence", EventAt: base.Add(time.Hour)},
		},
	}

	resp := DisputeFromDomain(dispute)
	require.Len(t, resp.Events, 2)
	assert.Equal(t, "ev-1", resp.Events[0].ID)
	assert.Equal(t, "ev-2", resp.Events[1].ID)

	back := resp.ToDomain()
	assert.Equal(t, dispute.Events, back.Events)
}
