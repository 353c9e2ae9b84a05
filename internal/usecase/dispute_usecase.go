package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/gigvora/escrow/internal/domain"
	"github.com/gigvora/escrow/internal/infrastructure/metrics"
)

// DisputeUseCase handles dispute escalation and the append-only timeline.
// Resolution is owned by the platform's trust team, not this service.
type DisputeUseCase struct {
	txManager       TransactionManager
	transactionRepo TransactionRepository
	accountRepo     AccountRepository
	disputeRepo     DisputeRepository
	activityRepo    ActivityRepository
	outboxRepo      OutboxRepository
	idGen           IDGenerator
	metrics         *metrics.Metrics
}

// NewDisputeUseCase creates a new DisputeUseCase.
func NewDisputeUseCase(
	txManager TransactionManager,
	transactionRepo TransactionRepository,
	accountRepo AccountRepository,
	disputeRepo DisputeRepository,
	activityRepo ActivityRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *DisputeUseCase {
	return &DisputeUseCase{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		disputeRepo:     disputeRepo,
		activityRepo:    activityRepo,
		outboxRepo:      outboxRepo,
		idGen:           idGen,
		metrics:         metrics,
	}
}

// OpenDisputeInput represents input for opening a dispute.
type OpenDisputeInput struct {
	FreelancerID  string
	TransactionID string
	ReasonCode    domain.ReasonCode
	Priority      domain.DisputePriority
	Summary       string
}

// OpenDispute opens a dispute against an eligible transaction and moves
// the transaction into the disputed status.
func (uc *DisputeUseCase) OpenDispute(ctx context.Context, input OpenDisputeInput) (*domain.Dispute, error) {
	now := time.Now().UTC()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	txn, err := uc.transactionRepo.GetByIDForUpdate(txCtx, tx, input.TransactionID)
	if err != nil {
		return nil, err
	}

	if txn.FreelancerID != input.FreelancerID {
		return nil, domain.ErrFreelancerMismatch
	}

	if !txn.CanDispute() {
		return nil, domain.ErrTransactionNotDisputable
	}

	dispute := &domain.Dispute{
		ID:            uc.idGen.Generate(),
		TransactionID: txn.ID,
		FreelancerID:  input.FreelancerID,
		ReasonCode:    input.ReasonCode,
		Priority:      input.Priority,
		Stage:         domain.DisputeStageIntake,
		Status:        domain.DisputeStatusOpen,
		Summary:       input.Summary,
		OpenedAt:      now,
		UpdatedAt:     now,
	}

	if err := dispute.Validate(); err != nil {
		return nil, err
	}

	// Seed the timeline with the opening summary
	dispute.AppendEvent(domain.DisputeEvent{
		ID:        uc.idGen.Generate(),
		ActorType: domain.ActorTypeFreelancer,
		Notes:     input.Summary,
		EventAt:   now,
	})

	if err := uc.disputeRepo.Create(txCtx, tx, dispute); err != nil {
		return nil, err
	}

	wasDisputed := txn.Status == domain.TransactionStatusDisputed
	txn.Status = domain.TransactionStatusDisputed
	txn.AppendAudit(domain.AuditActionDisputed, now)
	txn.UpdatedAt = now
	if err := uc.transactionRepo.Update(txCtx, tx, txn); err != nil {
		return nil, err
	}

	// A transaction already in dispute does not bump the account counter again
	if !wasDisputed {
		account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, txn.AccountID)
		if err != nil {
			return nil, err
		}

		account.ApplyDispute()
		account.UpdatedAt = now
		if err := uc.accountRepo.UpdateBalances(txCtx, tx, account); err != nil {
			return nil, err
		}
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   dispute.ID,
		AggregateType: domain.AggregateTypeDispute,
		EventType:     domain.EventTypeDisputeOpened,
		Payload: map[string]any{
			"dispute_id":     dispute.ID,
			"transaction_id": txn.ID,
			"reason_code":    string(dispute.ReasonCode),
			"priority":       string(dispute.Priority),
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := uc.recordActivity(txCtx, tx, dispute, domain.ActivityDisputeOpen, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DisputesOpened.Inc()
	}

	return dispute, nil
}

// AppendDisputeEventInput represents input for appending a timeline event.
type AppendDisputeEventInput struct {
	FreelancerID string
	DisputeID    string
	Notes        string
}

// AppendDisputeEvent adds a note to the dispute timeline. The timeline is
// strictly additive; nothing already appended is edited or removed.
func (uc *DisputeUseCase) AppendDisputeEvent(ctx context.Context, input AppendDisputeEventInput) (*domain.Dispute, error) {
	if err := domain.ValidateNotes(input.Notes); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	dispute, err := uc.disputeRepo.GetByIDForUpdate(txCtx, tx, input.DisputeID)
	if err != nil {
		return nil, err
	}

	if dispute.FreelancerID != input.FreelancerID {
		return nil, domain.ErrFreelancerMismatch
	}

	event := domain.DisputeEvent{
		ID:        uc.idGen.Generate(),
		ActorType: domain.ActorTypeFreelancer,
		Notes:     strings.TrimSpace(input.Notes),
		EventAt:   now,
	}

	if err := uc.disputeRepo.AppendEvent(txCtx, tx, dispute.ID, event); err != nil {
		return nil, err
	}

	dispute.AppendEvent(event)
	dispute.UpdatedAt = now

	outboxEvent := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   dispute.ID,
		AggregateType: domain.AggregateTypeDispute,
		EventType:     domain.EventTypeDisputeEventAppended,
		Payload: map[string]any{
			"dispute_id": dispute.ID,
			"event_id":   event.ID,
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, outboxEvent); err != nil {
		return nil, err
	}

	if err := uc.recordActivity(txCtx, tx, dispute, domain.ActivityDisputeEventAppended, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return dispute, nil
}

// GetDispute retrieves a dispute with its timeline.
func (uc *DisputeUseCase) GetDispute(ctx context.Context, freelancerID, id string) (*domain.Dispute, error) {
	dispute, err := uc.disputeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dispute.FreelancerID != freelancerID {
		return nil, domain.ErrFreelancerMismatch
	}

	return dispute, nil
}

// ListDisputesInput represents input for listing disputes.
type ListDisputesInput struct {
	FreelancerID string
	Limit        int
	Offset       int
}

// ListDisputes lists a freelancer's disputes with pagination.
func (uc *DisputeUseCase) ListDisputes(ctx context.Context, input ListDisputesInput) ([]*domain.Dispute, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.disputeRepo.ListByFreelancer(ctx, input.FreelancerID, limit, offset)
}

func (uc *DisputeUseCase) recordActivity(ctx context.Context, tx Transaction, dispute *domain.Dispute, action string, now time.Time) error {
	if uc.activityRepo == nil {
		return nil
	}

	return uc.activityRepo.CreateTx(ctx, tx, &domain.ActivityEntry{
		ID:            uc.idGen.Generate(),
		FreelancerID:  dispute.FreelancerID,
		Action:        action,
		ResourceType:  domain.ResourceTypeDispute,
		ResourceID:    dispute.ID,
		TransactionID: dispute.TransactionID,
		Detail: domain.JSON{
			"reason_code": string(dispute.ReasonCode),
			"priority":    string(dispute.Priority),
		},
		Status:     domain.ActivityStatusSuccess,
		OccurredAt: now,
	})
}
