package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gigvora/escrow/internal/domain"
	"github.com/gigvora/escrow/internal/infrastructure/metrics"
)

// TransactionUseCase handles the escrow transaction lifecycle: funding a
// milestone, releasing it to the freelancer, or refunding it to the
// counterparty. All balance moves happen inside one database transaction
// with the owning account row locked.
type TransactionUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	activityRepo    ActivityRepository
	outboxRepo      OutboxRepository
	idGen           IDGenerator
	metrics         *metrics.Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	activityRepo ActivityRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		activityRepo:    activityRepo,
		outboxRepo:      outboxRepo,
		idGen:           idGen,
		metrics:         metrics,
	}
}

// CreateTransactionInput represents a funding request for one milestone.
type CreateTransactionInput struct {
	FreelancerID       string
	AccountID          string
	Reference          string
	Amount             decimal.Decimal
	FeeAmount          decimal.Decimal
	CounterpartyID     string
	MilestoneLabel     string
	ScheduledReleaseAt *time.Time
}

// CreateTransaction funds a milestone into escrow. The net amount is
// amount minus fee, computed here and never trusted from the caller.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	if err := domain.ValidateReference(input.Reference); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
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

	// Lock the owning account
	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if account.FreelancerID != input.FreelancerID {
		return nil, domain.ErrFreelancerMismatch
	}

	if !account.CanFund() {
		return nil, domain.ErrAccountSuspended
	}

	netAmount := input.Amount.Sub(input.FeeAmount)

	txn := &domain.Transaction{
		ID:                 uc.idGen.Generate(),
		AccountID:          account.ID,
		FreelancerID:       input.FreelancerID,
		Reference:          input.Reference,
		Amount:             input.Amount,
		FeeAmount:          input.FeeAmount,
		NetAmount:          netAmount,
		CurrencyCode:       account.CurrencyCode,
		CounterpartyID:     input.CounterpartyID,
		MilestoneLabel:     input.MilestoneLabel,
		Status:             domain.TransactionStatusInEscrow,
		ScheduledReleaseAt: input.ScheduledReleaseAt,
		ReleaseEligible:    !account.Settings.ManualHold,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	txn.AppendAudit(domain.AuditActionFunded, now)

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.Create(txCtx, tx, txn); err != nil {
		return nil, err
	}

	account.ApplyFunding(netAmount)
	account.UpdatedAt = now
	if err := uc.accountRepo.UpdateBalances(txCtx, tx, account); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     domain.EventTypeTransactionFunded,
		Payload: map[string]any{
			"transaction_id": txn.ID,
			"account_id":     account.ID,
			"reference":      txn.Reference,
			"amount":         txn.Amount.String(),
			"net_amount":     txn.NetAmount.String(),
			"currency":       txn.CurrencyCode,
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := uc.recordActivity(txCtx, tx, txn, domain.ActivityTransactionFund, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsFunded.Inc()
		amt, _ := txn.Amount.Float64()
		uc.metrics.TransactionAmount.Observe(amt)
	}

	return txn, nil
}

// ReleaseTransaction pays a held transaction out to the freelancer. The
// backend is the sole enforcement point for release eligibility: terminal
// statuses and manual-hold accounts reject here regardless of what the
// caller's UI showed.
func (uc *TransactionUseCase) ReleaseTransaction(ctx context.Context, freelancerID, transactionID string) (*domain.Transaction, error) {
	txn, err := uc.settle(ctx, freelancerID, transactionID, settleRelease)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsReleased.Inc()
	}

	return txn, nil
}

// RefundTransaction returns a held transaction's funds to the counterparty.
func (uc *TransactionUseCase) RefundTransaction(ctx context.Context, freelancerID, transactionID string) (*domain.Transaction, error) {
	txn, err := uc.settle(ctx, freelancerID, transactionID, settleRefund)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsRefunded.Inc()
	}

	return txn, nil
}

type settleMode int

const (
	settleRelease settleMode = iota
	settleRefund
)

// settle is the shared release/refund path: lock transaction and account,
// gate the transition, move the net amount, write outbox and activity.
func (uc *TransactionUseCase) settle(ctx context.Context, freelancerID, transactionID string, mode settleMode) (*domain.Transaction, error) {
	now := time.Now().UTC()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	txn, err := uc.transactionRepo.GetByIDForUpdate(txCtx, tx, transactionID)
	if err != nil {
		return nil, err
	}

	if txn.FreelancerID != freelancerID {
		return nil, domain.ErrFreelancerMismatch
	}

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, txn.AccountID)
	if err != nil {
		return nil, err
	}

	switch mode {
	case settleRelease:
		if !txn.CanRelease() {
			return nil, domain.ErrTransactionNotReleasable
		}
		if account.Settings.ManualHold {
			return nil, domain.ErrManualHoldActive
		}

		txn.Status = domain.TransactionStatusReleased
		txn.AppendAudit(domain.AuditActionReleased, now)
		account.ApplyRelease(txn.NetAmount)

	case settleRefund:
		if !txn.CanRefund() {
			return nil, domain.ErrTransactionNotRefundable
		}

		txn.Status = domain.TransactionStatusRefunded
		txn.AppendAudit(domain.AuditActionRefunded, now)
		account.ApplyRefund(txn.NetAmount)
	}

	txn.UpdatedAt = now
	if err := uc.transactionRepo.Update(txCtx, tx, txn); err != nil {
		return nil, err
	}

	account.UpdatedAt = now
	if err := uc.accountRepo.UpdateBalances(txCtx, tx, account); err != nil {
		return nil, err
	}

	eventType := domain.EventTypeTransactionReleased
	action := domain.ActivityTransactionRelease
	if mode == settleRefund {
		eventType = domain.EventTypeTransactionRefunded
		action = domain.ActivityTransactionRefund
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   txn.ID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     eventType,
		Payload: map[string]any{
			"transaction_id": txn.ID,
			"account_id":     account.ID,
			"net_amount":     txn.NetAmount.String(),
			"currency":       txn.CurrencyCode,
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := uc.recordActivity(txCtx, tx, txn, action, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return txn, nil
}

// GetTransaction retrieves a transaction by ID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, freelancerID, id string) (*domain.Transaction, error) {
	txn, err := uc.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if txn.FreelancerID != freelancerID {
		return nil, domain.ErrFreelancerMismatch
	}

	return txn, nil
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	FreelancerID string
	Status       domain.TransactionStatus
	Limit        int
	Offset       int
}

// ListTransactions lists a freelancer's transactions, optionally filtered
// by status.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.transactionRepo.ListByFreelancer(ctx, input.FreelancerID, input.Status, limit, offset)
}

func (uc *TransactionUseCase) recordActivity(ctx context.Context, tx Transaction, txn *domain.Transaction, action string, now time.Time) error {
	if uc.activityRepo == nil {
		return nil
	}

	return uc.activityRepo.CreateTx(ctx, tx, &domain.ActivityEntry{
		ID:            uc.idGen.Generate(),
		FreelancerID:  txn.FreelancerID,
		Action:        action,
		ResourceType:  domain.ResourceTypeTransaction,
		ResourceID:    txn.ID,
		TransactionID: txn.ID,
		Detail: domain.JSON{
			"reference":  txn.Reference,
			"net_amount": txn.NetAmount.String(),
			"status":     string(txn.Status),
		},
		Status:     domain.ActivityStatusSuccess,
		OccurredAt: now,
	})
}
