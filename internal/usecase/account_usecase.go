package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/gigvora/escrow/internal/domain"
	"github.com/gigvora/escrow/internal/infrastructure/metrics"
	"github.com/shopspring/decimal"
)

// AccountUseCase handles escrow account business logic.
type AccountUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	activityRepo ActivityRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	metrics      *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	activityRepo ActivityRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		activityRepo: activityRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		metrics:      metrics,
	}
}

// CreateAccountInput represents input for creating an escrow account.
type CreateAccountInput struct {
	FreelancerID string
	Provider     domain.Provider
	CurrencyCode string
	Settings     domain.AccountSettings
	Metadata     domain.AccountMetadata
}

// CreateAccount creates a new escrow account for a freelancer.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	now := time.Now().UTC()

	account := &domain.Account{
		ID:                 uc.idGen.Generate(),
		FreelancerID:       input.FreelancerID,
		Provider:           input.Provider,
		CurrencyCode:       normalizeCurrency(input.CurrencyCode),
		Status:             domain.AccountStatusActive,
		CurrentBalance:     decimal.Zero,
		OutstandingBalance: decimal.Zero,
		ReleasedVolume:     decimal.Zero,
		RefundedVolume:     decimal.Zero,
		Settings:           input.Settings,
		Metadata:           input.Metadata,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := domain.ValidateAccountLabel(account.Metadata.AccountLabel); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.accountRepo.Create(txCtx, tx, account); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.ID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountCreated,
		Payload: map[string]any{
			"account_id":    account.ID,
			"freelancer_id": account.FreelancerID,
			"provider":      string(account.Provider),
			"currency":      account.CurrencyCode,
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := uc.recordActivity(txCtx, tx, account.FreelancerID, domain.ActivityAccountCreate, account.ID, "", domain.MarshalDetail(account.Metadata), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// UpdateAccountInput represents input for updating an escrow account.
// Accounts are never deleted; suspension is the only off-switch.
type UpdateAccountInput struct {
	FreelancerID string
	AccountID    string
	Provider     *domain.Provider
	CurrencyCode *string
	Status       *domain.AccountStatus
	Settings     *domain.AccountSettings
	Metadata     *domain.AccountMetadata
}

// UpdateAccount applies provider, currency, status, settings and metadata
// changes. Balance fields are projections and cannot be written here.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, input UpdateAccountInput) (*domain.Account, error) {
	now := time.Now().UTC()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if account.FreelancerID != input.FreelancerID {
		return nil, domain.ErrFreelancerMismatch
	}

	if input.Provider != nil {
		account.Provider = *input.Provider
	}

	if input.CurrencyCode != nil {
		account.CurrencyCode = normalizeCurrency(*input.CurrencyCode)
	}

	if input.Status != nil {
		account.Status = *input.Status
	}

	if input.Settings != nil {
		account.Settings = *input.Settings
	}

	if input.Metadata != nil {
		if err := domain.ValidateAccountLabel(input.Metadata.AccountLabel); err != nil {
			return nil, err
		}
		account.Metadata = *input.Metadata
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	account.UpdatedAt = now

	if err := uc.accountRepo.Update(txCtx, tx, account); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.ID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountUpdated,
		Payload: map[string]any{
			"account_id":    account.ID,
			"freelancer_id": account.FreelancerID,
			"status":        string(account.Status),
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := uc.recordActivity(txCtx, tx, account.FreelancerID, domain.ActivityAccountUpdate, account.ID, "", domain.MarshalDetail(account.Settings), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an escrow account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, freelancerID, id string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if account.FreelancerID != freelancerID {
		return nil, domain.ErrFreelancerMismatch
	}

	return account, nil
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	FreelancerID string
	Limit        int
	Offset       int
}

// ListAccounts lists a freelancer's escrow accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.accountRepo.ListByFreelancer(ctx, input.FreelancerID, limit, offset)
}

func (uc *AccountUseCase) recordActivity(ctx context.Context, tx Transaction, freelancerID, action, resourceID, transactionID string, detail domain.JSON, now time.Time) error {
	if uc.activityRepo == nil {
		return nil
	}

	return uc.activityRepo.CreateTx(ctx, tx, &domain.ActivityEntry{
		ID:            uc.idGen.Generate(),
		FreelancerID:  freelancerID,
		Action:        action,
		ResourceType:  domain.ResourceTypeAccount,
		ResourceID:    resourceID,
		TransactionID: transactionID,
		Detail:        detail,
		Status:        domain.ActivityStatusSuccess,
		OccurredAt:    now,
	})
}

func normalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
