package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gigvora/escrow/internal/domain"
	"github.com/gigvora/escrow/internal/usecase"
)

// AccountSettingsPayload mirrors domain.AccountSettings on the wire.
type AccountSettingsPayload struct {
	AutoReleaseOnApproval bool `json:"autoReleaseOnApproval"`
	NotifyOnDispute       bool `json:"notifyOnDispute"`
	ManualHold            bool `json:"manualHold"`
}

// AccountMetadataPayload mirrors domain.AccountMetadata on the wire.
type AccountMetadataPayload struct {
	AccountLabel string `json:"accountLabel"`
}

// CreateAccountRequest represents a request to create an escrow account.
type CreateAccountRequest struct {
	Provider     string                  `json:"provider"`
	CurrencyCode string                  `json:"currencyCode"`
	Settings     *AccountSettingsPayload `json:"settings,omitempty"`
	Metadata     *AccountMetadataPayload `json:"metadata,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(freelancerID string) usecase.CreateAccountInput {
	input := usecase.CreateAccountInput{
		FreelancerID: freelancerID,
		Provider:     domain.Provider(r.Provider),
		CurrencyCode: r.CurrencyCode,
	}

	if r.Settings != nil {
		input.Settings = r.Settings.toDomain()
	}

	if r.Metadata != nil {
		input.Metadata = domain.AccountMetadata{AccountLabel: r.Metadata.AccountLabel}
	}

	return input
}

// UpdateAccountRequest represents a partial account update. Absent fields
// keep their current values.
type UpdateAccountRequest struct {
	Provider     *string                 `json:"provider,omitempty"`
	CurrencyCode *string                 `json:"currencyCode,omitempty"`
	Status       *string                 `json:"status,omitempty"`
	Settings     *AccountSettingsPayload `json:"settings,omitempty"`
	Metadata     *AccountMetadataPayload `json:"metadata,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput(freelancerID, accountID string) usecase.UpdateAccountInput {
	input := usecase.UpdateAccountInput{
		FreelancerID: freelancerID,
		AccountID:    accountID,
	}

	if r.Provider != nil {
		p := domain.Provider(*r.Provider)
		input.Provider = &p
	}

	if r.CurrencyCode != nil {
		input.CurrencyCode = r.CurrencyCode
	}

	if r.Status != nil {
		s := domain.AccountStatus(*r.Status)
		input.Status = &s
	}

	if r.Settings != nil {
		s := r.Settings.toDomain()
		input.Settings = &s
	}

	if r.Metadata != nil {
		input.Metadata = &domain.AccountMetadata{AccountLabel: r.Metadata.AccountLabel}
	}

	return input
}

func (p *AccountSettingsPayload) toDomain() domain.AccountSettings {
	return domain.AccountSettings{
		AutoReleaseOnApproval: p.AutoReleaseOnApproval,
		NotifyOnDispute:       p.NotifyOnDispute,
		ManualHold:            p.ManualHold,
	}
}

// CreateTransactionRequest represents a funding request.
type CreateTransactionRequest struct {
	AccountID          string          `json:"accountId"`
	Reference          string          `json:"reference"`
	Amount             decimal.Decimal `json:"amount"`
	FeeAmount          decimal.Decimal `json:"feeAmount"`
	CounterpartyID     string          `json:"counterpartyId,omitempty"`
	MilestoneLabel     string          `json:"milestoneLabel,omitempty"`
	ScheduledReleaseAt *time.Time      `json:"scheduledReleaseAt,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput(freelancerID string) usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		FreelancerID:       freelancerID,
		AccountID:          r.AccountID,
		Reference:          r.Reference,
		Amount:             r.Amount,
		FeeAmount:          r.FeeAmount,
		CounterpartyID:     r.CounterpartyID,
		MilestoneLabel:     r.MilestoneLabel,
		ScheduledReleaseAt: r.ScheduledReleaseAt,
	}
}

// OpenDisputeRequest represents a dispute escalation.
type OpenDisputeRequest struct {
	ReasonCode string `json:"reasonCode"`
	Priority   string `json:"priority"`
	Summary    string `json:"summary"`
}

// ToUseCaseInput converts to use case input.
func (r *OpenDisputeRequest) ToUseCaseInput(freelancerID, transactionID string) usecase.OpenDisputeInput {
	return usecase.OpenDisputeInput{
		FreelancerID:  freelancerID,
		TransactionID: transactionID,
		ReasonCode:    domain.ReasonCode(r.ReasonCode),
		Priority:      domain.DisputePriority(r.Priority),
		Summary:       r.Summary,
	}
}

// AppendDisputeEventRequest represents a timeline note.
type AppendDisputeEventRequest struct {
	Notes string `json:"notes"`
}

// ToUseCaseInput converts to use case input.
func (r *AppendDisputeEventRequest) ToUseCaseInput(freelancerID, disputeID string) usecase.AppendDisputeEventInput {
	return usecase.AppendDisputeEventInput{
		FreelancerID: freelancerID,
		DisputeID:    disputeID,
		Notes:        r.Notes,
	}
}
