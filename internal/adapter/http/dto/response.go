package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gigvora/escrow/internal/domain"
)

// AccountResponse represents an escrow account in API responses.
type AccountResponse struct {
	ID                   string                 `json:"id"`
	FreelancerID         string                 `json:"freelancerId"`
	Provider             string                 `json:"provider"`
	CurrencyCode         string                 `json:"currencyCode"`
	Status               string                 `json:"status"`
	CurrentBalance       decimal.Decimal        `json:"currentBalance"`
	OutstandingBalance   decimal.Decimal        `json:"outstandingBalance"`
	ReleasedVolume       decimal.Decimal        `json:"releasedVolume"`
	RefundedVolume       decimal.Decimal        `json:"refundedVolume"`
	OpenTransactions     int64                  `json:"openTransactions"`
	DisputedTransactions int64                  `json:"disputedTransactions"`
	Settings             AccountSettingsPayload `json:"settings"`
	Metadata             AccountMetadataPayload `json:"metadata"`
	CreatedAt            time.Time              `json:"createdAt"`
	UpdatedAt            time.Time              `json:"updatedAt"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:                   a.ID,
		FreelancerID:         a.FreelancerID,
		Provider:             string(a.Provider),
		CurrencyCode:         a.CurrencyCode,
		Status:               string(a.Status),
		CurrentBalance:       a.CurrentBalance,
		OutstandingBalance:   a.OutstandingBalance,
		ReleasedVolume:       a.ReleasedVolume,
		RefundedVolume:       a.RefundedVolume,
		OpenTransactions:     a.OpenTransactions,
		DisputedTransactions: a.DisputedTransactions,
		Settings: AccountSettingsPayload{
			AutoReleaseOnApproval: a.Settings.AutoReleaseOnApproval,
			NotifyOnDispute:       a.Settings.NotifyOnDispute,
			ManualHold:            a.Settings.ManualHold,
		},
		Metadata:  AccountMetadataPayload{AccountLabel: a.Metadata.AccountLabel},
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// ToDomain converts the response back into a domain account.
func (r *AccountResponse) ToDomain() *domain.Account {
	return &domain.Account{
		ID:                   r.ID,
		FreelancerID:         r.FreelancerID,
		Provider:             domain.Provider(r.Provider),
		CurrencyCode:         r.CurrencyCode,
		Status:               domain.AccountStatus(r.Status),
		CurrentBalance:       r.CurrentBalance,
		OutstandingBalance:   r.OutstandingBalance,
		ReleasedVolume:       r.ReleasedVolume,
		RefundedVolume:       r.RefundedVolume,
		OpenTransactions:     r.OpenTransactions,
		DisputedTransactions: r.DisputedTransactions,
		Settings: domain.AccountSettings{
			AutoReleaseOnApproval: r.Settings.AutoReleaseOnApproval,
			NotifyOnDispute:       r.Settings.NotifyOnDispute,
			ManualHold:            r.Settings.ManualHold,
		},
		Metadata:  domain.AccountMetadata{AccountLabel: r.Metadata.AccountLabel},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// AuditEntryPayload is one audit trail step on the wire.
type AuditEntryPayload struct {
	Action string    `json:"action"`
	At     time.Time `json:"at"`
}

// TransactionResponse represents an escrow transaction in API responses.
type TransactionResponse struct {
	ID                 string              `json:"id"`
	AccountID          string              `json:"accountId"`
	FreelancerID       string              `json:"freelancerId"`
	Reference          string              `json:"reference"`
	Amount             decimal.Decimal     `json:"amount"`
	FeeAmount          decimal.Decimal     `json:"feeAmount"`
	NetAmount          decimal.Decimal     `json:"netAmount"`
	CurrencyCode       string              `json:"currencyCode"`
	CounterpartyID     string              `json:"counterpartyId,omitempty"`
	MilestoneLabel     string              `json:"milestoneLabel,omitempty"`
	Status             string              `json:"status"`
	ScheduledReleaseAt *time.Time          `json:"scheduledReleaseAt,omitempty"`
	ReleaseEligible    bool                `json:"releaseEligible"`
	AuditTrail         []AuditEntryPayload `json:"auditTrail"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	trail := make([]AuditEntryPayload, 0, len(t.AuditTrail))
	for _, e := range t.AuditTrail {
		trail = append(trail, AuditEntryPayload{Action: e.Action, At: e.At})
	}

	return &TransactionResponse{
		ID:                 t.ID,
		AccountID:          t.AccountID,
		FreelancerID:       t.FreelancerID,
		Reference:          t.Reference,
		Amount:             t.Amount,
		FeeAmount:          t.FeeAmount,
		NetAmount:          t.NetAmount,
		CurrencyCode:       t.CurrencyCode,
		CounterpartyID:     t.CounterpartyID,
		MilestoneLabel:     t.MilestoneLabel,
		Status:             string(t.Status),
		ScheduledReleaseAt: t.ScheduledReleaseAt,
		ReleaseEligible:    t.ReleaseEligible,
		AuditTrail:         trail,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

// ToDomain converts the response back into a domain transaction.
func (r *TransactionResponse) ToDomain() *domain.Transaction {
	trail := make([]domain.AuditEntry, 0, len(r.AuditTrail))
	for _, e := range r.AuditTrail {
		trail = append(trail, domain.AuditEntry{Action: e.Action, At: e.At})
	}

	return &domain.Transaction{
		ID:                 r.ID,
		AccountID:          r.AccountID,
		FreelancerID:       r.FreelancerID,
		Reference:          r.Reference,
		Amount:             r.Amount,
		FeeAmount:          r.FeeAmount,
		NetAmount:          r.NetAmount,
		CurrencyCode:       r.CurrencyCode,
		CounterpartyID:     r.CounterpartyID,
		MilestoneLabel:     r.MilestoneLabel,
		Status:             domain.TransactionStatus(r.Status),
		ScheduledReleaseAt: r.ScheduledReleaseAt,
		ReleaseEligible:    r.ReleaseEligible,
		AuditTrail:         trail,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// DisputeEventResponse is one timeline entry in API responses.
type DisputeEventResponse struct {
	ID        string    `json:"id"`
	ActorType string    `json:"actorType"`
	Notes     string    `json:"notes"`
	EventAt   time.Time `json:"eventAt"`
}

// DisputeResponse represents a dispute in API responses.
type DisputeResponse struct {
	ID            string                 `json:"id"`
	TransactionID string                 `json:"transactionId"`
	FreelancerID  string                 `json:"freelancerId"`
	ReasonCode    string                 `json:"reasonCode"`
	Priority      string                 `json:"priority"`
	Stage         string                 `json:"stage"`
	Status        string                 `json:"status"`
	Summary       string                 `json:"summary"`
	Events        []DisputeEventResponse `json:"events"`
	OpenedAt      time.Time              `json:"openedAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// DisputeFromDomain converts a domain dispute to a response.
func DisputeFromDomain(d *domain.Dispute) *DisputeResponse {
	events := make([]DisputeEventResponse, 0, len(d.Events))
	for _, e := range d.Events {
		events = append(events, DisputeEventResponse{
			ID:        e.ID,
			ActorType: e.ActorType,
			Notes:     e.Notes,
			EventAt:   e.EventAt,
		})
	}

	return &DisputeResponse{
		ID:            d.ID,
		TransactionID: d.TransactionID,
		FreelancerID:  d.FreelancerID,
		ReasonCode:    string(d.ReasonCode),
		Priority:      string(d.Priority),
		Stage:         d.Stage,
		Status:        d.Status,
		Summary:       d.Summary,
		Events:        events,
		OpenedAt:      d.OpenedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// ToDomain converts the response back into a domain dispute.
func (r *DisputeResponse) ToDomain() *domain.Dispute {
	events := make([]domain.DisputeEvent, 0, len(r.Events))
	for _, e := range r.Events {
		events = append(events, domain.DisputeEvent{
			ID:        e.ID,
			ActorType: e.ActorType,
			Notes:     e.Notes,
			EventAt:   e.EventAt,
		})
	}

	return &domain.Dispute{
		ID:            r.ID,
		TransactionID: r.TransactionID,
		FreelancerID:  r.FreelancerID,
		ReasonCode:    domain.ReasonCode(r.ReasonCode),
		Priority:      domain.DisputePriority(r.Priority),
		Stage:         r.Stage,
		Status:        r.Status,
		Summary:       r.Summary,
		Events:        events,
		OpenedAt:      r.OpenedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// DisputesFromDomain converts domain disputes to responses.
func DisputesFromDomain(disputes []*domain.Dispute) []*DisputeResponse {
	result := make([]*DisputeResponse, len(disputes))
	for i, d := range disputes {
		result[i] = DisputeFromDomain(d)
	}
	return result
}

// ActivityEntryResponse represents one activity log row in API responses.
type ActivityEntryResponse struct {
	ID            string         `json:"id"`
	FreelancerID  string         `json:"freelancerId"`
	Action        string         `json:"action"`
	ResourceType  string         `json:"resourceType"`
	ResourceID    string         `json:"resourceId"`
	TransactionID string         `json:"transactionId,omitempty"`
	Detail        map[string]any `json:"detail,omitempty"`
	Status        string         `json:"status"`
	OccurredAt    time.Time      `json:"occurredAt"`
}

// ActivityFromDomain converts a domain activity entry to a response.
func ActivityFromDomain(e *domain.ActivityEntry) *ActivityEntryResponse {
	return &ActivityEntryResponse{
		ID:            e.ID,
		FreelancerID:  e.FreelancerID,
		Action:        e.Action,
		ResourceType:  e.ResourceType,
		ResourceID:    e.ResourceID,
		TransactionID: e.TransactionID,
		Detail:        e.Detail,
		Status:        e.Status,
		OccurredAt:    e.OccurredAt,
	}
}

// ToDomain converts the response back into a domain activity entry.
func (r *ActivityEntryResponse) ToDomain() *domain.ActivityEntry {
	return &domain.ActivityEntry{
		ID:            r.ID,
		FreelancerID:  r.FreelancerID,
		Action:        r.Action,
		ResourceType:  r.ResourceType,
		ResourceID:    r.ResourceID,
		TransactionID: r.TransactionID,
		Detail:        r.Detail,
		Status:        r.Status,
		OccurredAt:    r.OccurredAt,
	}
}

// ActivityFromDomainList converts domain activity entries to responses.
func ActivityFromDomainList(entries []*domain.ActivityEntry) []*ActivityEntryResponse {
	result := make([]*ActivityEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = ActivityFromDomain(e)
	}
	return result
}

// MetricsResponse represents overview metrics in API responses.
type MetricsResponse struct {
	TotalAccounts      int64           `json:"totalAccounts"`
	GrossVolume        decimal.Decimal `json:"grossVolume"`
	NetVolume          decimal.Decimal `json:"netVolume"`
	Outstanding        decimal.Decimal `json:"outstanding"`
	Released           decimal.Decimal `json:"released"`
	Refunded           decimal.Decimal `json:"refunded"`
	DisputedCount      int64           `json:"disputedCount"`
	AverageReleaseDays *float64        `json:"averageReleaseDays"`
	LongestReleaseDays *float64        `json:"longestReleaseDays"`
}

// OverviewResponse represents the aggregated overview in API responses.
type OverviewResponse struct {
	FreelancerID string                   `json:"freelancerId"`
	Metrics      MetricsResponse          `json:"metrics"`
	Accounts     []*AccountResponse       `json:"accounts"`
	Transactions []*TransactionResponse   `json:"transactions"`
	ReleaseQueue []*TransactionResponse   `json:"releaseQueue"`
	Disputes     []*DisputeResponse       `json:"disputes"`
	ActivityLog  []*ActivityEntryResponse `json:"activityLog"`
	GeneratedAt  time.Time                `json:"generatedAt"`
}

// OverviewFromDomain converts a domain overview to a response.
func OverviewFromDomain(o *domain.Overview) *OverviewResponse {
	return &OverviewResponse{
		FreelancerID: o.FreelancerID,
		Metrics: MetricsResponse{
			TotalAccounts:      o.Metrics.TotalAccounts,
			GrossVolume:        o.Metrics.GrossVolume,
			NetVolume:          o.Metrics.NetVolume,
			Outstanding:        o.Metrics.Outstanding,
			Released:           o.Metrics.Released,
			Refunded:           o.Metrics.Refunded,
			DisputedCount:      o.Metrics.DisputedCount,
			AverageReleaseDays: o.Metrics.AverageReleaseDays,
			LongestReleaseDays: o.Metrics.LongestReleaseDays,
		},
		Accounts:     AccountsFromDomain(o.Accounts),
		Transactions: TransactionsFromDomain(o.Transactions),
		ReleaseQueue: TransactionsFromDomain(o.ReleaseQueue),
		Disputes:     DisputesFromDomain(o.Disputes),
		ActivityLog:  ActivityFromDomainList(o.ActivityLog),
		GeneratedAt:  o.GeneratedAt,
	}
}

// ToDomain converts the response back into a domain overview.
func (r *OverviewResponse) ToDomain() *domain.Overview {
	overview := domain.ZeroOverview()
	overview.FreelancerID = r.FreelancerID
	overview.GeneratedAt = r.GeneratedAt
	overview.Metrics = domain.Metrics{
		TotalAccounts:      r.Metrics.TotalAccounts,
		GrossVolume:        r.Metrics.GrossVolume,
		NetVolume:          r.Metrics.NetVolume,
		Outstanding:        r.Metrics.Outstanding,
		Released:           r.Metrics.Released,
		Refunded:           r.Metrics.Refunded,
		DisputedCount:      r.Metrics.DisputedCount,
		AverageReleaseDays: r.Metrics.AverageReleaseDays,
		LongestReleaseDays: r.Metrics.LongestReleaseDays,
	}

	for _, a := range r.Accounts {
		overview.Accounts = append(overview.Accounts, a.ToDomain())
	}
	for _, t := range r.Transactions {
		overview.Transactions = append(overview.Transactions, t.ToDomain())
	}
	for _, t := range r.ReleaseQueue {
		overview.ReleaseQueue = append(overview.ReleaseQueue, t.ToDomain())
	}
	for _, d := range r.Disputes {
		overview.Disputes = append(overview.Disputes, d.ToDomain())
	}
	for _, e := range r.ActivityLog {
		overview.ActivityLog = append(overview.ActivityLog, e.ToDomain())
	}

	return overview
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
