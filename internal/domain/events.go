package domain

import "time"

// Event types
const (
	EventTypeAccountCreated       = "escrow.account.created"
	EventTypeAccountUpdated       = "escrow.account.updated"
	EventTypeTransactionFunded    = "escrow.transaction.funded"
	EventTypeTransactionReleased  = "escrow.transaction.released"
	EventTypeTransactionRefunded  = "escrow.transaction.refunded"
	EventTypeDisputeOpened        = "escrow.dispute.opened"
	EventTypeDisputeEventAppended = "escrow.dispute.event_appended"
)

// Aggregate types
const (
	AggregateTypeAccount     = "account"
	AggregateTypeTransaction = "transaction"
	AggregateTypeDispute     = "dispute"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransactionFundedEvent payload
type TransactionFundedEvent struct {
	TransactionID string `json:"transaction_id"`
	AccountID     string `json:"account_id"`
	Reference     string `json:"reference"`
	Amount        string `json:"amount"`
	NetAmount     string `json:"net_amount"`
	Currency      string `json:"currency"`
}

// TransactionReleasedEvent payload
type TransactionReleasedEvent struct {
	TransactionID string `json:"transaction_id"`
	AccountID     string `json:"account_id"`
	NetAmount     string `json:"net_amount"`
	Currency      string `json:"currency"`
}

// TransactionRefundedEvent payload
type TransactionRefundedEvent struct {
	TransactionID  string `json:"transaction_id"`
	AccountID      string `json:"account_id"`
	NetAmount      string `json:"net_amount"`
	CounterpartyID string `json:"counterparty_id"`
}

// DisputeOpenedEvent payload
type DisputeOpenedEvent struct {
	DisputeID     string `json:"dispute_id"`
	TransactionID string `json:"transaction_id"`
	ReasonCode    string `json:"reason_code"`
	Priority      string `json:"priority"`
}

// AccountCreatedEvent payload
type AccountCreatedEvent struct {
	AccountID    string `json:"account_id"`
	FreelancerID string `json:"freelancer_id"`
	Provider     string `json:"provider"`
	Currency     string `json:"currency"`
}
