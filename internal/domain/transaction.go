package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus represents the release lifecycle of a funded amount.
type TransactionStatus string

const (
	TransactionStatusFunded   TransactionStatus = "funded"
	TransactionStatusInEscrow TransactionStatus = "in_escrow"
	TransactionStatusReleased TransactionStatus = "released"
	TransactionStatusRefunded TransactionStatus = "refunded"
	TransactionStatusDisputed TransactionStatus = "disputed"
)

// Audit trail actions recorded against a transaction.
const (
	AuditActionFunded   = "funded"
	AuditActionReleased = "released"
	AuditActionRefunded = "refunded"
	AuditActionDisputed = "disputed"
)

// AuditEntry is one step in a transaction's append-only audit trail.
type AuditEntry struct {
	Action string
	At     time.Time
}

// Transaction is one funded milestone moving through the release
// lifecycle. Transitions are one-directional; a released or refunded
// transaction is immutable.
type Transaction struct {
	ID                 string
	AccountID          string
	FreelancerID       string
	Reference          string
	Amount             decimal.Decimal
	FeeAmount          decimal.Decimal
	NetAmount          decimal.Decimal
	CurrencyCode       string
	CounterpartyID     string
	MilestoneLabel     string
	Status             TransactionStatus
	ScheduledReleaseAt *time.Time
	ReleaseEligible    bool
	AuditTrail         []AuditEntry
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Validate validates a funding request.
func (t *Transaction) Validate() error {
	if t.Reference == "" {
		return ErrMissingReference
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.FeeAmount.IsNegative() || t.FeeAmount.GreaterThan(t.Amount) {
		return ErrInvalidFee
	}

	return nil
}

// IsTerminal reports whether the transaction can no longer move funds.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusReleased || t.Status == TransactionStatusRefunded
}

// CanRelease reports whether funds may be paid out.
func (t *Transaction) CanRelease() bool {
	return t.Status == TransactionStatusFunded || t.Status == TransactionStatusInEscrow
}

// CanRefund reports whether funds may be returned to the counterparty.
func (t *Transaction) CanRefund() bool {
	return t.Status == TransactionStatusFunded || t.Status == TransactionStatusInEscrow
}

// CanDispute reports whether a dispute may be opened against the transaction.
func (t *Transaction) CanDispute() bool {
	switch t.Status {
	case TransactionStatusFunded, TransactionStatusInEscrow, TransactionStatusDisputed:
		return true
	default:
		return false
	}
}

// AppendAudit records an action in the audit trail. Existing entries are
// never reordered or rewritten.
func (t *Transaction) AppendAudit(action string, at time.Time) {
	t.AuditTrail = append(t.AuditTrail, AuditEntry{Action: action, At: at})
}

// FundedAt returns the timestamp of the funding audit entry, falling back
// to CreatedAt when the trail is missing.
func (t *Transaction) FundedAt() time.Time {
	for _, e := range t.AuditTrail {
		if e.Action == AuditActionFunded {
			return e.At
		}
	}

	return t.CreatedAt
}

// ReleasedAt returns the timestamp of the release audit entry, or nil when
// the transaction has not been released.
func (t *Transaction) ReleasedAt() *time.Time {
	for _, e := range t.AuditTrail {
		if e.Action == AuditActionReleased {
			at := e.At
			return &at
		}
	}

	return nil
}
