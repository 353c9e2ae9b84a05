package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Provider identifies the payment rail an escrow account routes through.
type Provider string

const (
	ProviderEscrowCom  Provider = "escrow_com"
	ProviderStripe     Provider = "stripe"
	ProviderTrustshare Provider = "trustshare"
)

// AccountStatus represents the lifecycle state of an escrow account.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
)

// AccountSettings holds per-account release and notification policy.
type AccountSettings struct {
	AutoReleaseOnApproval bool
	NotifyOnDispute       bool
	ManualHold            bool
}

// AccountMetadata holds freelancer-supplied labeling.
type AccountMetadata struct {
	AccountLabel string
}

// Account is a holding destination for funds pending release, scoped to
// one freelancer. Balance fields are projections over the transaction
// lifecycle; they are only mutated through the Apply methods so the
// balance identity holds.
type Account struct {
	ID                   string
	FreelancerID         string
	Provider             Provider
	CurrencyCode         string
	Status               AccountStatus
	CurrentBalance       decimal.Decimal
	OutstandingBalance   decimal.Decimal
	ReleasedVolume       decimal.Decimal
	RefundedVolume       decimal.Decimal
	OpenTransactions     int64
	DisputedTransactions int64
	Settings             AccountSettings
	Metadata             AccountMetadata
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Validate checks account fields that do not depend on persisted state.
func (a *Account) Validate() error {
	if err := ValidateProvider(a.Provider); err != nil {
		return err
	}

	return ValidateCurrency(a.CurrencyCode)
}

// CanFund reports whether the account accepts new transactions.
func (a *Account) CanFund() bool {
	return a.Status == AccountStatusActive
}

// ApplyFunding records a newly funded transaction against the balances.
func (a *Account) ApplyFunding(netAmount decimal.Decimal) {
	a.OutstandingBalance = a.OutstandingBalance.Add(netAmount)
	a.OpenTransactions++
	a.recalculate()
}

// ApplyRelease moves a transaction's net amount from outstanding to released.
func (a *Account) ApplyRelease(netAmount decimal.Decimal) {
	a.OutstandingBalance = a.OutstandingBalance.Sub(netAmount)
	a.ReleasedVolume = a.ReleasedVolume.Add(netAmount)
	a.OpenTransactions--
	a.recalculate()
}

// ApplyRefund moves a transaction's net amount from outstanding to refunded.
func (a *Account) ApplyRefund(netAmount decimal.Decimal) {
	a.OutstandingBalance = a.OutstandingBalance.Sub(netAmount)
	a.RefundedVolume = a.RefundedVolume.Add(netAmount)
	a.OpenTransactions--
	a.recalculate()
}

// ApplyDispute marks one more open transaction as disputed.
func (a *Account) ApplyDispute() {
	a.DisputedTransactions++
}

// recalculate enforces currentBalance = outstanding + released - refunded.
func (a *Account) recalculate() {
	a.CurrentBalance = a.OutstandingBalance.Add(a.ReleasedVolume).Sub(a.RefundedVolume)
}
