package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Metrics summarizes a freelancer's escrow position. Release-time
// averages are nil rather than zero when no transaction has been
// released yet.
type Metrics struct {
	TotalAccounts      int64
	GrossVolume        decimal.Decimal
	NetVolume          decimal.Decimal
	Outstanding        decimal.Decimal
	Released           decimal.Decimal
	Refunded           decimal.Decimal
	DisputedCount      int64
	AverageReleaseDays *float64
	LongestReleaseDays *float64
}

// ZeroMetrics returns the all-zero metrics shape.
func ZeroMetrics() Metrics {
	return Metrics{
		GrossVolume: decimal.Zero,
		NetVolume:   decimal.Zero,
		Outstanding: decimal.Zero,
		Released:    decimal.Zero,
		Refunded:    decimal.Zero,
	}
}

// Overview is the aggregated read-model combining accounts, transactions,
// disputes and metrics for one freelancer. It is rebuilt on every fetch
// and never persisted.
type Overview struct {
	FreelancerID string
	Metrics      Metrics
	Accounts     []*Account
	Transactions []*Transaction
	ReleaseQueue []*Transaction
	Disputes     []*Dispute
	ActivityLog  []*ActivityEntry
	GeneratedAt  time.Time
}

// ZeroOverview returns the default overview served when no freelancer
// context exists. Every slice is non-nil so consumers never branch on nil.
func ZeroOverview() *Overview {
	return &Overview{
		Metrics:      ZeroMetrics(),
		Accounts:     []*Account{},
		Transactions: []*Transaction{},
		ReleaseQueue: []*Transaction{},
		Disputes:     []*Dispute{},
		ActivityLog:  []*ActivityEntry{},
	}
}
