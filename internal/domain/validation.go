package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidCurrency  = errors.New("invalid currency code")
	ErrAmountTooLarge   = errors.New("amount exceeds maximum allowed")
	ErrAmountTooSmall   = errors.New("amount below minimum allowed")
	ErrLabelTooLong     = errors.New("account label exceeds maximum length")
	ErrReferenceTooLong = errors.New("transaction reference exceeds maximum length")
)

// Validation constants
const (
	MaxAccountLabelLength = 120
	MaxReferenceLength    = 64
	MaxNotesLength        = 4000
	MaxEscrowAmount       = "1000000000" // 1 billion
	MinEscrowAmount       = "0.01"
)

// Valid currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
	"ZAR": true, "PLN": true, "TRY": true, "HKD": true,
}

// ValidateCurrency validates a 3-letter ISO 4217 currency code.
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateProvider validates an escrow provider.
func ValidateProvider(p Provider) error {
	switch p {
	case ProviderEscrowCom, ProviderStripe, ProviderTrustshare:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidProvider, p)
	}
}

// ValidateReasonCode validates a dispute reason code.
func ValidateReasonCode(r ReasonCode) error {
	switch r {
	case ReasonQualityGap, ReasonScopeMismatch, ReasonDelay, ReasonBilling:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidReasonCode, r)
	}
}

// ValidatePriority validates a dispute priority.
func ValidatePriority(p DisputePriority) error {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidPriority, p)
	}
}

// ValidateNotes validates dispute event notes. Notes are required and
// compared after trimming.
func ValidateNotes(notes string) error {
	trimmed := strings.TrimSpace(notes)
	if trimmed == "" {
		return ErrEmptyDisputeNotes
	}

	if len(trimmed) > MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrEmptyDisputeNotes, MaxNotesLength)
	}

	return nil
}

// ValidateAmount validates a funded amount against platform bounds.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	minAmount, _ := decimal.NewFromString(MinEscrowAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinEscrowAmount)
	}

	maxAmount, _ := decimal.NewFromString(MaxEscrowAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxEscrowAmount)
	}

	return nil
}

// ValidateReference validates a user-supplied transaction reference.
func ValidateReference(reference string) error {
	if strings.TrimSpace(reference) == "" {
		return ErrMissingReference
	}

	if len(reference) > MaxReferenceLength {
		return fmt.Errorf("%w: maximum length is %d", ErrReferenceTooLong, MaxReferenceLength)
	}

	return nil
}

// ValidateAccountLabel validates the freelancer-supplied account label.
func ValidateAccountLabel(label string) error {
	if len(label) > MaxAccountLabelLength {
		return fmt.Errorf("%w: maximum length is %d", ErrLabelTooLong, MaxAccountLabelLength)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 500
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
