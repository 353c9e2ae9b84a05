package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound  = errors.New("escrow account not found")
	ErrAccountSuspended = errors.New("escrow account is suspended")
	ErrInvalidProvider  = errors.New("unknown escrow provider")

	// Transaction errors
	ErrTransactionNotFound      = errors.New("escrow transaction not found")
	ErrTransactionNotReleasable = errors.New("transaction cannot be released in its current state")
	ErrTransactionNotRefundable = errors.New("transaction cannot be refunded in its current state")
	ErrTransactionNotDisputable = errors.New("transaction is not eligible for dispute")
	ErrMissingReference         = errors.New("transaction reference is required")
	ErrInvalidAmount            = errors.New("amount must be positive")
	ErrInvalidFee               = errors.New("fee must be between zero and the amount")
	ErrManualHoldActive         = errors.New("account has a manual hold on releases")

	// Dispute errors
	ErrDisputeNotFound    = errors.New("dispute not found")
	ErrInvalidReasonCode  = errors.New("unknown dispute reason code")
	ErrInvalidPriority    = errors.New("unknown dispute priority")
	ErrEmptyDisputeNotes  = errors.New("dispute event notes cannot be empty")
	ErrFreelancerMismatch = errors.New("resource does not belong to this freelancer")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
