package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gigvora/escrow/internal/domain"
	"github.com/gigvora/escrow/internal/usecase"
	"github.com/gigvora/escrow/internal/usecase/mocks"
	"github.com/shopspring/decimal"
)

func activeAccount() *domain.Account {
	return &domain.Account{
		ID:           "acc-1",
		FreelancerID: "freelancer-1",
		Provider:     domain.ProviderEscrowCom,
		CurrencyCode: "USD",
		Status:       domain.AccountStatusActive,
	}
}

func newTransactionFixture() (*usecase.TransactionUseCase, *mocks.MockAccountRepository, *mocks.MockTransactionRepository, *mocks.MockActivityRepository, *mocks.MockOutboxRepository) {
	accRepo := mocks.NewMockAccountRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	activityRepo := mocks.NewMockActivityRepository()
	outboxRepo := mocks.NewMockOutboxRepository()

	uc := usecase.NewTransactionUseCase(
		mocks.NewMockTransactionManager(),
		accRepo,
		txnRepo,
		activityRepo,
		outboxRepo,
		mocks.NewMockIDGenerator(),
		nil,
	)

	return uc, accRepo, txnRepo, activityRepo, outboxRepo
}

func TestTransactionUseCase_CreateTransaction(t *testing.T) {
	tests := []struct {
		name        string
		account     *domain.Account
		input       usecase.CreateTransactionInput
		expectError bool
		errorType   error
	}{
		{
			name:    "successful funding",
			account: activeAccount(),
			input: usecase.CreateTransactionInput{
				FreelancerID: "freelancer-1",
				AccountID:    "acc-1",
				Reference:    "GIG-2044",
				Amount:       decimal.NewFromInt(1000),
				FeeAmount:    decimal.NewFromInt(50),
			},
		},
		{
			name:    "reject missing reference",
			account: activeAccount(),
			input: usecase.CreateTransactionInput{
				FreelancerID: "freelancer-1",
				AccountID:    "acc-1",
				Amount:       decimal.NewFromInt(1000),
			},
			expectError: true,
			errorType:   domain.ErrMissingReference,
		},
		{
			name:    "reject zero amount",
			account: activeAccount(),
			input: usecase.CreateTransactionInput{
				FreelancerID: "freelancer-1",
				AccountID:    "acc-1",
				Reference:    "GIG-2044",
				Amount:       decimal.Zero,
			},
			expectError: true,
			errorType:   domain.ErrInvalidAmount,
		},
		{
			name: "reject suspended account",
			account: func() *domain.Account {
				a := activeAccount()
				a.Status = domain.AccountStatusSuspended
				return a
			}(),
			input: usecase.CreateTransactionInput{
				FreelancerID: "freelancer-1",
				AccountID:    "acc-1",
				Reference:    "GIG-2044",
				Amount:       decimal.NewFromInt(1000),
			},
			expectError: true,
			errorType:   domain.ErrAccountSuspended,
		},
		{
			name:    "reject fee above amount",
			account: activeAccount(),
			input: usecase.CreateTransactionInput{
				FreelancerID: "freelancer-1",
				AccountID:    "acc-1",
				Reference:    "GIG-2044",
				Amount:       decimal.NewFromInt(100),
				FeeAmount:    decimal.NewFromInt(150),
			},
			expectError: true,
			errorType:   domain.ErrInvalidFee,
		},
		{
			name:    "reject foreign account",
			account: activeAccount(),
			input: usecase.CreateTransactionInput{
				FreelancerID: "freelancer-2",
				AccountID:    "acc-1",
				Reference:    "GIG-2044",
				Amount:       decimal.NewFromInt(100),
			},
			expectError: true,
			errorType:   domain.ErrFreelancerMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, accRepo, _, _, _ := newTransactionFixture()
			accRepo.Seed(tt.account)

			txn, err := uc.CreateTransaction(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errorType != nil && !errors.Is(err, tt.errorType) {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if txn.Status != domain.TransactionStatusInEscrow {
				t.Errorf("expected in_escrow, got %s", txn.Status)
			}
			if !txn.NetAmount.Equal(decimal.NewFromInt(950)) {
				t.Errorf("expected net 950, got %s", txn.NetAmount)
			}
			if txn.CurrencyCode != "USD" {
				t.Errorf("expected account currency, got %s", txn.CurrencyCode)
			}
			if len(txn.AuditTrail) != 1 || txn.AuditTrail[0].Action != domain.AuditActionFunded {
				t.Errorf("expected funded audit entry, got %+v", txn.AuditTrail)
			}
		})
	}
}

func TestTransactionUseCase_CreateTransaction_AppliesFunding(t *testing.T) {
	uc, accRepo, _, activityRepo, outboxRepo := newTransactionFixture()
	accRepo.Seed(activeAccount())

	_, err := uc.CreateTransaction(context.Background(), usecase.CreateTransactionInput{
		FreelancerID: "freelancer-1",
		AccountID:    "acc-1",
		Reference:    "GIG-2044",
		Amount:       decimal.NewFromInt(1000),
		FeeAmount:    decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	account, err := accRepo.GetByID(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !account.OutstandingBalance.Equal(decimal.NewFromInt(950)) {
		t.Errorf("expected outstanding 950, got %s", account.OutstandingBalance)
	}
	if !account.CurrentBalance.Equal(decimal.NewFromInt(950)) {
		t.Errorf("expected current balance 950, got %s", account.CurrentBalance)
	}
	if account.OpenTransactions != 1 {
		t.Errorf("expected one open transaction, got %d", account.OpenTransactions)
	}

	entries := activityRepo.Entries()
	if len(entries) != 1 || entries[0].Action != domain.ActivityTransactionFund {
		t.Errorf("expected transaction.fund activity, got %+v", entries)
	}
	events := outboxRepo.Events()
	if len(events) != 1 || events[0].EventType != domain.EventTypeTransactionFunded {
		t.Errorf("expected funded outbox event, got %+v", events)
	}
}

func TestTransactionUseCase_ReleaseTransaction(t *testing.T) {
	heldTransaction := func(status domain.TransactionStatus) *domain.Transaction {
		return &domain.Transaction{
			ID:           "txn-1",
			AccountID:    "acc-1",
			FreelancerID: "freelancer-1",
			Reference:    "GIG-2044",
			Amount:       decimal.NewFromInt(1000),
			FeeAmount:    decimal.NewFromInt(50),
			NetAmount:    decimal.NewFromInt(950),
			CurrencyCode: "USD",
			Status:       status,
			CreatedAt:    time.Now().UTC(),
		}
	}

	tests := []struct {
		name        string
		txn         *domain.Transaction
		account     *domain.Account
		errorType   error
		expectError bool
	}{
		{
			name: "release funded transaction",
			txn:  heldTransaction(domain.TransactionStatusFunded),
			account: func() *domain.Account {
				a := activeAccount()
				a.ApplyFunding(decimal.NewFromInt(950))
				return a
			}(),
		},
		{
			name: "release in_escrow transaction",
			txn:  heldTransaction(domain.TransactionStatusInEscrow),
			account: func() *domain.Account {
				a := activeAccount()
				a.ApplyFunding(decimal.NewFromInt(950))
				return a
			}(),
		},
		{
			name:        "reject already released",
			txn:         heldTransaction(domain.TransactionStatusReleased),
			account:     activeAccount(),
			expectError: true,
			errorType:   domain.ErrTransactionNotReleasable,
		},
		{
			name:        "reject refunded transaction",
			txn:         heldTransaction(domain.TransactionStatusRefunded),
			account:     activeAccount(),
			expectError: true,
			errorType:   domain.ErrTransactionNotReleasable,
		},
		{
			name:        "reject disputed transaction",
			txn:         heldTransaction(domain.TransactionStatusDisputed),
			account:     activeAccount(),
			expectError: true,
			errorType:   domain.ErrTransactionNotReleasable,
		},
		{
			name: "reject manual hold account",
			txn:  heldTransaction(domain.TransactionStatusInEscrow),
			account: func() *domain.Account {
				a := activeAccount()
				a.Settings.ManualHold = true
				a.ApplyFunding(decimal.NewFromInt(950))
				return a
			}(),
			expectError: true,
			errorType:   domain.ErrManualHoldActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, accRepo, txnRepo, _, _ := newTransactionFixture()
			accRepo.Seed(tt.account)
			txnRepo.Seed(tt.txn)

			txn, err := uc.ReleaseTransaction(context.Background(), "freelancer-1", "txn-1")

			if tt.expectError {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected error %v, got %v", tt.errorType, err)
				}
				// rejected release leaves the stored transaction untouched
				stored, getErr := txnRepo.GetByID(context.Background(), "txn-1")
				if getErr != nil {
					t.Fatalf("unexpected error: %v", getErr)
				}
				if stored.Status != tt.txn.Status {
					t.Errorf("status changed on rejected release: %s", stored.Status)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if txn.Status != domain.TransactionStatusReleased {
				t.Errorf("expected released, got %s", txn.Status)
			}

			account, _ := accRepo.GetByID(context.Background(), "acc-1")
			if !account.OutstandingBalance.IsZero() {
				t.Errorf("expected outstanding drained, got %s", account.OutstandingBalance)
			}
			if !account.ReleasedVolume.Equal(decimal.NewFromInt(950)) {
				t.Errorf("expected released volume 950, got %s", account.ReleasedVolume)
			}
			if !account.CurrentBalance.Equal(account.OutstandingBalance.Add(account.ReleasedVolume).Sub(account.RefundedVolume)) {
				t.Error("balance identity violated after release")
			}
		})
	}
}

func TestTransactionUseCase_RefundTransaction(t *testing.T) {
	account := activeAccount()
	account.ApplyFunding(decimal.NewFromInt(950))

	uc, accRepo, txnRepo, activityRepo, _ := newTransactionFixture()
	accRepo.Seed(account)
	txnRepo.Seed(&domain.Transaction{
		ID:           "txn-1",
		AccountID:    "acc-1",
		FreelancerID: "freelancer-1",
		Reference:    "GIG-2044",
		Amount:       decimal.NewFromInt(1000),
		FeeAmount:    decimal.NewFromInt(50),
		NetAmount:    decimal.NewFromInt(950),
		CurrencyCode: "USD",
		Status:       domain.TransactionStatusInEscrow,
	})

	txn, err := uc.RefundTransaction(context.Background(), "freelancer-1", "txn-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txn.Status != domain.TransactionStatusRefunded {
		t.Errorf("expected refunded, got %s", txn.Status)
	}

	stored, _ := accRepo.GetByID(context.Background(), "acc-1")
	if !stored.RefundedVolume.Equal(decimal.NewFromInt(950)) {
		t.Errorf("expected refunded volume 950, got %s", stored.RefundedVolume)
	}
	if !stored.OutstandingBalance.IsZero() {
		t.Errorf("expected outstanding drained, got %s", stored.OutstandingBalance)
	}

	// refunding again must fail: refunded is terminal
	if _, err := uc.RefundTransaction(context.Background(), "freelancer-1", "txn-1"); !errors.Is(err, domain.ErrTransactionNotRefundable) {
		t.Errorf("expected not refundable, got %v", err)
	}

	entries := activityRepo.Entries()
	if len(entries) != 1 || entries[0].Action != domain.ActivityTransactionRefund {
		t.Errorf("expected one transaction.refund activity, got %+v", entries)
	}
}

func TestTransactionUseCase_ListTransactions_StatusFilter(t *testing.T) {
	uc, _, txnRepo, _, _ := newTransactionFixture()

	txnRepo.Seed(&domain.Transaction{ID: "txn-1", FreelancerID: "freelancer-1", Status: domain.TransactionStatusInEscrow})
	txnRepo.Seed(&domain.Transaction{ID: "txn-2", FreelancerID: "freelancer-1", Status: domain.TransactionStatusReleased})
	txnRepo.Seed(&domain.Transaction{ID: "txn-3", FreelancerID: "freelancer-2", Status: domain.TransactionStatusInEscrow})

	transactions, err := uc.ListTransactions(context.Background(), usecase.ListTransactionsInput{
		FreelancerID: "freelancer-1",
		Status:       domain.TransactionStatusInEscrow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(transactions) != 1 || transactions[0].ID != "txn-1" {
		t.Errorf("expected only txn-1, got %+v", transactions)
	}
}
