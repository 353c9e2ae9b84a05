package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigvora/escrow/internal/domain"
	"github.com/gigvora/escrow/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `
	id, freelancer_id, provider, currency_code, status,
	current_balance, outstanding_balance, released_volume, refunded_volume,
	open_transactions, disputed_transactions,
	auto_release_on_approval, notify_on_dispute, manual_hold,
	account_label, created_at, updated_at
`

// Create inserts a new escrow account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	query := `
		INSERT INTO escrow_accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := txQuerier(tx).Exec(ctx, query,
		account.ID,
		account.FreelancerID,
		string(account.Provider),
		account.CurrencyCode,
		string(account.Status),
		decimalToNumeric(account.CurrentBalance),
		decimalToNumeric(account.OutstandingBalance),
		decimalToNumeric(account.ReleasedVolume),
		decimalToNumeric(account.RefundedVolume),
		account.OpenTransactions,
		account.DisputedTransactions,
		account.Settings.AutoReleaseOnApproval,
		account.Settings.NotifyOnDispute,
		account.Settings.ManualHold,
		account.Metadata.AccountLabel,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)

	return err
}

// GetByID retrieves an escrow account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.getByID(ctx, r.pool, id, false)
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	return r.getByID(ctx, txQuerier(tx), id, true)
}

func (r *AccountRepository) getByID(ctx context.Context, q querier, id string, forUpdate bool) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM escrow_accounts WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	account, err := scanAccount(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

// Update persists provider, currency, status, settings and metadata changes.
func (r *AccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	query := `
		UPDATE escrow_accounts
		SET provider = $2,
		    currency_code = $3,
		    status = $4,
		    auto_release_on_approval = $5,
		    notify_on_dispute = $6,
		    manual_hold = $7,
		    account_label = $8,
		    updated_at = $9
		WHERE id = $1
	`

	_, err := txQuerier(tx).Exec(ctx, query,
		account.ID,
		string(account.Provider),
		account.CurrencyCode,
		string(account.Status),
		account.Settings.AutoReleaseOnApproval,
		account.Settings.NotifyOnDispute,
		account.Settings.ManualHold,
		account.Metadata.AccountLabel,
		timeToPgTimestamptz(account.UpdatedAt),
	)

	return err
}

// UpdateBalances persists the balance projection after a lifecycle move.
func (r *AccountRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	query := `
		UPDATE escrow_accounts
		SET current_balance = $2,
		    outstanding_balance = $3,
		    released_volume = $4,
		    refunded_volume = $5,
		    open_transactions = $6,
		    disputed_transactions = $7,
		    updated_at = $8
		WHERE id = $1
	`

	_, err := txQuerier(tx).Exec(ctx, query,
		account.ID,
		decimalToNumeric(account.CurrentBalance),
		decimalToNumeric(account.OutstandingBalance),
		decimalToNumeric(account.ReleasedVolume),
		decimalToNumeric(account.RefundedVolume),
		account.OpenTransactions,
		account.DisputedTransactions,
		timeToPgTimestamptz(account.UpdatedAt),
	)

	return err
}

// ListByFreelancer lists a freelancer's accounts, oldest first.
func (r *AccountRepository) ListByFreelancer(ctx context.Context, freelancerID string, limit, offset int) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM escrow_accounts
		WHERE freelancer_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, freelancerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account                                  domain.Account
		provider, status                         string
		current, outstanding, released, refunded pgtype.Numeric
	)

	err := row.Scan(
		&account.ID,
		&account.FreelancerID,
		&provider,
		&account.CurrencyCode,
		&status,
		&current,
		&outstanding,
		&released,
		&refunded,
		&account.OpenTransactions,
		&account.DisputedTransactions,
		&account.Settings.AutoReleaseOnApproval,
		&account.Settings.NotifyOnDispute,
		&account.Settings.ManualHold,
		&account.Metadata.AccountLabel,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	account.Provider = domain.Provider(provider)
	account.Status = domain.AccountStatus(status)
	account.CurrentBalance = numericToDecimal(current)
	account.OutstandingBalance = numericToDecimal(outstanding)
	account.ReleasedVolume = numericToDecimal(released)
	account.RefundedVolume = numericToDecimal(refunded)

	return &account, nil
}
