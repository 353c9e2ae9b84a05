package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigvora/escrow/internal/domain"
	"github.com/gigvora/escrow/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository. The
// audit trail is stored as a jsonb column; rows only ever append to it.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `
	id, account_id, freelancer_id, reference,
	amount, fee_amount, net_amount, currency_code,
	counterparty_id, milestone_label, status,
	scheduled_release_at, release_eligible, audit_trail,
	created_at, updated_at
`

type auditEntryRecord struct {
	Action string    `json:"action"`
	At     time.Time `json:"at"`
}

// Create inserts a new escrow transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	trail, err := marshalAuditTrail(txn.AuditTrail)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO escrow_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err = txQuerier(tx).Exec(ctx, query,
		txn.ID,
		txn.AccountID,
		txn.FreelancerID,
		txn.Reference,
		decimalToNumeric(txn.Amount),
		decimalToNumeric(txn.FeeAmount),
		decimalToNumeric(txn.NetAmount),
		txn.CurrencyCode,
		txn.CounterpartyID,
		txn.MilestoneLabel,
		string(txn.Status),
		timePtrToPgTimestamptz(txn.ScheduledReleaseAt),
		txn.ReleaseEligible,
		trail,
		timeToPgTimestamptz(txn.CreatedAt),
		timeToPgTimestamptz(txn.UpdatedAt),
	)

	return err
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return r.getByID(ctx, r.pool, id, false)
}

// GetByIDForUpdate retrieves a transaction by ID with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	return r.getByID(ctx, txQuerier(tx), id, true)
}

func (r *TransactionRepository) getByID(ctx context.Context, q querier, id string, forUpdate bool) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM escrow_transactions WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	txn, err := scanTransaction(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	return txn, nil
}

// Update persists a status transition with its extended audit trail.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	trail, err := marshalAuditTrail(txn.AuditTrail)
	if err != nil {
		return err
	}

	query := `
		UPDATE escrow_transactions
		SET status = $2,
		    scheduled_release_at = $3,
		    release_eligible = $4,
		    audit_trail = $5,
		    updated_at = $6
		WHERE id = $1
	`

	_, err = txQuerier(tx).Exec(ctx, query,
		txn.ID,
		string(txn.Status),
		timePtrToPgTimestamptz(txn.ScheduledReleaseAt),
		txn.ReleaseEligible,
		trail,
		timeToPgTimestamptz(txn.UpdatedAt),
	)

	return err
}

// ListByFreelancer lists a freelancer's transactions, newest first,
// optionally filtered by status.
func (r *TransactionRepository) ListByFreelancer(ctx context.Context, freelancerID string, status domain.TransactionStatus, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM escrow_transactions
		WHERE freelancer_id = $1
	`
	args := []any{freelancerID}

	if status != "" {
		query += ` AND status = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
		args = append(args, string(status), limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}

		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn              domain.Transaction
		amount, fee, net pgtype.Numeric
		status           string
		scheduled        pgtype.Timestamptz
		trail            []byte
	)

	err := row.Scan(
		&txn.ID,
		&txn.AccountID,
		&txn.FreelancerID,
		&txn.Reference,
		&amount,
		&fee,
		&net,
		&txn.CurrencyCode,
		&txn.CounterpartyID,
		&txn.MilestoneLabel,
		&status,
		&scheduled,
		&txn.ReleaseEligible,
		&trail,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.Amount = numericToDecimal(amount)
	txn.FeeAmount = numericToDecimal(fee)
	txn.NetAmount = numericToDecimal(net)
	txn.Status = domain.TransactionStatus(status)
	txn.ScheduledReleaseAt = pgTimestamptzToTimePtr(scheduled)

	if trail != nil {
		var records []auditEntryRecord
		if err := json.Unmarshal(trail, &records); err != nil {
			return nil, err
		}

		txn.AuditTrail = make([]domain.AuditEntry, 0, len(records))
		for _, rec := range records {
			txn.AuditTrail = append(txn.AuditTrail, domain.AuditEntry{Action: rec.Action, At: rec.At})
		}
	}

	return &txn, nil
}

func marshalAuditTrail(trail []domain.AuditEntry) ([]byte, error) {
	records := make([]auditEntryRecord, 0, len(trail))
	for _, e := range trail {
		records = append(records, auditEntryRecord{Action: e.Action, At: e.At})
	}

	return json.Marshal(records)
}
