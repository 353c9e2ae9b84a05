package postgres

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigvora/escrow/internal/domain"
	"github.com/gigvora/escrow/internal/usecase"
)

// ActivityRepository implements usecase.ActivityRepository.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

const activityColumns = `
	id, freelancer_id, action, resource_type, resource_id,
	transaction_id, detail, request_id, status, occurred_at
`

// Create inserts an activity entry outside any transaction.
func (r *ActivityRepository) Create(ctx context.Context, entry *domain.ActivityEntry) error {
	return insertActivity(ctx, r.pool, entry)
}

// CreateTx inserts an activity entry inside the caller's transaction so
// the log commits or rolls back with the mutation it records.
func (r *ActivityRepository) CreateTx(ctx context.Context, tx usecase.Transaction, entry *domain.ActivityEntry) error {
	return insertActivity(ctx, txQuerier(tx), entry)
}

func insertActivity(ctx context.Context, q querier, entry *domain.ActivityEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	var detail []byte
	if entry.Detail != nil {
		var err error
		detail, err = json.Marshal(entry.Detail)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO escrow_activity (` + activityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := q.Exec(ctx, query,
		entry.ID,
		entry.FreelancerID,
		entry.Action,
		entry.ResourceType,
		entry.ResourceID,
		entry.TransactionID,
		detail,
		entry.RequestID,
		entry.Status,
		timeToPgTimestamptz(entry.OccurredAt),
	)

	return err
}

// List retrieves activity entries newest first with optional filtering.
func (r *ActivityRepository) List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.ActivityEntry, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM escrow_activity
		WHERE freelancer_id = $1
	`
	args := []any{filter.FreelancerID}

	if filter.TransactionID != "" {
		args = append(args, filter.TransactionID)
		query += ` AND transaction_id = $2`
	}

	if filter.Action != "" {
		args = append(args, filter.Action)
		query += ` AND action = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY occurred_at DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.ActivityEntry, 0)
	for rows.Next() {
		entry, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanActivity(row pgx.Row) (*domain.ActivityEntry, error) {
	var (
		entry  domain.ActivityEntry
		detail []byte
	)

	err := row.Scan(
		&entry.ID,
		&entry.FreelancerID,
		&entry.Action,
		&entry.ResourceType,
		&entry.ResourceID,
		&entry.TransactionID,
		&detail,
		&entry.RequestID,
		&entry.Status,
		&entry.OccurredAt,
	)
	if err != nil {
		return nil, err
	}

	if detail != nil {
		_ = json.Unmarshal(detail, &entry.Detail)
	}

	return &entry, nil
}
