package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigvora/escrow/internal/domain"
	"github.com/gigvora/escrow/internal/usecase"
)

// DisputeRepository implements usecase.DisputeRepository. Timeline events
// live in their own table; they are inserted, never updated or deleted.
type DisputeRepository struct {
	pool *pgxpool.Pool
}

// NewDisputeRepository creates a new DisputeRepository.
func NewDisputeRepository(pool *pgxpool.Pool) *DisputeRepository {
	return &DisputeRepository{pool: pool}
}

const disputeColumns = `
	id, transaction_id, freelancer_id, reason_code, priority,
	stage, status, summary, opened_at, updated_at
`

// Create inserts a dispute and its seed timeline events.
func (r *DisputeRepository) Create(ctx context.Context, tx usecase.Transaction, dispute *domain.Dispute) error {
	query := `
		INSERT INTO disputes (` + disputeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	q := txQuerier(tx)

	_, err := q.Exec(ctx, query,
		dispute.ID,
		dispute.TransactionID,
		dispute.FreelancerID,
		string(dispute.ReasonCode),
		string(dispute.Priority),
		dispute.Stage,
		dispute.Status,
		dispute.Summary,
		timeToPgTimestamptz(dispute.OpenedAt),
		timeToPgTimestamptz(dispute.UpdatedAt),
	)
	if err != nil {
		return err
	}

	for _, event := range dispute.Events {
		if err := insertDisputeEvent(ctx, q, dispute.ID, event); err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a dispute with its full timeline.
func (r *DisputeRepository) GetByID(ctx context.Context, id string) (*domain.Dispute, error) {
	return r.getByID(ctx, r.pool, id, false)
}

// GetByIDForUpdate retrieves a dispute by ID with a FOR UPDATE lock.
func (r *DisputeRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Dispute, error) {
	return r.getByID(ctx, txQuerier(tx), id, true)
}

func (r *DisputeRepository) getByID(ctx context.Context, q querier, id string, forUpdate bool) (*domain.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	dispute, err := scanDispute(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDisputeNotFound
		}

		return nil, err
	}

	events, err := r.loadEvents(ctx, q, []string{dispute.ID})
	if err != nil {
		return nil, err
	}

	dispute.Events = events[dispute.ID]

	return dispute, nil
}

// AppendEvent adds one event to a dispute's timeline and bumps updated_at.
func (r *DisputeRepository) AppendEvent(ctx context.Context, tx usecase.Transaction, disputeID string, event domain.DisputeEvent) error {
	q := txQuerier(tx)

	if err := insertDisputeEvent(ctx, q, disputeID, event); err != nil {
		return err
	}

	_, err := q.Exec(ctx,
		`UPDATE disputes SET updated_at = $2 WHERE id = $1`,
		disputeID, timeToPgTimestamptz(event.EventAt),
	)

	return err
}

// ListByFreelancer lists a freelancer's disputes, newest first, with
// timelines attached.
func (r *DisputeRepository) ListByFreelancer(ctx context.Context, freelancerID string, limit, offset int) ([]*domain.Dispute, error) {
	query := `
		SELECT ` + disputeColumns + `
		FROM disputes
		WHERE freelancer_id = $1
		ORDER BY opened_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, freelancerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	disputes := make([]*domain.Dispute, 0)
	ids := make([]string, 0)
	for rows.Next() {
		dispute, err := scanDispute(rows)
		if err != nil {
			return nil, err
		}

		disputes = append(disputes, dispute)
		ids = append(ids, dispute.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return disputes, nil
	}

	events, err := r.loadEvents(ctx, r.pool, ids)
	if err != nil {
		return nil, err
	}

	for _, dispute := range disputes {
		dispute.Events = events[dispute.ID]
	}

	return disputes, nil
}

func (r *DisputeRepository) loadEvents(ctx context.Context, q querier, disputeIDs []string) (map[string][]domain.DisputeEvent, error) {
	query := `
		SELECT id, dispute_id, actor_type, notes, event_at
		FROM dispute_events
		WHERE dispute_id = ANY($1)
		ORDER BY event_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, disputeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make(map[string][]domain.DisputeEvent)
	for rows.Next() {
		var (
			event     domain.DisputeEvent
			disputeID string
		)

		if err := rows.Scan(&event.ID, &disputeID, &event.ActorType, &event.Notes, &event.EventAt); err != nil {
			return nil, err
		}

		events[disputeID] = append(events[disputeID], event)
	}

	return events, rows.Err()
}

func insertDisputeEvent(ctx context.Context, q querier, disputeID string, event domain.DisputeEvent) error {
	_, err := q.Exec(ctx,
		`INSERT INTO dispute_events (id, dispute_id, actor_type, notes, event_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		event.ID,
		disputeID,
		event.ActorType,
		event.Notes,
		timeToPgTimestamptz(event.EventAt),
	)

	return err
}

func scanDispute(row pgx.Row) (*domain.Dispute, error) {
	var (
		dispute          domain.Dispute
		reason, priority string
	)

	err := row.Scan(
		&dispute.ID,
		&dispute.TransactionID,
		&dispute.FreelancerID,
		&reason,
		&priority,
		&dispute.Stage,
		&dispute.Status,
		&dispute.Summary,
		&dispute.OpenedAt,
		&dispute.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	dispute.ReasonCode = domain.ReasonCode(reason)
	dispute.Priority = domain.DisputePriority(priority)

	return &dispute, nil
}
