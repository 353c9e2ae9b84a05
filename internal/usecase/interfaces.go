package usecase

import (
	"context"
	"time"

	"github.com/gigvora/escrow/internal/domain"
)

// AccountRepository defines data access for escrow accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	Update(ctx context.Context, tx Transaction, account *domain.Account) error
	UpdateBalances(ctx context.Context, tx Transaction, account *domain.Account) error
	ListByFreelancer(ctx context.Context, freelancerID string, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for escrow transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	Update(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	ListByFreelancer(ctx context.Context, freelancerID string, status domain.TransactionStatus, limit, offset int) ([]*domain.Transaction, error)
}

// DisputeRepository defines data access for disputes and their timelines.
type DisputeRepository interface {
	Create(ctx context.Context, tx Transaction, dispute *domain.Dispute) error
	GetByID(ctx context.Context, id string) (*domain.Dispute, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Dispute, error)
	AppendEvent(ctx context.Context, tx Transaction, disputeID string, event domain.DisputeEvent) error
	ListByFreelancer(ctx context.Context, freelancerID string, limit, offset int) ([]*domain.Dispute, error)
}

// ActivityRepository defines data access for the escrow activity log.
type ActivityRepository interface {
	Create(ctx context.Context, entry *domain.ActivityEntry) error
	CreateTx(ctx context.Context, tx Transaction, entry *domain.ActivityEntry) error
	List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.ActivityEntry, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for overview snapshots.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
