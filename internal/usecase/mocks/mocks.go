package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gigvora/escrow/internal/domain"
	"github.com/gigvora/escrow/internal/usecase"
)

// MockAccountRepository is an in-memory mock implementation of
// usecase.AccountRepository. Set the Func fields to override behavior.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	UpdateBalancesFunc   func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	ListByFreelancerFunc func(ctx context.Context, freelancerID string, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

// Seed stores an account directly, bypassing any Func overrides.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *account
	m.accounts[account.ID] = &copied
}

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.Seed(account)
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) Update(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, account)
	}
	m.Seed(account)
	return nil
}

func (m *MockAccountRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.UpdateBalancesFunc != nil {
		return m.UpdateBalancesFunc(ctx, tx, account)
	}
	m.Seed(account)
	return nil
}

func (m *MockAccountRepository) ListByFreelancer(ctx context.Context, freelancerID string, limit, offset int) ([]*domain.Account, error) {
	if m.ListByFreelancerFunc != nil {
		return m.ListByFreelancerFunc(ctx, freelancerID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0)
	for _, account := range m.accounts {
		if account.FreelancerID == freelancerID {
			copied := *account
			accounts = append(accounts, &copied)
		}
	}
	return accounts, nil
}

// MockTransactionRepository is an in-memory mock implementation of
// usecase.TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	ListByFreelancerFunc func(ctx context.Context, freelancerID string, status domain.TransactionStatus, limit, offset int) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{transactions: make(map[string]*domain.Transaction)}
}

// Seed stores a transaction directly, bypassing any Func overrides.
func (m *MockTransactionRepository) Seed(txn *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *txn
	copied.AuditTrail = append([]domain.AuditEntry(nil), txn.AuditTrail...)
	m.transactions[txn.ID] = &copied
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.Seed(txn)
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	txn, ok := m.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	copied := *txn
	copied.AuditTrail = append([]domain.AuditEntry(nil), txn.AuditTrail...)
	return &copied, nil
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, txn)
	}
	m.Seed(txn)
	return nil
}

func (m *MockTransactionRepository) ListByFreelancer(ctx context.Context, freelancerID string, status domain.TransactionStatus, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByFreelancerFunc != nil {
		return m.ListByFreelancerFunc(ctx, freelancerID, status, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	transactions := make([]*domain.Transaction, 0)
	for _, txn := range m.transactions {
		if txn.FreelancerID != freelancerID {
			continue
		}
		if status != "" && txn.Status != status {
			continue
		}
		copied := *txn
		copied.AuditTrail = append([]domain.AuditEntry(nil), txn.AuditTrail...)
		transactions = append(transactions, &copied)
	}
	return transactions, nil
}

// MockDisputeRepository is an in-memory mock implementation of
// usecase.DisputeRepository.
type MockDisputeRepository struct {
	mu       sync.RWMutex
	disputes map[string]*domain.Dispute

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, dispute *domain.Dispute) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Dispute, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Dispute, error)
	AppendEventFunc      func(ctx context.Context, tx usecase.Transaction, disputeID string, event domain.DisputeEvent) error
	ListByFreelancerFunc func(ctx context.Context, freelancerID string, limit, offset int) ([]*domain.Dispute, error)
}

func NewMockDisputeRepository() *MockDisputeRepository {
	return &MockDisputeRepository{disputes: make(map[string]*domain.Dispute)}
}

// Seed stores a dispute directly, bypassing any Func overrides.
func (m *MockDisputeRepository) Seed(dispute *domain.Dispute) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *dispute
	copied.Events = append([]domain.DisputeEvent(nil), dispute.Events...)
	m.disputes[dispute.ID] = &copied
}

func (m *MockDisputeRepository) Create(ctx context.Context, tx usecase.Transaction, dispute *domain.Dispute) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, dispute)
	}
	m.Seed(dispute)
	return nil
}

func (m *MockDisputeRepository) GetByID(ctx context.Context, id string) (*domain.Dispute, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	dispute, ok := m.disputes[id]
	if !ok {
		return nil, domain.ErrDisputeNotFound
	}
	copied := *dispute
	copied.Events = append([]domain.DisputeEvent(nil), dispute.Events...)
	return &copied, nil
}

func (m *MockDisputeRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Dispute, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockDisputeRepository) AppendEvent(ctx context.Context, tx usecase.Transaction, disputeID string, event domain.DisputeEvent) error {
	if m.AppendEventFunc != nil {
		return m.AppendEventFunc(ctx, tx, disputeID, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	dispute, ok := m.disputes[disputeID]
	if !ok {
		return domain.ErrDisputeNotFound
	}
	dispute.Events = append(dispute.Events, event)
	return nil
}

func (m *MockDisputeRepository) ListByFreelancer(ctx context.Context, freelancerID string, limit, offset int) ([]*domain.Dispute, error) {
	if m.ListByFreelancerFunc != nil {
		return m.ListByFreelancerFunc(ctx, freelancerID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	disputes := make([]*domain.Dispute, 0)
	for _, dispute := range m.disputes {
		if dispute.FreelancerID == freelancerID {
			copied := *dispute
			copied.Events = append([]domain.DisputeEvent(nil), dispute.Events...)
			disputes = append(disputes, &copied)
		}
	}
	return disputes, nil
}

// MockActivityRepository is an in-memory mock implementation of
// usecase.ActivityRepository. Entries are returned newest first,
// matching the repository contract.
type MockActivityRepository struct {
	mu      sync.RWMutex
	entries []*domain.ActivityEntry

	CreateFunc   func(ctx context.Context, entry *domain.ActivityEntry) error
	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, entry *domain.ActivityEntry) error
	ListFunc     func(ctx context.Context, filter domain.ActivityFilter) ([]*domain.ActivityEntry, error)
}

func NewMockActivityRepository() *MockActivityRepository {
	return &MockActivityRepository{}
}

func (m *MockActivityRepository) Create(ctx context.Context, entry *domain.ActivityEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockActivityRepository) CreateTx(ctx context.Context, tx usecase.Transaction, entry *domain.ActivityEntry) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, entry)
	}
	return m.Create(ctx, entry)
}

func (m *MockActivityRepository) List(ctx context.Context, filter domain.ActivityFilter) ([]*domain.ActivityEntry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]*domain.ActivityEntry, 0)
	for i := len(m.entries) - 1; i >= 0; i-- {
		entry := m.entries[i]
		if filter.FreelancerID != "" && entry.FreelancerID != filter.FreelancerID {
			continue
		}
		if filter.TransactionID != "" && entry.TransactionID != filter.TransactionID {
			continue
		}
		if filter.Action != "" && entry.Action != filter.Action {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Entries returns a copy of everything recorded so far, oldest first.
func (m *MockActivityRepository) Entries() []*domain.ActivityEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.ActivityEntry(nil), m.entries...)
}

// MockOutboxRepository is an in-memory mock implementation of
// usecase.OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	events := make([]*domain.OutboxEvent, 0)
	for _, event := range m.events {
		if event.Published {
			continue
		}
		events = append(events, event)
		if len(events) >= limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, event := range m.events {
		if event.ID == id {
			event.Published = true
			event.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, event := range m.events {
		if !event.Published || event.PublishedAt == nil || !event.PublishedAt.Before(before) {
			kept = append(kept, event)
		}
	}
	m.events = kept
	return nil
}

// Events returns a copy of all recorded outbox events.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

// MockTransactionManager is a mock implementation of usecase.TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of usecase.Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	mu         sync.Mutex
	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockIDGenerator is a mock implementation of usecase.IDGenerator that
// returns sequential ids.
type MockIDGenerator struct {
	GenerateFunc func() string

	mu      sync.Mutex
	counter int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%03d", m.counter)
}

// MockCache is an in-memory mock implementation of usecase.Cache. TTLs
// are honored on Get.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]cacheEntry

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string]cacheEntry)}
}

var errCacheMiss = fmt.Errorf("cache miss")

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.values[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return "", errCacheMiss
	}
	return entry.value, nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = cacheEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// MockIdempotencyStore is an in-memory mock implementation of
// usecase.IdempotencyStore.
type MockIdempotencyStore struct {
	mu     sync.Mutex
	values map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, placeholder []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{values: make(map[string][]byte)}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, placeholder []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, placeholder, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.values[key]; ok {
		return true, existing, nil
	}
	m.values[key] = placeholder
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = response
	return nil
}
