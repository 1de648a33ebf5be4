// Package mocks provides hand-rolled fakes for the usecase interfaces.
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/accountsvc/internal/domain"
	"github.com/iho/accountsvc/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	nextID   int64
	accounts map[int64]*domain.Account

	CreateTxFunc         func(ctx context.Context, tx usecase.Transaction, account *domain.Account) (*domain.Account, error)
	GetByIDFunc          func(ctx context.Context, id int64) (*domain.Account, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Account, error)
	UpdateBalanceFunc    func(ctx context.Context, tx usecase.Transaction, id int64, balance decimal.Decimal, updatedAt time.Time) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[int64]*domain.Account),
	}
}

func (m *MockAccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) (*domain.Account, error) {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	stored := *account
	stored.ID = m.nextID
	m.accounts[stored.ID] = &stored
	return &stored, nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		copied := *acc
		return &copied, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id int64, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Balance = balance
	acc.UpdatedAt = updatedAt
	return nil
}

// Seed inserts an account directly, assigning the next id.
func (m *MockAccountRepository) Seed(account *domain.Account) *domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	stored := *account
	stored.ID = m.nextID
	m.accounts[stored.ID] = &stored
	copied := stored
	return &copied
}

// MockActivityRepository is a mock implementation of ActivityRepository.
type MockActivityRepository struct {
	mu         sync.RWMutex
	nextID     int64
	activities map[int64][]*domain.Activity

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, activity *domain.Activity) (*domain.Activity, error)
	ListRecentByAccountFunc func(ctx context.Context, accountID int64, limit int) ([]*domain.Activity, error)
}

func NewMockActivityRepository() *MockActivityRepository {
	return &MockActivityRepository{
		activities: make(map[int64][]*domain.Activity),
	}
}

func (m *MockActivityRepository) Create(ctx context.Context, tx usecase.Transaction, activity *domain.Activity) (*domain.Activity, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, activity)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	stored := *activity
	stored.ID = m.nextID
	m.activities[stored.AccountID] = append(m.activities[stored.AccountID], &stored)
	copied := stored
	return &copied, nil
}

func (m *MockActivityRepository) ListRecentByAccount(ctx context.Context, accountID int64, limit int) ([]*domain.Activity, error) {
	if m.ListRecentByAccountFunc != nil {
		return m.ListRecentByAccountFunc(ctx, accountID, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.activities[accountID]
	var recent []*domain.Activity
	for i := len(all) - 1; i >= 0 && len(recent) < limit; i-- {
		copied := *all[i]
		recent = append(recent, &copied)
	}
	return recent, nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	ListUnreconciledFunc func(ctx context.Context) ([]int64, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) ListUnreconciled(ctx context.Context) ([]int64, error) {
	if m.ListUnreconciledFunc != nil {
		return m.ListUnreconciledFunc(ctx)
	}
	return nil, nil
}

// MockTransaction is a no-op Transaction recording commit/rollback calls.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu   sync.Mutex
	Txs  []*MockTransaction
	Fail error

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	if m.Fail != nil {
		return nil, m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Txs = append(m.Txs, tx)
	return tx, nil
}

// PassRetrier runs the operation exactly once.
type PassRetrier struct{}

func (PassRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu      sync.RWMutex
	entries map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{entries: make(map[string][]byte)}
}

func (c *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.GetFunc != nil {
		return c.GetFunc(ctx, key)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[key], nil
}

func (c *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.SetFunc != nil {
		return c.SetFunc(ctx, key, value, ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *MockCache) Delete(ctx context.Context, key string) error {
	if c.DeleteFunc != nil {
		return c.DeleteFunc(ctx, key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// MockIdempotencyStore is an in-memory IdempotencyStore.
type MockIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{entries: make(map[string][]byte)}
}

func (s *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.entries[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		s.entries[key] = response
	} else {
		s.entries[key] = []byte("processing")
	}
	return false, nil, nil
}

func (s *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = response
	return nil
}
