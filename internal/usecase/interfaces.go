package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/accountsvc/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	// CreateTx persists a new account inside tx, assigning its id.
	CreateTx(ctx context.Context, tx Transaction, account *domain.Account) (*domain.Account, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	// GetByIDForUpdate loads an account with an exclusive per-account lock
	// held until tx commits or rolls back.
	GetByIDForUpdate(ctx context.Context, tx Transaction, id int64) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id int64, balance decimal.Decimal, updatedAt time.Time) error
}

// ActivityRepository defines data access for the append-only activity ledger.
type ActivityRepository interface {
	// Create appends an activity inside tx, assigning its monotonic id.
	Create(ctx context.Context, tx Transaction, activity *domain.Activity) (*domain.Activity, error)
	// ListRecentByAccount returns at most limit activities for the account,
	// most recent first (descending activity id).
	ListRecentByAccount(ctx context.Context, accountID int64, limit int) ([]*domain.Activity, error)
}

// LedgerRepository defines ledger-wide reconciliation queries.
type LedgerRepository interface {
	// ListUnreconciled returns ids of accounts whose balance does not equal
	// the sum of signed activity amounts.
	ListUnreconciled(ctx context.Context) ([]int64, error)
}

// Transaction represents a storage transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage contention.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
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
