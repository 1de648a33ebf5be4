package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/accountsvc/internal/domain"
	"github.com/iho/accountsvc/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository on the in-memory
// store.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// CreateTx stages a new account in tx. The id is taken from the store's
// monotonic sequence immediately so the caller can derive the account number;
// ids consumed by rolled-back transactions are never reused.
func (r *AccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) (*domain.Account, error) {
	memTx := tx.(*Tx)

	stored := *account
	stored.ID = r.store.accountSeq.Add(1)
	memTx.stageAccount(&stored)

	copied := stored

	return &copied, nil
}

// GetByID retrieves a committed account by id.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	account, ok := r.store.getAccount(id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return account, nil
}

// GetByIDForUpdate retrieves an account holding its exclusive lock until tx
// ends. Lock acquisition is bounded by the store's lock timeout.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Account, error) {
	memTx := tx.(*Tx)

	if err := r.store.acquire(ctx, id); err != nil {
		return nil, err
	}

	memTx.holdLock(id)

	account, ok := r.store.getAccount(id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	return account, nil
}

// UpdateBalance stages a balance update in tx.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id int64, balance decimal.Decimal, updatedAt time.Time) error {
	memTx := tx.(*Tx)

	memTx.stageBalance(&domain.Account{ID: id, Balance: balance, UpdatedAt: updatedAt})

	return nil
}
