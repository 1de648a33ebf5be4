package memory

import (
	"context"
	"sync"

	"github.com/iho/accountsvc/internal/domain"
	"github.com/iho/accountsvc/internal/usecase"
)

// TxManager implements usecase.TransactionManager for the in-memory store.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	return &Tx{store: m.store}, nil
}

type balanceUpdate struct {
	account *domain.Account
}

// Tx stages writes and applies them to committed state atomically on Commit.
// Per-account locks taken through GetByIDForUpdate are held until Commit or
// Rollback, which serializes the read-check-write sequence per account.
type Tx struct {
	mu   sync.Mutex
	done bool

	store          *Store
	held           []int64
	stagedAccounts []*domain.Account
	stagedBalances map[int64]balanceUpdate
	stagedActivity []*domain.Activity
}

func (t *Tx) holdLock(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.held = append(t.held, id)
}

func (t *Tx) stageAccount(account *domain.Account) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stagedAccounts = append(t.stagedAccounts, account)
}

func (t *Tx) stageBalance(account *domain.Account) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stagedBalances == nil {
		t.stagedBalances = make(map[int64]balanceUpdate)
	}
	t.stagedBalances[account.ID] = balanceUpdate{account: account}
}

func (t *Tx) stageActivity(activity *domain.Activity) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stagedActivity = append(t.stagedActivity, activity)
}

// Commit applies all staged writes under the store write lock and releases
// held account locks. All staged writes become visible together.
func (t *Tx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil
	}
	t.done = true

	t.store.mu.Lock()
	for _, account := range t.stagedAccounts {
		copied := *account
		t.store.accounts[copied.ID] = &copied
	}
	for id, update := range t.stagedBalances {
		if existing, ok := t.store.accounts[id]; ok {
			existing.Balance = update.account.Balance
			existing.UpdatedAt = update.account.UpdatedAt
		}
	}
	for _, activity := range t.stagedActivity {
		copied := *activity
		t.store.activities[copied.AccountID] = append(t.store.activities[copied.AccountID], &copied)
	}
	t.store.mu.Unlock()

	t.releaseHeld()

	return nil
}

// Rollback discards staged writes and releases held account locks.
func (t *Tx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return nil
	}
	t.done = true

	t.stagedAccounts = nil
	t.stagedBalances = nil
	t.stagedActivity = nil

	t.releaseHeld()

	return nil
}

func (t *Tx) releaseHeld() {
	for _, id := range t.held {
		t.store.release(id)
	}
	t.held = nil
}
