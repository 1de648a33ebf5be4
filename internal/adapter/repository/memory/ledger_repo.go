package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// LedgerRepository implements usecase.LedgerRepository on the in-memory
// store.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// ListUnreconciled returns ids of accounts whose balance does not equal the
// signed sum of their committed activities.
func (r *LedgerRepository) ListUnreconciled(ctx context.Context) ([]int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var ids []int64

	for id, account := range r.store.accounts {
		total := decimal.Zero
		for _, activity := range r.store.activities[id] {
			total = total.Add(activity.SignedAmount())
		}

		if !account.Balance.Equal(total) {
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids, nil
}
