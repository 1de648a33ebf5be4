package memory

import (
	"context"

	"github.com/iho/accountsvc/internal/domain"
	"github.com/iho/accountsvc/internal/usecase"
)

// ActivityRepository implements usecase.ActivityRepository on the in-memory
// store.
type ActivityRepository struct {
	store *Store
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(store *Store) *ActivityRepository {
	return &ActivityRepository{store: store}
}

// Create stages an activity in tx with the next monotonic id. Per account,
// id order equals commit order because the account lock is held while the
// id is drawn.
func (r *ActivityRepository) Create(ctx context.Context, tx usecase.Transaction, activity *domain.Activity) (*domain.Activity, error) {
	memTx := tx.(*Tx)

	stored := *activity
	stored.ID = r.store.activitySeq.Add(1)
	memTx.stageActivity(&stored)

	copied := stored

	return &copied, nil
}

// ListRecentByAccount returns at most limit committed activities, most
// recent first.
func (r *ActivityRepository) ListRecentByAccount(ctx context.Context, accountID int64, limit int) ([]*domain.Activity, error) {
	return r.store.listRecent(accountID, limit), nil
}
