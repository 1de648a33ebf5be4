// Package memory provides an in-process Ledger Store used by tests and
// single-node tooling. It keeps the same contract as the Postgres store:
// per-account serialization of the read-check-write sequence, bounded lock
// acquisition, and atomic commit of balance update plus activity append.
package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iho/accountsvc/internal/domain"
)

// Store holds all committed state. Mutations reach committed state only
// through a transaction's Commit.
type Store struct {
	mu          sync.RWMutex
	accounts    map[int64]*domain.Account
	activities  map[int64][]*domain.Activity
	accountSeq  atomic.Int64
	activitySeq atomic.Int64

	locksMu     sync.Mutex
	locks       map[int64]chan struct{}
	lockTimeout time.Duration
}

// NewStore creates an empty store. lockTimeout bounds per-account lock
// acquisition; an expired wait surfaces as domain.ErrStorageContention.
func NewStore(lockTimeout time.Duration) *Store {
	return &Store{
		accounts:    make(map[int64]*domain.Account),
		activities:  make(map[int64][]*domain.Activity),
		locks:       make(map[int64]chan struct{}),
		lockTimeout: lockTimeout,
	}
}

func (s *Store) lockCh(id int64) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}

	return ch
}

// acquire takes the exclusive per-account lock, waiting at most lockTimeout.
func (s *Store) acquire(ctx context.Context, id int64) error {
	select {
	case s.lockCh(id) <- struct{}{}:
		return nil
	case <-time.After(s.lockTimeout):
		return fmt.Errorf("%w: account %d lock wait exceeded %s", domain.ErrStorageContention, id, s.lockTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release(id int64) {
	<-s.lockCh(id)
}

func (s *Store) getAccount(id int64) (*domain.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, false
	}

	copied := *account

	return &copied, true
}

func (s *Store) listRecent(accountID int64, limit int) []*domain.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.activities[accountID]

	recent := make([]*domain.Activity, 0, limit)
	for i := len(all) - 1; i >= 0 && len(recent) < limit; i-- {
		copied := *all[i]
		recent = append(recent, &copied)
	}

	return recent
}
