package usecase

import (
	"context"

	"github.com/iho/accountsvc/internal/infrastructure/metrics"
)

// ReconciliationUseCase verifies the ledger reconciliation invariant: every
// account's balance equals the sum of signed activity amounts recorded for it.
type ReconciliationUseCase struct {
	ledgerRepo LedgerRepository
	metrics    *metrics.Metrics
}

// NewReconciliationUseCase creates a new ReconciliationUseCase. metrics may
// be nil to disable instrumentation.
func NewReconciliationUseCase(ledgerRepo LedgerRepository, metrics *metrics.Metrics) *ReconciliationUseCase {
	return &ReconciliationUseCase{ledgerRepo: ledgerRepo, metrics: metrics}
}

// CheckConsistency returns whether the ledger reconciles, and the ids of any
// accounts whose balance diverges from their activity history.
func (uc *ReconciliationUseCase) CheckConsistency(ctx context.Context) (bool, []int64, error) {
	mismatched, err := uc.ledgerRepo.ListUnreconciled(ctx)
	if err != nil {
		return false, nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ConsistencyChecks.Inc()
		uc.metrics.ConsistencyMismatches.Set(float64(len(mismatched)))
	}

	return len(mismatched) == 0, mismatched, nil
}
