package usecase

import "time"

const (
	// DefaultStatementLimit is the number of activities returned when the
	// caller does not request an explicit limit.
	DefaultStatementLimit = 10

	// MaxStatementLimit caps a single mini-statement query.
	MaxStatementLimit = 100

	// BalanceCacheTTL is how long cached balance views are served. Reads may
	// observe a balance that is immediately stale; writes always re-read
	// under the store lock.
	BalanceCacheTTL = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// OpeningDepositRemarks annotates the synthetic deposit written at
	// account creation.
	OpeningDepositRemarks = "account opening deposit"
)
