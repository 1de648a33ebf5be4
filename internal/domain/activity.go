package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActivityKind identifies the direction of a balance movement.
type ActivityKind string

const (
	ActivityDeposit    ActivityKind = "DEPOSIT"
	ActivityWithdrawal ActivityKind = "WITHDRAWAL"
)

// Valid reports whether the kind is one of the known activity kinds.
func (k ActivityKind) Valid() bool {
	return k == ActivityDeposit || k == ActivityWithdrawal
}

// Activity is one immutable ledger entry for an account. The id is a
// monotonic sequence assigned by the store and doubles as the commit-order
// sort key for mini-statements; OccurredAt is kept for display.
type Activity struct {
	ID         int64
	AccountID  int64
	Kind       ActivityKind
	Amount     decimal.Decimal
	Currency   string
	OccurredAt time.Time
	Remarks    string
}

// SignedAmount returns the delta the activity applies to the balance:
// positive for deposits, negative for withdrawals.
func (a *Activity) SignedAmount() decimal.Decimal {
	if a.Kind == ActivityWithdrawal {
		return a.Amount.Neg()
	}
	return a.Amount
}
