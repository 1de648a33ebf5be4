package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a bank account holding a balance in a single currency.
type Account struct {
	ID            int64
	HolderName    string
	DateOfBirth   time.Time
	HolderAddress string
	AccountType   string
	Balance       decimal.Decimal
	Currency      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Number returns the public account number derived from the internal id.
func (a *Account) Number() string {
	return FormatAccountNumber(a.ID)
}

// HasSufficientFunds reports whether the balance covers a withdrawal of amount.
func (a *Account) HasSufficientFunds(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// ApplyDeposit returns the balance after a deposit of amount.
func (a *Account) ApplyDeposit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// ApplyWithdrawal returns the balance after a withdrawal of amount.
func (a *Account) ApplyWithdrawal(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// NewActivity builds an unsaved ledger activity owned by this account.
// The activity records the currency supplied with the transaction, not the
// account's own currency.
func (a *Account) NewActivity(kind ActivityKind, amount decimal.Decimal, currency, remarks string, occurredAt time.Time) *Activity {
	return &Activity{
		AccountID:  a.ID,
		Kind:       kind,
		Amount:     amount,
		Currency:   currency,
		OccurredAt: occurredAt,
		Remarks:    remarks,
	}
}
