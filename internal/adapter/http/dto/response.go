package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/accountsvc/internal/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	AccountNumber string          `json:"account_number"`
	HolderName    string          `json:"holder_name"`
	AccountType   string          `json:"account_type"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		AccountNumber: a.Number(),
		HolderName:    a.HolderName,
		AccountType:   a.AccountType,
		Balance:       a.Balance,
		Currency:      a.Currency,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// BalanceResponse is the slim view served by the balance endpoint.
type BalanceResponse struct {
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
}

// BalanceFromDomain converts domain account to a balance view.
func BalanceFromDomain(a *domain.Account) *BalanceResponse {
	return &BalanceResponse{
		AccountNumber: a.Number(),
		Balance:       a.Balance,
		Currency:      a.Currency,
	}
}

// ActivityResponse represents one statement line in API responses.
type ActivityResponse struct {
	Kind       string          `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Remarks    string          `json:"remarks,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ActivityFromDomain converts domain activity to response.
func ActivityFromDomain(a *domain.Activity) *ActivityResponse {
	return &ActivityResponse{
		Kind:       string(a.Kind),
		Amount:     a.Amount,
		Currency:   a.Currency,
		Remarks:    a.Remarks,
		OccurredAt: a.OccurredAt,
	}
}

// ActivitiesFromDomain converts domain activities to responses.
func ActivitiesFromDomain(activities []*domain.Activity) []*ActivityResponse {
	result := make([]*ActivityResponse, len(activities))
	for i, a := range activities {
		result[i] = ActivityFromDomain(a)
	}
	return result
}

// StatementResponse represents a mini statement in API responses.
type StatementResponse struct {
	AccountNumber string              `json:"account_number"`
	Activities    []*ActivityResponse `json:"activities"`
}

// ConsistencyResponse represents the result of a ledger consistency check.
type ConsistencyResponse struct {
	Consistent         bool     `json:"consistent"`
	MismatchedAccounts []string `json:"mismatched_accounts,omitempty"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
