package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/accountsvc/internal/domain"
	"github.com/iho/accountsvc/internal/usecase"
)

const dateOfBirthLayout = "2006-01-02"

// OpenAccountRequest represents a request to open a bank account.
type OpenAccountRequest struct {
	HolderName    string          `json:"holder_name"`
	DateOfBirth   string          `json:"date_of_birth"`
	HolderAddress string          `json:"holder_address"`
	AccountType   string          `json:"account_type"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	Currency      string          `json:"currency"`
}

// ToUseCaseInput converts to use case input. The date of birth is accepted in
// YYYY-MM-DD form.
func (r *OpenAccountRequest) ToUseCaseInput() (usecase.OpenAccountInput, error) {
	dob, err := time.Parse(dateOfBirthLayout, r.DateOfBirth)
	if err != nil {
		return usecase.OpenAccountInput{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", domain.ErrInvalidDateOfBirth, r.DateOfBirth)
	}

	return usecase.OpenAccountInput{
		HolderName:    r.HolderName,
		DateOfBirth:   dob,
		HolderAddress: r.HolderAddress,
		AccountType:   r.AccountType,
		OpeningAmount: r.OpeningAmount,
		Currency:      r.Currency,
	}, nil
}

// TransactionRequest represents a deposit or withdrawal request.
type TransactionRequest struct {
	AccountNumber string          `json:"account_number"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Remarks       string          `json:"remarks,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *TransactionRequest) ToUseCaseInput() usecase.ApplyTransactionInput {
	return usecase.ApplyTransactionInput{
		AccountNumber: r.AccountNumber,
		Kind:          domain.ActivityKind(r.Kind),
		Amount:        r.Amount,
		Currency:      r.Currency,
		Remarks:       r.Remarks,
	}
}
