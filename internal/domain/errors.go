package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound      = errors.New("account not found")
	ErrInsufficientFunds    = errors.New("insufficient funds available")
	ErrOpeningBalanceTooLow = errors.New("opening balance below required minimum")

	// Activity errors
	ErrInvalidActivityKind = errors.New("activity kind must be DEPOSIT or WITHDRAWAL")
	ErrInvalidAmount       = errors.New("amount must be positive")

	// Storage errors
	ErrStorageContention = errors.New("storage contention, operation may be retried")
)
