package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidHolderName    = errors.New("invalid holder name")
	ErrInvalidAddress       = errors.New("invalid address")
	ErrInvalidCurrency      = errors.New("invalid currency code")
	ErrInvalidAccountType   = errors.New("invalid account type")
	ErrInvalidDateOfBirth   = errors.New("invalid date of birth")
	ErrAmountTooLarge       = errors.New("amount exceeds maximum allowed")
	ErrInvalidNumberPattern = errors.New("invalid account number format")
)

// Validation constants
const (
	MaxHolderNameLength  = 255
	MaxTransactionAmount = "1000000000000" // 1 trillion
)

// Account types supported at account opening.
var validAccountTypes = map[string]bool{
	"SAVINGS": true,
	"CURRENT": true,
}

// Valid currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
	"ZAR": true, "DKK": true, "TRY": true, "HKD": true,
}

var accountNumberPattern = regexp.MustCompile(`^[0-9A-Z]{16}$`)

// ValidateHolderName validates the account holder name.
func ValidateHolderName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidHolderName)
	}

	if len(name) > MaxHolderNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidHolderName, MaxHolderNameLength)
	}

	return nil
}

// ValidateAddress validates the account holder address.
func ValidateAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("%w: address cannot be empty", ErrInvalidAddress)
	}

	return nil
}

// ValidateCurrency validates a currency code.
func ValidateCurrency(currency string) error {
	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %q is not a supported ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateAccountType validates the account type.
func ValidateAccountType(accountType string) error {
	if !validAccountTypes[accountType] {
		return fmt.Errorf("%w: %q", ErrInvalidAccountType, accountType)
	}

	return nil
}

// ValidateDateOfBirth rejects zero and future dates.
func ValidateDateOfBirth(dob time.Time) error {
	if dob.IsZero() {
		return fmt.Errorf("%w: date of birth cannot be empty", ErrInvalidDateOfBirth)
	}

	if dob.After(time.Now()) {
		return fmt.Errorf("%w: date of birth cannot be in the future", ErrInvalidDateOfBirth)
	}

	return nil
}

// ValidateAmount validates a transaction amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxTransactionAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxTransactionAmount)
	}

	return nil
}

// ValidateAccountNumberPattern checks the shape of an account number
// (16 uppercase alphanumerics) before it reaches the ledger engine.
func ValidateAccountNumberPattern(number string) error {
	if !accountNumberPattern.MatchString(number) {
		return fmt.Errorf("%w: %q", ErrInvalidNumberPattern, number)
	}

	return nil
}
