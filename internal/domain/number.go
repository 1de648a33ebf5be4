package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Account number format: a literal prefix followed by the internal id as a
// zero-padded decimal, 16 characters in total. The format is a persisted
// contract; changing the prefix or width breaks existing account numbers.
const (
	AccountNumberPrefix = "DANSKE"
	AccountNumberLength = 16
)

var accountNumberDigits = AccountNumberLength - len(AccountNumberPrefix)

// FormatAccountNumber derives the public account number from an internal id.
func FormatAccountNumber(id int64) string {
	return AccountNumberPrefix + fmt.Sprintf("%0*d", accountNumberDigits, id)
}

// ParseAccountNumber recovers the internal id from a public account number.
// Malformed input resolves to no account and fails with ErrAccountNotFound
// rather than a distinct parse error.
func ParseAccountNumber(number string) (int64, error) {
	if len(number) != AccountNumberLength || !strings.HasPrefix(number, AccountNumberPrefix) {
		return 0, fmt.Errorf("%w: malformed account number %q", ErrAccountNotFound, number)
	}

	id, err := strconv.ParseInt(number[len(AccountNumberPrefix):], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: malformed account number %q", ErrAccountNotFound, number)
	}

	return id, nil
}
