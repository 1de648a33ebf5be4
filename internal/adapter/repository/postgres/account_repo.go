package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/accountsvc/internal/domain"
	"github.com/iho/accountsvc/internal/usecase"
)

const accountColumns = `id, holder_name, date_of_birth, holder_address, account_type, balance, currency, created_at, updated_at`

const createAccountSQL = `
INSERT INTO accounts (holder_name, date_of_birth, holder_address, account_type, balance, currency, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + accountColumns

const getAccountSQL = `
SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

const getAccountForUpdateSQL = getAccountSQL + ` FOR UPDATE`

const updateAccountBalanceSQL = `
UPDATE accounts SET balance = $2, updated_at = $3 WHERE id = $1`

// AccountRepository implements usecase.AccountRepository on Postgres.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// CreateTx persists a new account inside tx. The id comes from the table's
// identity sequence: monotonic, never reused.
func (r *AccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, createAccountSQL,
		account.HolderName,
		dateToPgDate(account.DateOfBirth),
		account.HolderAddress,
		account.AccountType,
		decimalToNumeric(account.Balance),
		account.Currency,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)

	return scanAccount(row)
}

// GetByID retrieves an account by id.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx, getAccountSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

// GetByIDForUpdate retrieves an account with a FOR UPDATE row lock held for
// the remainder of tx. Concurrent writers against the same account serialize
// here; lock acquisition is bounded by the transaction's lock_timeout.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	account, err := scanAccount(pgxTx.QueryRow(ctx, getAccountForUpdateSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

// UpdateBalance updates the balance of an account inside tx.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id int64, balance decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, updateAccountBalanceSQL, id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))

	return err
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account   domain.Account
		dob       pgtype.Date
		balance   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&account.ID,
		&account.HolderName,
		&dob,
		&account.HolderAddress,
		&account.AccountType,
		&balance,
		&account.Currency,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	account.DateOfBirth = dob.Time
	account.Balance = numericToDecimal(balance)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func dateToPgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: true}
}
