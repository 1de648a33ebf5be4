package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iho/accountsvc/internal/domain"
	"github.com/iho/accountsvc/internal/infrastructure/metrics"
)

// LedgerUseCase is the account ledger engine. It mutates balances and appends
// activity records as one atomic unit through the underlying store, which
// serializes concurrent operations per account.
type LedgerUseCase struct {
	txManager         TransactionManager
	accountRepo       AccountRepository
	activityRepo      ActivityRepository
	retrier           Retrier
	cache             Cache // optional, may be nil
	minOpeningBalance decimal.Decimal
	statementLimit    int
	metrics           *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase. cache and metrics may be nil
// to disable balance-view caching and instrumentation. statementLimit is the
// statement size used when the caller does not ask for one; values below 1
// fall back to DefaultStatementLimit.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	activityRepo ActivityRepository,
	retrier Retrier,
	cache Cache,
	minOpeningBalance decimal.Decimal,
	statementLimit int,
	metrics *metrics.Metrics,
) *LedgerUseCase {
	if statementLimit <= 0 {
		statementLimit = DefaultStatementLimit
	}

	return &LedgerUseCase{
		txManager:         txManager,
		accountRepo:       accountRepo,
		activityRepo:      activityRepo,
		retrier:           retrier,
		cache:             cache,
		minOpeningBalance: minOpeningBalance,
		statementLimit:    statementLimit,
		metrics:           metrics,
	}
}

// OpenAccountInput represents input for opening an account.
type OpenAccountInput struct {
	HolderName    string
	DateOfBirth   time.Time
	HolderAddress string
	AccountType   string
	OpeningAmount decimal.Decimal
	Currency      string
}

// OpenAccount creates a new account with the opening amount as its balance
// and writes the synthetic opening deposit activity. Both writes commit as a
// single unit; the reconciliation invariant holds from account genesis.
func (uc *LedgerUseCase) OpenAccount(ctx context.Context, input OpenAccountInput) (*domain.Account, error) {
	if err := uc.validateOpenAccount(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	account := &domain.Account{
		HolderName:    input.HolderName,
		DateOfBirth:   input.DateOfBirth,
		HolderAddress: input.HolderAddress,
		AccountType:   input.AccountType,
		Balance:       input.OpeningAmount,
		Currency:      input.Currency,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	stored, err := uc.accountRepo.CreateTx(ctx, tx, account)
	if err != nil {
		return nil, err
	}

	opening := stored.NewActivity(domain.ActivityDeposit, input.OpeningAmount, input.Currency, OpeningDepositRemarks, now)
	if _, err := uc.activityRepo.Create(ctx, tx, opening); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsOpened.Inc()
		uc.metrics.OpeningBalance.Observe(input.OpeningAmount.InexactFloat64())
	}

	log.Info().Str("account_number", stored.Number()).Msg("bank account created")

	return stored, nil
}

// ApplyTransactionInput represents input for a deposit or withdrawal.
type ApplyTransactionInput struct {
	AccountNumber string
	Kind          domain.ActivityKind
	Amount        decimal.Decimal
	Currency      string
	Remarks       string
}

// ApplyTransaction applies a deposit or withdrawal to an account and appends
// the corresponding activity. The read-check-write sequence runs under a
// per-account store lock; on transient contention the whole sequence is
// retried. A withdrawal exceeding the balance fails with ErrInsufficientFunds
// and leaves the account unchanged.
func (uc *LedgerUseCase) ApplyTransaction(ctx context.Context, input ApplyTransactionInput) (*domain.Account, error) {
	start := time.Now()

	updated, err := uc.applyTransaction(ctx, input)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.TransactionErrors.WithLabelValues(transactionErrorType(err)).Inc()
		}

		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsApplied.WithLabelValues(string(input.Kind)).Inc()
		uc.metrics.TransactionAmount.Observe(input.Amount.InexactFloat64())
		uc.metrics.TransactionDuration.Observe(time.Since(start).Seconds())
	}

	return updated, nil
}

func (uc *LedgerUseCase) applyTransaction(ctx context.Context, input ApplyTransactionInput) (*domain.Account, error) {
	id, err := domain.ParseAccountNumber(input.AccountNumber)
	if err != nil {
		return nil, err
	}

	if !input.Kind.Valid() {
		return nil, domain.ErrInvalidActivityKind
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	var updated *domain.Account

	err = uc.retrier.Retry(ctx, func() error {
		account, opErr := uc.applyTransactionOnce(ctx, id, input)
		if opErr != nil {
			return opErr
		}

		updated = account

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateBalance(ctx, updated.Number())

	return updated, nil
}

func transactionErrorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrStorageContention):
		return "contention"
	case errors.Is(err, domain.ErrInvalidActivityKind),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge):
		return "invalid_input"
	default:
		return "internal"
	}
}

func (uc *LedgerUseCase) applyTransactionOnce(ctx context.Context, id int64, input ApplyTransactionInput) (*domain.Account, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	var newBalance decimal.Decimal

	switch input.Kind {
	case domain.ActivityWithdrawal:
		if !account.HasSufficientFunds(input.Amount) {
			return nil, fmt.Errorf("%w: balance %s, requested %s",
				domain.ErrInsufficientFunds, account.Balance, input.Amount)
		}

		newBalance = account.ApplyWithdrawal(input.Amount)
	default:
		newBalance = account.ApplyDeposit(input.Amount)
	}

	now := time.Now().UTC()

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return nil, err
	}

	activity := account.NewActivity(input.Kind, input.Amount, input.Currency, input.Remarks, now)
	if _, err := uc.activityRepo.Create(ctx, tx, activity); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	account.Balance = newBalance
	account.UpdatedAt = now

	return account, nil
}

// GetBalance returns the current account state for a public account number.
// Served from cache when available; cached views may trail the latest
// committed write by up to BalanceCacheTTL.
func (uc *LedgerUseCase) GetBalance(ctx context.Context, accountNumber string) (*domain.Account, error) {
	id, err := domain.ParseAccountNumber(accountNumber)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BalanceLookups.Inc()
	}

	if cached := uc.cachedBalance(ctx, accountNumber); cached != nil {
		uc.recordCacheOutcome("hit")
		return cached, nil
	}

	uc.recordCacheOutcome("miss")

	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.storeBalance(ctx, accountNumber, account)

	return account, nil
}

// GetRecentActivity returns the mini-statement: at most limit activities,
// most recent first. An account with no recorded activity is reported as not
// found, matching the behavior for a nonexistent account.
func (uc *LedgerUseCase) GetRecentActivity(ctx context.Context, accountNumber string, limit int) ([]*domain.Activity, error) {
	id, err := domain.ParseAccountNumber(accountNumber)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.StatementQueries.Inc()
	}

	if limit <= 0 {
		limit = uc.statementLimit
	}

	if limit > MaxStatementLimit {
		limit = MaxStatementLimit
	}

	activities, err := uc.activityRepo.ListRecentByAccount(ctx, id, limit)
	if err != nil {
		return nil, err
	}

	if len(activities) == 0 {
		return nil, fmt.Errorf("%w: no activity recorded for %s", domain.ErrAccountNotFound, accountNumber)
	}

	return activities, nil
}

func (uc *LedgerUseCase) validateOpenAccount(input OpenAccountInput) error {
	if err := domain.ValidateHolderName(input.HolderName); err != nil {
		return err
	}

	if err := domain.ValidateDateOfBirth(input.DateOfBirth); err != nil {
		return err
	}

	if err := domain.ValidateAddress(input.HolderAddress); err != nil {
		return err
	}

	if err := domain.ValidateAccountType(input.AccountType); err != nil {
		return err
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return err
	}

	if input.OpeningAmount.LessThan(uc.minOpeningBalance) {
		return fmt.Errorf("%w: minimum is %s", domain.ErrOpeningBalanceTooLow, uc.minOpeningBalance)
	}

	return nil
}

func balanceCacheKey(accountNumber string) string {
	return "balance:" + accountNumber
}

// recordCacheOutcome counts balance cache hits and misses. Outcomes are only
// meaningful when a cache is configured.
func (uc *LedgerUseCase) recordCacheOutcome(outcome string) {
	if uc.metrics == nil || uc.cache == nil {
		return
	}

	uc.metrics.BalanceCacheHits.WithLabelValues(outcome).Inc()
}

func (uc *LedgerUseCase) cachedBalance(ctx context.Context, accountNumber string) *domain.Account {
	if uc.cache == nil {
		return nil
	}

	raw, err := uc.cache.Get(ctx, balanceCacheKey(accountNumber))
	if err != nil || raw == nil {
		return nil
	}

	var account domain.Account
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil
	}

	return &account
}

func (uc *LedgerUseCase) storeBalance(ctx context.Context, accountNumber string, account *domain.Account) {
	if uc.cache == nil {
		return
	}

	raw, err := json.Marshal(account)
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, balanceCacheKey(accountNumber), raw, BalanceCacheTTL); err != nil {
		log.Warn().Err(err).Msg("failed to cache balance view")
	}
}

func (uc *LedgerUseCase) invalidateBalance(ctx context.Context, accountNumber string) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Delete(ctx, balanceCacheKey(accountNumber)); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate balance cache")
	}
}
