package memory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/accountsvc/internal/adapter/repository/memory"
	"github.com/iho/accountsvc/internal/domain"
	"github.com/iho/accountsvc/internal/usecase"
	"github.com/iho/accountsvc/internal/usecase/mocks"
)

func newLedger(t *testing.T, store *memory.Store) *usecase.LedgerUseCase {
	t.Helper()

	return usecase.NewLedgerUseCase(
		memory.NewTxManager(store),
		memory.NewAccountRepository(store),
		memory.NewActivityRepository(store),
		mocks.PassRetrier{},
		nil,
		decimal.NewFromInt(1000),
		0,
		nil,
	)
}

func openAccount(t *testing.T, uc *usecase.LedgerUseCase, amount int64) *domain.Account {
	t.Helper()

	account, err := uc.OpenAccount(context.Background(), usecase.OpenAccountInput{
		HolderName:    "Jane Doe",
		DateOfBirth:   time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC),
		HolderAddress: "1 High Street, Copenhagen",
		AccountType:   "SAVINGS",
		OpeningAmount: decimal.NewFromInt(amount),
		Currency:      "GBP",
	})
	if err != nil {
		t.Fatalf("failed to open account: %v", err)
	}

	return account
}

func TestConcurrentWithdrawals_ExactlyOneSucceeds(t *testing.T) {
	store := memory.NewStore(time.Second)
	uc := newLedger(t, store)

	// Balance 1.5A with two concurrent withdrawals of A each.
	account := openAccount(t, uc, 3000)
	withdrawal := decimal.NewFromInt(2000)

	var (
		wg           sync.WaitGroup
		successCount atomic.Int32
		rejectCount  atomic.Int32
	)

	wg.Add(2)

	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()

			_, err := uc.ApplyTransaction(context.Background(), usecase.ApplyTransactionInput{
				AccountNumber: account.Number(),
				Kind:          domain.ActivityWithdrawal,
				Amount:        withdrawal,
				Currency:      "GBP",
			})

			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientFunds):
				rejectCount.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 || rejectCount.Load() != 1 {
		t.Fatalf("expected exactly one success and one rejection, got %d/%d",
			successCount.Load(), rejectCount.Load())
	}

	final, err := uc.GetBalance(context.Background(), account.Number())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !final.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected final balance 1000, got %s", final.Balance)
	}
}

func TestConcurrentDeposits_AllApplyAndReconcile(t *testing.T) {
	store := memory.NewStore(5 * time.Second)
	uc := newLedger(t, store)

	account := openAccount(t, uc, 10000)

	const workers = 50
	deposit := decimal.NewFromInt(10)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()

			_, err := uc.ApplyTransaction(context.Background(), usecase.ApplyTransactionInput{
				AccountNumber: account.Number(),
				Kind:          domain.ActivityDeposit,
				Amount:        deposit,
				Currency:      "GBP",
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	final, err := uc.GetBalance(context.Background(), account.Number())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := decimal.NewFromInt(10000 + workers*10)
	if !final.Balance.Equal(want) {
		t.Errorf("expected final balance %s, got %s", want, final.Balance)
	}

	reconciliation := usecase.NewReconciliationUseCase(memory.NewLedgerRepository(store), nil)
	consistent, mismatched, err := reconciliation.CheckConsistency(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !consistent {
		t.Errorf("ledger does not reconcile, mismatched accounts: %v", mismatched)
	}
}

func TestRollbackDiscardsStagedWrites(t *testing.T) {
	store := memory.NewStore(time.Second)
	uc := newLedger(t, store)
	account := openAccount(t, uc, 5000)

	accountRepo := memory.NewAccountRepository(store)
	activityRepo := memory.NewActivityRepository(store)
	txManager := memory.NewTxManager(store)

	ctx := context.Background()

	tx, err := txManager.Begin(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	locked, err := accountRepo.GetByIDForUpdate(ctx, tx, account.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := accountRepo.UpdateBalance(ctx, tx, locked.ID, decimal.Zero, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := activityRepo.Create(ctx, tx, locked.NewActivity(domain.ActivityWithdrawal, decimal.NewFromInt(5000), "GBP", "", time.Now())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	current, err := accountRepo.GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !current.Balance.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("rolled-back balance leaked: %s", current.Balance)
	}

	activities, _ := activityRepo.ListRecentByAccount(ctx, account.ID, 10)
	if len(activities) != 1 {
		t.Errorf("rolled-back activity leaked, have %d entries", len(activities))
	}
}

func TestLockAcquisitionIsBounded(t *testing.T) {
	store := memory.NewStore(30 * time.Millisecond)
	uc := newLedger(t, store)
	account := openAccount(t, uc, 5000)

	accountRepo := memory.NewAccountRepository(store)
	txManager := memory.NewTxManager(store)

	ctx := context.Background()

	holder, err := txManager.Begin(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := accountRepo.GetByIDForUpdate(ctx, holder, account.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second writer must time out instead of hanging.
	_, err = uc.ApplyTransaction(ctx, usecase.ApplyTransactionInput{
		AccountNumber: account.Number(),
		Kind:          domain.ActivityDeposit,
		Amount:        decimal.NewFromInt(1),
		Currency:      "GBP",
	})
	if !errors.Is(err, domain.ErrStorageContention) {
		t.Fatalf("expected ErrStorageContention, got %v", err)
	}

	if err := holder.Rollback(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// After the lock is released the write goes through.
	if _, err := uc.ApplyTransaction(ctx, usecase.ApplyTransactionInput{
		AccountNumber: account.Number(),
		Kind:          domain.ActivityDeposit,
		Amount:        decimal.NewFromInt(1),
		Currency:      "GBP",
	}); err != nil {
		t.Fatalf("unexpected error after release: %v", err)
	}
}

func TestStatementOrderingUnderWrites(t *testing.T) {
	store := memory.NewStore(time.Second)
	uc := newLedger(t, store)
	account := openAccount(t, uc, 100000)

	for i := 1; i <= 12; i++ {
		kind := domain.ActivityDeposit
		if i%3 == 0 {
			kind = domain.ActivityWithdrawal
		}

		if _, err := uc.ApplyTransaction(context.Background(), usecase.ApplyTransactionInput{
			AccountNumber: account.Number(),
			Kind:          kind,
			Amount:        decimal.NewFromInt(int64(i)),
			Currency:      "GBP",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	activities, err := uc.GetRecentActivity(context.Background(), account.Number(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(activities) != 5 {
		t.Fatalf("expected 5 activities, got %d", len(activities))
	}

	for i := 1; i < len(activities); i++ {
		if activities[i].ID >= activities[i-1].ID {
			t.Fatalf("statement not in descending id order at index %d", i)
		}
	}

	if !activities[0].Amount.Equal(decimal.NewFromInt(12)) {
		t.Errorf("expected newest amount 12, got %s", activities[0].Amount)
	}
}
