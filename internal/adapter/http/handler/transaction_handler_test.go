package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/accountsvc/internal/adapter/http/dto"
	"github.com/iho/accountsvc/internal/domain"
	"github.com/iho/accountsvc/internal/usecase"
)

type transactionServiceStub struct {
	applyFn func(ctx context.Context, input usecase.ApplyTransactionInput) (*domain.Account, error)
}

func (s *transactionServiceStub) ApplyTransaction(ctx context.Context, input usecase.ApplyTransactionInput) (*domain.Account, error) {
	return s.applyFn(ctx, input)
}

func TestTransactionHandler_Apply_Deposit(t *testing.T) {
	account := &domain.Account{
		ID:       1,
		Balance:  decimal.RequireFromString("6000"),
		Currency: "DKK",
	}

	var captured usecase.ApplyTransactionInput
	handler := NewTransactionHandler(&transactionServiceStub{
		applyFn: func(ctx context.Context, input usecase.ApplyTransactionInput) (*domain.Account, error) {
			captured = input
			return account, nil
		},
	})

	body, _ := json.Marshal(dto.TransactionRequest{
		AccountNumber: "DANSKE0000000001",
		Kind:          "DEPOSIT",
		Amount:        decimal.RequireFromString("1000"),
		Currency:      "DKK",
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Apply(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Kind != domain.ActivityDeposit || !captured.Amount.Equal(decimal.RequireFromString("1000")) {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Balance.Equal(account.Balance) {
		t.Fatalf("expected balance 6000, got %s", resp.Balance)
	}
}

func TestTransactionHandler_Apply_InsufficientFunds(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		applyFn: func(ctx context.Context, input usecase.ApplyTransactionInput) (*domain.Account, error) {
			return nil, domain.ErrInsufficientFunds
		},
	})

	body, _ := json.Marshal(dto.TransactionRequest{
		AccountNumber: "DANSKE0000000001",
		Kind:          "WITHDRAWAL",
		Amount:        decimal.RequireFromString("99999"),
		Currency:      "DKK",
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Apply(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_Apply_BadNumberPattern(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		applyFn: func(ctx context.Context, input usecase.ApplyTransactionInput) (*domain.Account, error) {
			t.Fatal("ApplyTransaction should not be called for a malformed number")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.TransactionRequest{
		AccountNumber: "not-a-number",
		Kind:          "DEPOSIT",
		Amount:        decimal.RequireFromString("10"),
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Apply(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_Apply_Contention(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		applyFn: func(ctx context.Context, input usecase.ApplyTransactionInput) (*domain.Account, error) {
			return nil, domain.ErrStorageContention
		},
	})

	body, _ := json.Marshal(dto.TransactionRequest{
		AccountNumber: "DANSKE0000000001",
		Kind:          "DEPOSIT",
		Amount:        decimal.RequireFromString("10"),
		Currency:      "DKK",
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Apply(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
