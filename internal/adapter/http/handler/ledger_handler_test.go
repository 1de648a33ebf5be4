package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/accountsvc/internal/adapter/http/dto"
)

type reconciliationServiceStub struct {
	checkFn func(ctx context.Context) (bool, []int64, error)
}

func (s *reconciliationServiceStub) CheckConsistency(ctx context.Context) (bool, []int64, error) {
	return s.checkFn(ctx)
}

func TestLedgerHandler_CheckConsistency_OK(t *testing.T) {
	handler := NewLedgerHandler(&reconciliationServiceStub{
		checkFn: func(ctx context.Context) (bool, []int64, error) {
			return true, nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil)
	rec := httptest.NewRecorder()

	handler.CheckConsistency(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ConsistencyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Consistent || len(resp.MismatchedAccounts) != 0 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLedgerHandler_CheckConsistency_Mismatch(t *testing.T) {
	handler := NewLedgerHandler(&reconciliationServiceStub{
		checkFn: func(ctx context.Context) (bool, []int64, error) {
			return false, []int64{3, 7}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil)
	rec := httptest.NewRecorder()

	handler.CheckConsistency(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var resp dto.ConsistencyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Consistent || len(resp.MismatchedAccounts) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.MismatchedAccounts[0] != "DANSKE0000000003" {
		t.Fatalf("expected public account numbers, got %+v", resp.MismatchedAccounts)
	}
}

func TestLedgerHandler_CheckConsistency_Error(t *testing.T) {
	handler := NewLedgerHandler(&reconciliationServiceStub{
		checkFn: func(ctx context.Context) (bool, []int64, error) {
			return false, nil, errors.New("db down")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil)
	rec := httptest.NewRecorder()

	handler.CheckConsistency(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
