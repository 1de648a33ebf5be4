package handler

import (
	"context"
	"net/http"

	"github.com/iho/accountsvc/internal/adapter/http/dto"
	"github.com/iho/accountsvc/internal/domain"
)

// ReconciliationService defines the behavior needed by LedgerHandler.
type ReconciliationService interface {
	CheckConsistency(ctx context.Context) (bool, []int64, error)
}

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	reconciliationUC ReconciliationService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(reconciliationUC ReconciliationService) *LedgerHandler {
	return &LedgerHandler{reconciliationUC: reconciliationUC}
}

// CheckConsistency reports whether every account balance matches the sum of
// its recorded activities. Mismatches are reported with 409.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	consistent, mismatched, err := h.reconciliationUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())
		return
	}

	resp := dto.ConsistencyResponse{Consistent: consistent}
	for _, id := range mismatched {
		resp.MismatchedAccounts = append(resp.MismatchedAccounts, domain.FormatAccountNumber(id))
	}

	status := http.StatusOK
	if !consistent {
		status = http.StatusConflict
	}

	writeJSON(w, status, resp)
}
