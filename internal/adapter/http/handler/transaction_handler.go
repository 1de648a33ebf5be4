package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/accountsvc/internal/adapter/http/dto"
	"github.com/iho/accountsvc/internal/domain"
	"github.com/iho/accountsvc/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	ApplyTransaction(ctx context.Context, input usecase.ApplyTransactionInput) (*domain.Account, error)
}

// TransactionHandler handles deposit and withdrawal HTTP requests.
type TransactionHandler struct {
	ledgerUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerUC TransactionService) *TransactionHandler {
	return &TransactionHandler{ledgerUC: ledgerUC}
}

// Apply applies a deposit or withdrawal to an account.
func (h *TransactionHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req dto.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := domain.ValidateAccountNumberPattern(req.AccountNumber); err != nil {
		writeError(w, http.StatusBadRequest, "invalid account number", err.Error())
		return
	}

	account, err := h.ledgerUC.ApplyTransaction(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to apply transaction", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}
