package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/accountsvc/internal/adapter/http/dto"
	"github.com/iho/accountsvc/internal/domain"
	"github.com/iho/accountsvc/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error)
	GetBalance(ctx context.Context, accountNumber string) (*domain.Account, error)
	GetRecentActivity(ctx context.Context, accountNumber string, limit int) ([]*domain.Activity, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	ledgerUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(ledgerUC AccountService) *AccountHandler {
	return &AccountHandler{ledgerUC: ledgerUC}
}

// Open opens a new bank account.
func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	account, err := h.ledgerUC.OpenAccount(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to open account", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Balance returns the current balance for an account number.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	number, ok := accountNumberParam(w, r)
	if !ok {
		return
	}

	account, err := h.ledgerUC.GetBalance(r.Context(), number)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(account))
}

// Statement returns the mini statement, most recent activity first.
func (h *AccountHandler) Statement(w http.ResponseWriter, r *http.Request) {
	number, ok := accountNumberParam(w, r)
	if !ok {
		return
	}

	limit := parseIntQuery(r, "limit", 0)

	activities, err := h.ledgerUC.GetRecentActivity(r.Context(), number, limit)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get statement", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.StatementResponse{
		AccountNumber: number,
		Activities:    dto.ActivitiesFromDomain(activities),
	})
}

// accountNumberParam extracts and shape-checks the account number path
// parameter, writing the error response itself on failure.
func accountNumberParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	number := chi.URLParam(r, "accountNumber")
	if number == "" {
		writeError(w, http.StatusBadRequest, "missing account number", "")
		return "", false
	}

	if err := domain.ValidateAccountNumberPattern(number); err != nil {
		writeError(w, http.StatusBadRequest, "invalid account number", err.Error())
		return "", false
	}

	return number, true
}
