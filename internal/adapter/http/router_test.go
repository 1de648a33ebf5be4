package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/accountsvc/internal/adapter/http/handler"
	apimiddleware "github.com/iho/accountsvc/internal/adapter/http/middleware"
	"github.com/iho/accountsvc/internal/domain"
	"github.com/iho/accountsvc/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_AssignsRequestID(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Header().Get(apimiddleware.RequestIDHeader) == "" {
		t.Fatalf("expected a request id header on the response")
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"holder_name":"Rahul Sharma","date_of_birth":"1990-04-12","holder_address":"12 High Street","account_type":"SAVINGS","opening_amount":"5000","currency":"DKK"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/accounts/",
		"GET /api/v1/accounts/{accountNumber}/balance",
		"GET /api/v1/accounts/{accountNumber}/statement",
		"POST /api/v1/transactions",
		"GET /api/v1/ledger/consistency",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		AccountHandler:     handler.NewAccountHandler(&stubAccountService{}),
		TransactionHandler: handler.NewTransactionHandler(&stubTransactionService{}),
		LedgerHandler:      handler.NewLedgerHandler(&stubReconciliationService{}),
		HealthHandler:      handler.NewHealthHandler(nil, nil),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubAccountService struct{}

func (stubAccountService) OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error) {
	return &domain.Account{ID: 1, Balance: input.OpeningAmount}, nil
}

func (stubAccountService) GetBalance(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return &domain.Account{ID: 1, Balance: decimal.Zero}, nil
}

func (stubAccountService) GetRecentActivity(ctx context.Context, accountNumber string, limit int) ([]*domain.Activity, error) {
	return []*domain.Activity{}, nil
}

type stubTransactionService struct{}

func (stubTransactionService) ApplyTransaction(ctx context.Context, input usecase.ApplyTransactionInput) (*domain.Account, error) {
	return &domain.Account{ID: 1, Balance: input.Amount}, nil
}

type stubReconciliationService struct{}

func (stubReconciliationService) CheckConsistency(ctx context.Context) (bool, []int64, error) {
	return true, nil, nil
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
