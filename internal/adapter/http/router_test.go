package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/teolin/gobank/internal/adapter/http/handler"
	apimiddleware "github.com/teolin/gobank/internal/adapter/http/middleware"
	"github.com/teolin/gobank/internal/domain"
	"github.com/teolin/gobank/internal/infrastructure/auth"
	"github.com/teolin/gobank/internal/usecase"
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

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Idempotency = apimiddleware.NewIdempotencyMiddleware(store, time.Hour)
	}))

	body := `{"first_name":"Jane","last_name":"Doe","email":"jane@example.com","password":"secret-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_ProtectedRoutesRequireToken(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/1/accounts/", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer token, got %d", rec.Code)
	}
}

func TestNewRouter_ConsistencyEndpointUnauthenticated(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger/consistency", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected consistency check without token to return 200, got %d", rec.Code)
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
		"POST /api/v1/users",
		"POST /api/v1/tokens",
		"DELETE /api/v1/tokens",
		"GET /api/v1/ledger/consistency",
		"GET /api/v1/users/{id}/accounts/",
		"GET /api/v1/users/{id}/accounts/{num}",
		"POST /api/v1/users/{id}/accounts/{num}/deposit",
		"POST /api/v1/users/{id}/accounts/{num}/withdraw",
		"POST /api/v1/users/{id}/accounts/{num}/transfer",
		"GET /api/v1/users/{id}/transactions/",
		"GET /api/v1/users/{id}/transactions/{txnID}",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	jwtManager := auth.NewJWTManager("router-test-secret", time.Hour)
	revoker := &stubRevoker{}

	cfg := RouterConfig{
		UserHandler:        handler.NewUserHandler(&stubUserService{}, nil),
		AccountHandler:     handler.NewAccountHandler(&stubAccountReader{}, &stubLedgerService{}, nil),
		TransactionHandler: handler.NewTransactionHandler(&stubHistoryService{}),
		TokenHandler:       handler.NewTokenHandler(&stubUserService{}, jwtManager, revoker),
		LedgerHandler:      handler.NewLedgerHandler(&stubConsistencyService{}),
		HealthHandler:      handler.NewHealthHandler(nil, nil),
		Auth:               apimiddleware.NewAuthMiddleware(jwtManager, revoker),
		Logger:             zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubUserService struct{}

func (stubUserService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterResult, error) {
	return &usecase.RegisterResult{
		User:        &domain.User{ID: 1},
		Account:     &domain.Account{AccountNum: 1, OwnerID: 1},
		Transaction: &domain.Transaction{ID: 1, Kind: domain.KindGenesis},
	}, nil
}

func (stubUserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}

func (stubUserService) ChangeEmail(ctx context.Context, userID int64, newEmail string) (*domain.User, error) {
	return &domain.User{ID: userID, Email: newEmail}, nil
}

func (stubUserService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) (*domain.User, error) {
	return &domain.User{ID: userID}, nil
}

func (stubUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return &domain.User{ID: 1, Email: email}, nil
}

type stubAccountReader struct{}

func (stubAccountReader) ListAccounts(ctx context.Context, userID int64) (*usecase.AccountSummary, error) {
	return &usecase.AccountSummary{TotalBalance: decimal.Zero}, nil
}

func (stubAccountReader) GetAccount(ctx context.Context, callerID, accountNum int64) (*domain.Account, error) {
	return &domain.Account{AccountNum: accountNum, OwnerID: callerID}, nil
}

type stubLedgerService struct{}

func (stubLedgerService) Deposit(ctx context.Context, callerID, accountNum int64, amount decimal.Decimal) (*usecase.LedgerResult, error) {
	return &usecase.LedgerResult{Account: &domain.Account{}, Transaction: &domain.Transaction{}}, nil
}

func (stubLedgerService) Withdraw(ctx context.Context, callerID, accountNum int64, amount decimal.Decimal) (*usecase.LedgerResult, error) {
	return &usecase.LedgerResult{Account: &domain.Account{}, Transaction: &domain.Transaction{}}, nil
}

func (stubLedgerService) Transfer(ctx context.Context, callerID, fromNum, toNum int64, amount decimal.Decimal) (*usecase.LedgerResult, error) {
	return &usecase.LedgerResult{Account: &domain.Account{}, Transaction: &domain.Transaction{}}, nil
}

type stubHistoryService struct{}

func (stubHistoryService) ListTransactions(ctx context.Context, userID int64) (*usecase.TransactionHistory, error) {
	return &usecase.TransactionHistory{}, nil
}

func (stubHistoryService) GetTransaction(ctx context.Context, callerID, txnID int64) (*domain.TransactionDetail, error) {
	return &domain.TransactionDetail{}, nil
}

type stubConsistencyService struct{}

func (stubConsistencyService) CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error) {
	return &usecase.ConsistencyReport{Consistent: true}, nil
}

type stubRevoker struct{}

func (stubRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return nil
}

func (stubRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return false, nil
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
