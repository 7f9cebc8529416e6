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

	"github.com/thebank/coreledger/internal/adapter/http/handler"
	apimiddleware "github.com/thebank/coreledger/internal/adapter/http/middleware"
	"github.com/thebank/coreledger/internal/domain"
	"github.com/thebank/coreledger/internal/infrastructure/auth"
	"github.com/thebank/coreledger/internal/usecase"
)

type stubAccountService struct{}

func (stubAccountService) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return &domain.Account{ID: "acc-1", OwnerUserID: input.OwnerUserID, Currency: "USD", Status: domain.AccountActive}, nil
}

func (stubAccountService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return &domain.Account{ID: id, Currency: "USD", Status: domain.AccountActive}, nil
}

func (stubAccountService) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	return nil, nil
}

type stubTransferService struct{}

func (stubTransferService) ExecuteTransfer(ctx context.Context, input usecase.ExecuteTransferInput) (*domain.Transfer, error) {
	return &domain.Transfer{ID: "tr-1", Amount: decimal.NewFromInt(1), Status: domain.TransferCompleted}, nil
}

func (stubTransferService) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	return &domain.Transfer{ID: id, Amount: decimal.NewFromInt(1), Status: domain.TransferCompleted}, nil
}

func (stubTransferService) ListTransfersByAccount(ctx context.Context, input usecase.ListTransfersByAccountInput) ([]*domain.Transfer, error) {
	return nil, nil
}

type stubLedgerService struct{}

func (stubLedgerService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (stubLedgerService) AppendFunding(ctx context.Context, input usecase.FundingInput) (*domain.Entry, error) {
	return &domain.Entry{ID: "en-1", Direction: domain.Credit, Amount: input.Amount}, nil
}

func (stubLedgerService) GetStatement(ctx context.Context, input usecase.StatementInput) (*domain.Statement, error) {
	return &domain.Statement{AccountID: input.AccountID}, nil
}

func (stubLedgerService) GetEntriesByTransfer(ctx context.Context, transferID string) ([]*domain.Entry, error) {
	return nil, nil
}

func (stubLedgerService) CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error) {
	return &domain.ConsistencyReport{}, nil
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

func (s *stubIdempotencyStore) Release(ctx context.Context, key string) error {
	return nil
}

func newRouterConfig(overrides ...func(cfg *RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		AccountHandler:  handler.NewAccountHandler(stubAccountService{}, nil),
		TransferHandler: handler.NewTransferHandler(stubTransferService{}, nil),
		LedgerHandler:   handler.NewLedgerHandler(stubLedgerService{}, nil),
		HealthHandler:   handler.NewHealthHandler(nil, nil),
		Logger:          zerolog.Nop(),
	}

	for _, override := range overrides {
		override(&cfg)
	}

	return cfg
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimitRPS = 1
		cfg.RateLimitBurst = 1
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"from_account_id":"a","to_account_id":"b","amount":"1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RequiredAuthRejectsAnonymousRequests(t *testing.T) {
	jwtManager := auth.NewJWTManager("router-test-secret", time.Hour)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.JWTManager = jwtManager
		cfg.AuthRequired = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/acc-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected anonymous request to be rejected with 401, got %d", rec.Code)
	}

	token, err := jwtManager.Generate("user-1")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/accounts/acc-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected authenticated request to succeed, got %d", rec.Code)
	}

	// Health stays reachable without a token for probes.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to stay open, got %d", rec.Code)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRouter, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Router")
	}

	keyRoutes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/accounts/"},
		{http.MethodGet, "/api/v1/accounts/{id}/balance"},
		{http.MethodGet, "/api/v1/accounts/{id}/statement"},
		{http.MethodPost, "/api/v1/accounts/{id}/fund"},
		{http.MethodPost, "/api/v1/transfers/"},
		{http.MethodGet, "/api/v1/transfers/{id}/entries"},
		{http.MethodGet, "/api/v1/ledger/consistency"},
	}

	for _, route := range keyRoutes {
		rctx := chi.NewRouteContext()
		if !chiRouter.Match(rctx, route.method, route.path) {
			t.Errorf("expected route %s %s to be registered", route.method, route.path)
		}
	}
}
