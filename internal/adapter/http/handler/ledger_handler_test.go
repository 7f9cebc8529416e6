package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/thebank/coreledger/internal/adapter/http/dto"
	"github.com/thebank/coreledger/internal/domain"
	"github.com/thebank/coreledger/internal/usecase"
)

type ledgerServiceStub struct {
	balanceFn     func(ctx context.Context, accountID string) (decimal.Decimal, error)
	fundFn        func(ctx context.Context, input usecase.FundingInput) (*domain.Entry, error)
	statementFn   func(ctx context.Context, input usecase.StatementInput) (*domain.Statement, error)
	entriesFn     func(ctx context.Context, transferID string) ([]*domain.Entry, error)
	consistencyFn func(ctx context.Context) (*domain.ConsistencyReport, error)
}

func (s *ledgerServiceStub) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return s.balanceFn(ctx, accountID)
}

func (s *ledgerServiceStub) AppendFunding(ctx context.Context, input usecase.FundingInput) (*domain.Entry, error) {
	return s.fundFn(ctx, input)
}

func (s *ledgerServiceStub) GetStatement(ctx context.Context, input usecase.StatementInput) (*domain.Statement, error) {
	return s.statementFn(ctx, input)
}

func (s *ledgerServiceStub) GetEntriesByTransfer(ctx context.Context, transferID string) ([]*domain.Entry, error) {
	return s.entriesFn(ctx, transferID)
}

func (s *ledgerServiceStub) CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error) {
	return s.consistencyFn(ctx)
}

func TestLedgerHandler_GetBalance(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{
		balanceFn: func(ctx context.Context, accountID string) (decimal.Decimal, error) {
			return decimal.NewFromInt(75), nil
		},
	}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/accounts/acc-1/balance", nil), "id", "acc-1")
	rec := httptest.NewRecorder()

	h.GetBalance(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Balance.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("expected balance 75, got %s", resp.Balance)
	}
}

func TestLedgerHandler_GetBalanceNotFound(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{
		balanceFn: func(ctx context.Context, accountID string) (decimal.Decimal, error) {
			return decimal.Zero, domain.ErrAccountNotFound
		},
	}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/accounts/missing/balance", nil), "id", "missing")
	rec := httptest.NewRecorder()

	h.GetBalance(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLedgerHandler_Fund(t *testing.T) {
	var captured usecase.FundingInput

	h := NewLedgerHandler(&ledgerServiceStub{
		fundFn: func(ctx context.Context, input usecase.FundingInput) (*domain.Entry, error) {
			captured = input
			return &domain.Entry{
				ID:           "e-1",
				AccountID:    input.AccountID,
				Direction:    domain.Credit,
				Amount:       input.Amount,
				BalanceAfter: input.Amount,
			}, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.FundAccountRequest{Amount: decimal.NewFromInt(500)})
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/accounts/acc-1/fund", bytes.NewReader(body)), "id", "acc-1")
	rec := httptest.NewRecorder()

	h.Fund(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if captured.AccountID != "acc-1" || !captured.Amount.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected funding input from request, got %+v", captured)
	}
}

func TestLedgerHandler_FundInvalidAmount(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{
		fundFn: func(ctx context.Context, input usecase.FundingInput) (*domain.Entry, error) {
			return nil, domain.ErrInvalidAmount
		},
	}, nil)

	body, _ := json.Marshal(dto.FundAccountRequest{Amount: decimal.NewFromInt(-5)})
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/accounts/acc-1/fund", bytes.NewReader(body)), "id", "acc-1")
	rec := httptest.NewRecorder()

	h.Fund(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLedgerHandler_GetStatement(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{
		statementFn: func(ctx context.Context, input usecase.StatementInput) (*domain.Statement, error) {
			return &domain.Statement{
				AccountID:      input.AccountID,
				OpeningBalance: decimal.NewFromInt(100),
				ClosingBalance: decimal.NewFromInt(87),
				Entries:        []*domain.Entry{{ID: "e-1"}},
				Limit:          50,
			}, nil
		},
	}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet,
		"/accounts/acc-1/statement?from=2026-03-01T00:00:00Z&to=2026-04-01T00:00:00Z", nil), "id", "acc-1")
	rec := httptest.NewRecorder()

	h.GetStatement(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.StatementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.OpeningBalance.Equal(decimal.NewFromInt(100)) || len(resp.Entries) != 1 {
		t.Fatalf("unexpected statement: %+v", resp)
	}
}

func TestLedgerHandler_GetStatementBadTimeRange(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{}, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/accounts/acc-1/statement?from=yesterday", nil), "id", "acc-1")
	rec := httptest.NewRecorder()

	h.GetStatement(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{
		consistencyFn: func(ctx context.Context) (*domain.ConsistencyReport, error) {
			return &domain.ConsistencyReport{MismatchedAccounts: []string{"acc-9"}}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil)
	rec := httptest.NewRecorder()

	h.CheckConsistency(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ConsistencyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Consistent || len(resp.MismatchedAccounts) != 1 {
		t.Fatalf("unexpected consistency response: %+v", resp)
	}
}
