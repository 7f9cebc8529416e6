package dto

import (
	"github.com/shopspring/decimal"

	"github.com/thebank/coreledger/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	OwnerUserID string `json:"owner_user_id"`
	Currency    string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		OwnerUserID: r.OwnerUserID,
		Currency:    r.Currency,
	}
}

// CreateTransferRequest represents a request to execute a transfer. The
// idempotency key and acting user arrive out of band, via header and token.
type CreateTransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput(idempotencyKey, actingUserID string) usecase.ExecuteTransferInput {
	return usecase.ExecuteTransferInput{
		FromAccountID:  r.FromAccountID,
		ToAccountID:    r.ToAccountID,
		Amount:         r.Amount,
		Description:    r.Description,
		IdempotencyKey: idempotencyKey,
		ActingUserID:   actingUserID,
	}
}

// FundAccountRequest represents an administrative funding credit.
type FundAccountRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *FundAccountRequest) ToUseCaseInput(accountID string) usecase.FundingInput {
	return usecase.FundingInput{
		AccountID:   accountID,
		Amount:      r.Amount,
		Description: r.Description,
	}
}
