package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/thebank/coreledger/internal/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:          a.ID,
		OwnerUserID: a.OwnerUserID,
		Currency:    a.Currency,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID            string          `json:"id"`
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	FailureReason string          `json:"failure_reason,omitempty"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

// TransferFromDomain converts a domain transfer to a response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		ID:            t.ID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount,
		Currency:      t.Currency,
		Status:        string(t.Status),
		FailureReason: string(t.FailureReason),
		Description:   t.Description,
		CreatedAt:     t.CreatedAt,
		CompletedAt:   t.CompletedAt,
	}
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.Transfer) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"account_id"`
	TransferID   string          `json:"transfer_id,omitempty"`
	Direction    string          `json:"direction"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Description  string          `json:"description,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:           e.ID,
		AccountID:    e.AccountID,
		TransferID:   e.TransferID,
		Direction:    string(e.Direction),
		Amount:       e.Amount,
		BalanceAfter: e.BalanceAfter,
		Description:  e.Description,
		CreatedAt:    e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// BalanceResponse represents a derived account balance.
type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// StatementResponse represents an account statement.
type StatementResponse struct {
	AccountID      string           `json:"account_id"`
	From           *time.Time       `json:"from,omitempty"`
	To             *time.Time       `json:"to,omitempty"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	ClosingBalance decimal.Decimal  `json:"closing_balance"`
	Entries        []*EntryResponse `json:"entries"`
	Limit          int              `json:"limit"`
	Offset         int              `json:"offset"`
}

// StatementFromDomain converts a domain statement to a response.
func StatementFromDomain(s *domain.Statement) *StatementResponse {
	return &StatementResponse{
		AccountID:      s.AccountID,
		From:           s.From,
		To:             s.To,
		OpeningBalance: s.OpeningBalance,
		ClosingBalance: s.ClosingBalance,
		Entries:        EntriesFromDomain(s.Entries),
		Limit:          s.Limit,
		Offset:         s.Offset,
	}
}

// ConsistencyResponse represents the ledger consistency audit result.
type ConsistencyResponse struct {
	Consistent          bool     `json:"consistent"`
	MismatchedAccounts  []string `json:"mismatched_accounts,omitempty"`
	UnbalancedTransfers []string `json:"unbalanced_transfers,omitempty"`
}

// ConsistencyFromDomain converts a domain consistency report to a response.
func ConsistencyFromDomain(r *domain.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		Consistent:          r.Consistent(),
		MismatchedAccounts:  r.MismatchedAccounts,
		UnbalancedTransfers: r.UnbalancedTransfers,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// RejectedResponse carries the persisted transfer alongside the rejection
// reason so callers can inspect the terminal record.
type RejectedResponse struct {
	Error    string            `json:"error"`
	Reason   string            `json:"reason"`
	Transfer *TransferResponse `json:"transfer"`
}
