package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryDirection marks an entry as money out (DEBIT) or money in (CREDIT).
type EntryDirection string

const (
	Debit  EntryDirection = "DEBIT"
	Credit EntryDirection = "CREDIT"
)

// Entry is a single immutable ledger entry. Entries are only ever appended;
// an account's balance is the signed sum of its entries.
type Entry struct {
	CreatedAt    time.Time
	ID           string
	AccountID    string
	TransferID   string
	Direction    EntryDirection
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	Description  string
}

// Signed returns the entry amount with its direction applied:
// positive for credits, negative for debits.
func (e *Entry) Signed() decimal.Decimal {
	if e.Direction == Debit {
		return e.Amount.Neg()
	}

	return e.Amount
}
