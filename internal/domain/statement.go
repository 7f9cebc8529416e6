package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement is a paginated view over an account's entries, newest first.
// OpeningBalance is the derived balance just before From; ClosingBalance is
// the current derived balance.
type Statement struct {
	From           *time.Time
	To             *time.Time
	AccountID      string
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	Entries        []*Entry
	Limit          int
	Offset         int
}

// ConsistencyReport is the result of a ledger-wide audit: every account's
// signed entry sum must match its latest balance_after snapshot, and every
// completed transfer must carry exactly one debit and one credit of equal
// magnitude.
type ConsistencyReport struct {
	MismatchedAccounts  []string
	UnbalancedTransfers []string
}

// Consistent reports whether the audit found no violations.
func (r *ConsistencyReport) Consistent() bool {
	return len(r.MismatchedAccounts) == 0 && len(r.UnbalancedTransfers) == 0
}
