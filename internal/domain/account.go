package domain

import "time"

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountActive  AccountStatus = "ACTIVE"
	AccountBlocked AccountStatus = "BLOCKED"
	AccountClosed  AccountStatus = "CLOSED"
)

// Account is a ledger account. The core never stores a balance on it;
// balance is always derived from the account's entries.
type Account struct {
	ID          string
	OwnerUserID string
	Currency    string
	Status      AccountStatus
	CreatedAt   time.Time
}

// IsActive reports whether the account can participate in transfers.
func (a *Account) IsActive() bool {
	return a.Status == AccountActive
}

// IsOwnedBy reports whether the account belongs to the given user.
func (a *Account) IsOwnedBy(userID string) bool {
	return a.OwnerUserID != "" && a.OwnerUserID == userID
}
