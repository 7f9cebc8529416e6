package domain

import "github.com/shopspring/decimal"

// RejectionReason is a machine-readable reason persisted on a rejected
// transfer.
type RejectionReason string

const (
	ReasonSourceNotActive      RejectionReason = "SOURCE_ACCOUNT_NOT_ACTIVE"
	ReasonDestinationNotActive RejectionReason = "DESTINATION_ACCOUNT_NOT_ACTIVE"
	ReasonCurrencyMismatch     RejectionReason = "CURRENCY_MISMATCH"
	ReasonInvalidAmount        RejectionReason = "INVALID_AMOUNT"
	ReasonInsufficientFunds    RejectionReason = "INSUFFICIENT_FUNDS"
)

// ValidateTransferPreconditions checks account status, currency and amount
// for a transfer. Checks run in a fixed priority order so the reported
// reason is deterministic. Returns "" when all preconditions hold.
func ValidateTransferPreconditions(from, to *Account, amount decimal.Decimal) RejectionReason {
	if !from.IsActive() {
		return ReasonSourceNotActive
	}

	if !to.IsActive() {
		return ReasonDestinationNotActive
	}

	if from.Currency != to.Currency {
		return ReasonCurrencyMismatch
	}

	if amount.LessThanOrEqual(decimal.Zero) || !HasValidScale(amount) {
		return ReasonInvalidAmount
	}

	return ""
}
