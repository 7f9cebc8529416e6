package usecase

import "time"

const (
	// DefaultTransferDescription is used when a request carries no
	// description.
	DefaultTransferDescription = "Transfer"

	// DefaultFundingDescription is used for funding entries without one.
	DefaultFundingDescription = "Initial funding"

	// IdempotencyKeyTTL is how long idempotent HTTP responses are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
