package domain

import (
	"errors"
	"fmt"
)

var (
	// Caller errors: rejected before anything is persisted.
	ErrAccountNotFound  = errors.New("account not found")
	ErrTransferNotFound = errors.New("transfer not found")
	ErrSameAccount      = errors.New("cannot transfer to same account")
	ErrAccessDenied     = errors.New("no access to source account")

	// ErrInvalidAmount rejects non-positive amounts on entries and funding.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrTransferFinalized guards the monotonic status transition.
	ErrTransferFinalized = errors.New("transfer already in terminal state")

	// Transient infrastructure errors: safe to retry with the same
	// idempotency key.
	ErrLockTimeout             = errors.New("timed out acquiring account lock")
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// RejectedError is a business rejection. The transfer was persisted in
// REJECTED state with the reason before this error surfaced.
type RejectedError struct {
	Reason RejectionReason
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("transfer rejected: %s", e.Reason)
}

// NewRejectedError creates a RejectedError for the given reason.
func NewRejectedError(reason RejectionReason) *RejectedError {
	return &RejectedError{Reason: reason}
}
