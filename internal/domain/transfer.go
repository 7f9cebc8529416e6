package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus is the state of a transfer. Transitions are monotonic:
// PENDING -> COMPLETED or PENDING -> REJECTED, never out of a terminal state.
type TransferStatus string

const (
	TransferPending   TransferStatus = "PENDING"
	TransferCompleted TransferStatus = "COMPLETED"
	TransferRejected  TransferStatus = "REJECTED"
)

// Transfer represents a money movement between two accounts.
type Transfer struct {
	CreatedAt      time.Time
	CompletedAt    *time.Time
	ID             string
	FromAccountID  string
	ToAccountID    string
	Amount         decimal.Decimal
	Currency       string
	Status         TransferStatus
	IdempotencyKey string
	Description    string
	FailureReason  RejectionReason
}

// IsFinal reports whether the transfer reached a terminal state.
func (t *Transfer) IsFinal() bool {
	return t.Status == TransferCompleted || t.Status == TransferRejected
}

// Complete transitions the transfer to COMPLETED.
func (t *Transfer) Complete(at time.Time) error {
	if t.IsFinal() {
		return ErrTransferFinalized
	}

	t.Status = TransferCompleted
	t.CompletedAt = &at

	return nil
}

// Reject transitions the transfer to REJECTED with the given reason.
func (t *Transfer) Reject(reason RejectionReason, at time.Time) error {
	if t.IsFinal() {
		return ErrTransferFinalized
	}

	t.Status = TransferRejected
	t.FailureReason = reason
	t.CompletedAt = &at

	return nil
}
