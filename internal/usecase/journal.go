package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thebank/coreledger/internal/domain"
)

// Journal is the append-only ledger journal. Balances are never stored;
// they are derived by summing the signed entries of an account, and every
// append snapshots the resulting balance on the entry itself.
type Journal struct {
	entryRepo EntryRepository
	idGen     IDGenerator
}

// NewJournal creates a new Journal.
func NewJournal(entryRepo EntryRepository, idGen IDGenerator) *Journal {
	return &Journal{
		entryRepo: entryRepo,
		idGen:     idGen,
	}
}

// Balance returns the derived balance of an account; zero if it has no
// entries.
func (j *Journal) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return j.entryRepo.SumByAccount(ctx, accountID)
}

// BalanceTx returns the derived balance inside tx. Solvency checks must use
// this form so the read and the subsequent appends share one snapshot.
func (j *Journal) BalanceTx(ctx context.Context, tx Transaction, accountID string) (decimal.Decimal, error) {
	return j.entryRepo.SumByAccountTx(ctx, tx, accountID)
}

// AppendEntryInput describes a single entry to append.
type AppendEntryInput struct {
	At          time.Time
	AccountID   string
	TransferID  string
	Direction   domain.EntryDirection
	Amount      decimal.Decimal
	Description string
}

// Append persists one entry inside tx, computing balance_after from the
// prior derived balance.
func (j *Journal) Append(ctx context.Context, tx Transaction, input AppendEntryInput) (*domain.Entry, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	prior, err := j.BalanceTx(ctx, tx, input.AccountID)
	if err != nil {
		return nil, fmt.Errorf("read prior balance: %w", err)
	}

	balanceAfter := prior.Add(input.Amount)
	if input.Direction == domain.Debit {
		balanceAfter = prior.Sub(input.Amount)
	}

	entry := &domain.Entry{
		ID:           j.idGen.Generate(),
		AccountID:    input.AccountID,
		TransferID:   input.TransferID,
		Direction:    input.Direction,
		Amount:       input.Amount,
		BalanceAfter: balanceAfter,
		Description:  input.Description,
		CreatedAt:    input.At,
	}

	if err := j.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// AppendPairInput describes the debit/credit pair of one transfer.
type AppendPairInput struct {
	At              time.Time
	DebitAccountID  string
	CreditAccountID string
	TransferID      string
	Amount          decimal.Decimal
	DebitDesc       string
	CreditDesc      string
}

// AppendPair appends the DEBIT entry on the source and the CREDIT entry on
// the destination inside one transaction. If either append fails the caller
// rolls back the transaction, so the pair is atomic.
func (j *Journal) AppendPair(ctx context.Context, tx Transaction, input AppendPairInput) (debit, credit *domain.Entry, err error) {
	debit, err = j.Append(ctx, tx, AppendEntryInput{
		AccountID:   input.DebitAccountID,
		TransferID:  input.TransferID,
		Direction:   domain.Debit,
		Amount:      input.Amount,
		Description: input.DebitDesc,
		At:          input.At,
	})
	if err != nil {
		return nil, nil, err
	}

	credit, err = j.Append(ctx, tx, AppendEntryInput{
		AccountID:   input.CreditAccountID,
		TransferID:  input.TransferID,
		Direction:   domain.Credit,
		Amount:      input.Amount,
		Description: input.CreditDesc,
		At:          input.At,
	})
	if err != nil {
		return nil, nil, err
	}

	return debit, credit, nil
}
