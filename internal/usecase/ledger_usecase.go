package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thebank/coreledger/internal/domain"
)

// LedgerUseCase exposes the ledger journal to callers: derived balances,
// administrative funding entries, account statements and the ledger-wide
// consistency audit.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	ledgerRepo  LedgerRepository
	journal     *Journal
	retrier     Retrier
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	ledgerRepo LedgerRepository,
	journal *Journal,
	retrier Retrier,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		ledgerRepo:  ledgerRepo,
		journal:     journal,
		retrier:     retrier,
	}
}

// GetBalance returns the derived balance of an account.
func (uc *LedgerUseCase) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}

	return uc.journal.Balance(ctx, accountID)
}

// FundingInput represents an administrative credit with no paired debit.
type FundingInput struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
}

// AppendFunding credits an account outside of a transfer. The account row is
// locked so the balance snapshot on the new entry is consistent with
// concurrent transfers.
func (uc *LedgerUseCase) AppendFunding(ctx context.Context, input FundingInput) (*domain.Entry, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	var entry *domain.Entry

	err := uc.retrier.Retry(ctx, func() error {
		var opErr error
		entry, opErr = uc.appendFunding(ctx, input)

		return opErr
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (uc *LedgerUseCase) appendFunding(ctx context.Context, input FundingInput) (*domain.Entry, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	description := input.Description
	if description == "" {
		description = DefaultFundingDescription
	}

	entry, err := uc.journal.Append(ctx, tx, AppendEntryInput{
		AccountID:   account.ID,
		Direction:   domain.Credit,
		Amount:      input.Amount,
		Description: description,
		At:          time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return entry, nil
}

// StatementInput represents input for an account statement.
type StatementInput struct {
	From      *time.Time
	To        *time.Time
	AccountID string
	Limit     int
	Offset    int
}

// GetStatement returns an account's entries newest first, with the opening
// balance derived from entries before the range start and the closing
// balance derived from the full history.
func (uc *LedgerUseCase) GetStatement(ctx context.Context, input StatementInput) (*domain.Statement, error) {
	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	entries, err := uc.entryRepo.ListByAccount(ctx, input.AccountID, input.From, input.To, limit, offset)
	if err != nil {
		return nil, err
	}

	closing, err := uc.journal.Balance(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	opening := decimal.Zero
	if input.From != nil {
		opening, err = uc.entryRepo.SumByAccountBefore(ctx, input.AccountID, *input.From)
		if err != nil {
			return nil, err
		}
	}

	return &domain.Statement{
		AccountID:      input.AccountID,
		From:           input.From,
		To:             input.To,
		OpeningBalance: opening,
		ClosingBalance: closing,
		Entries:        entries,
		Limit:          limit,
		Offset:         offset,
	}, nil
}

// GetEntriesByTransfer lists the entries bound to a transfer.
func (uc *LedgerUseCase) GetEntriesByTransfer(ctx context.Context, transferID string) ([]*domain.Entry, error) {
	return uc.entryRepo.GetByTransfer(ctx, transferID)
}

// CheckConsistency audits the whole ledger.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error) {
	return uc.ledgerRepo.CheckConsistency(ctx)
}
