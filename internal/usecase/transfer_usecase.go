package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thebank/coreledger/internal/domain"
)

// TransferUseCase orchestrates money movement between two accounts. Every
// execution runs inside one serializable transaction: account locks,
// precondition validation, the solvency check against the derived balance
// and the debit/credit pair append commit or roll back as a unit.
type TransferUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	transferRepo TransferRepository
	journal      *Journal
	retrier      Retrier
	idGen        IDGenerator
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transferRepo TransferRepository,
	journal *Journal,
	retrier Retrier,
	idGen IDGenerator,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		journal:      journal,
		retrier:      retrier,
		idGen:        idGen,
	}
}

// ExecuteTransferInput represents a transfer request.
type ExecuteTransferInput struct {
	FromAccountID  string
	ToAccountID    string
	Amount         decimal.Decimal
	Description    string
	IdempotencyKey string
	ActingUserID   string
}

// ExecuteTransfer runs a transfer request to a terminal state.
//
// Business rejections (inactive account, currency mismatch, invalid amount,
// insufficient funds) persist a REJECTED transfer and return it together
// with a *domain.RejectedError. Caller errors (not found, same account,
// access denied) persist nothing. A request whose idempotency key is already
// bound returns the prior transfer unchanged.
func (uc *TransferUseCase) ExecuteTransfer(ctx context.Context, input ExecuteTransferInput) (*domain.Transfer, error) {
	if input.IdempotencyKey != "" {
		existing, err := uc.transferRepo.GetByIdempotencyKey(ctx, input.IdempotencyKey)
		if err == nil {
			return existing, nil
		}

		if !errors.Is(err, domain.ErrTransferNotFound) {
			return nil, err
		}
	}

	if input.FromAccountID == input.ToAccountID {
		return nil, domain.ErrSameAccount
	}

	var transfer *domain.Transfer

	err := uc.retrier.Retry(ctx, func() error {
		var opErr error
		transfer, opErr = uc.execute(ctx, input)

		return opErr
	})
	if err != nil {
		// Two concurrent requests raced on a fresh key: the uniqueness
		// constraint let exactly one row in, so return the winner.
		if errors.Is(err, domain.ErrDuplicateIdempotencyKey) && input.IdempotencyKey != "" {
			return uc.transferRepo.GetByIdempotencyKey(ctx, input.IdempotencyKey)
		}

		var rejected *domain.RejectedError
		if errors.As(err, &rejected) {
			return transfer, err
		}

		return nil, err
	}

	return transfer, nil
}

func (uc *TransferUseCase) execute(ctx context.Context, input ExecuteTransferInput) (*domain.Transfer, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock both accounts in lexicographic ID order regardless of transfer
	// direction. Concurrent transfers over the same pair always contend in
	// the same sequence, so no lock cycle can form.
	firstID, secondID := input.FromAccountID, input.ToAccountID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	first, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, firstID)
	if err != nil {
		return nil, err
	}

	second, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, secondID)
	if err != nil {
		return nil, err
	}

	from, to := first, second
	if from.ID != input.FromAccountID {
		from, to = second, first
	}

	if input.ActingUserID != "" && !from.IsOwnedBy(input.ActingUserID) {
		return nil, domain.ErrAccessDenied
	}

	now := time.Now().UTC()

	description := input.Description
	if description == "" {
		description = DefaultTransferDescription
	}

	transfer := &domain.Transfer{
		ID:             uc.idGen.Generate(),
		FromAccountID:  from.ID,
		ToAccountID:    to.ID,
		Amount:         input.Amount,
		Currency:       from.Currency,
		Status:         domain.TransferPending,
		IdempotencyKey: input.IdempotencyKey,
		Description:    description,
		CreatedAt:      now,
	}

	if reason := domain.ValidateTransferPreconditions(from, to, input.Amount); reason != "" {
		return uc.reject(ctx, tx, transfer, reason, now)
	}

	// Solvency is decided on the balance derived inside this transaction;
	// entries committed after the snapshot cannot be observed.
	balance, err := uc.journal.BalanceTx(ctx, tx, from.ID)
	if err != nil {
		return nil, err
	}

	if balance.LessThan(input.Amount) {
		return uc.reject(ctx, tx, transfer, domain.ReasonInsufficientFunds, now)
	}

	if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
		return nil, err
	}

	_, _, err = uc.journal.AppendPair(ctx, tx, AppendPairInput{
		DebitAccountID:  from.ID,
		CreditAccountID: to.ID,
		TransferID:      transfer.ID,
		Amount:          input.Amount,
		DebitDesc:       description + " to " + to.ID,
		CreditDesc:      description + " from " + from.ID,
		At:              now,
	})
	if err != nil {
		return nil, err
	}

	if err := transfer.Complete(now); err != nil {
		return nil, err
	}

	if err := uc.transferRepo.UpdateStatus(ctx, tx, transfer); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return transfer, nil
}

// reject persists the transfer in REJECTED state so the failure is auditable
// and the idempotency key stays bound, then surfaces the reason.
func (uc *TransferUseCase) reject(
	ctx context.Context,
	tx Transaction,
	transfer *domain.Transfer,
	reason domain.RejectionReason,
	now time.Time,
) (*domain.Transfer, error) {
	if err := transfer.Reject(reason, now); err != nil {
		return nil, err
	}

	if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return transfer, domain.NewRejectedError(reason)
}

// GetTransfer retrieves a transfer by ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	return uc.transferRepo.GetByID(ctx, id)
}

// ListTransfersByAccountInput represents input for listing transfers.
type ListTransfersByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListTransfersByAccount lists transfers touching an account, newest first.
func (uc *TransferUseCase) ListTransfersByAccount(ctx context.Context, input ListTransfersByAccountInput) ([]*domain.Transfer, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.transferRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}
