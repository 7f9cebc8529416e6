package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thebank/coreledger/internal/domain"
	"github.com/thebank/coreledger/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

// Create inserts a transfer within the given transaction. A unique index on
// idempotency_key makes concurrent submissions of the same key race to a
// single winner.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO transfers (
			id, from_account_id, to_account_id, amount, currency,
			status, idempotency_key, description, failure_reason,
			created_at, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, NULLIF($9, ''), $10, $11)
	`

	_, err := pgxTx.Exec(ctx, query,
		transfer.ID,
		transfer.FromAccountID,
		transfer.ToAccountID,
		decimalToNumeric(transfer.Amount),
		transfer.Currency,
		string(transfer.Status),
		transfer.IdempotencyKey,
		transfer.Description,
		string(transfer.FailureReason),
		timeToPgTimestamptz(transfer.CreatedAt),
		timePtrToPgTimestamptz(transfer.CompletedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrDuplicateIdempotencyKey
		}

		return err
	}

	return nil
}

// UpdateStatus persists the transfer's terminal state within the transaction.
func (r *TransferRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE transfers
		SET status = $2, failure_reason = NULLIF($3, ''), completed_at = $4
		WHERE id = $1
	`

	tag, err := pgxTx.Exec(ctx, query,
		transfer.ID,
		string(transfer.Status),
		string(transfer.FailureReason),
		timePtrToPgTimestamptz(transfer.CompletedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransferNotFound
	}

	return nil
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	query := transferSelect + ` WHERE id = $1`

	return scanTransfer(r.pool.QueryRow(ctx, query, id))
}

// GetByIdempotencyKey retrieves the transfer bound to an idempotency key.
func (r *TransferRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transfer, error) {
	query := transferSelect + ` WHERE idempotency_key = $1`

	return scanTransfer(r.pool.QueryRow(ctx, query, key))
}

// ListByAccount lists transfers touching an account, newest first.
func (r *TransferRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error) {
	query := transferSelect + `
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*domain.Transfer
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}

	return transfers, rows.Err()
}

const transferSelect = `
	SELECT id, from_account_id, to_account_id, amount, currency,
	       status, COALESCE(idempotency_key, ''), description,
	       COALESCE(failure_reason, ''), created_at, completed_at
	FROM transfers
`

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var (
		transfer      domain.Transfer
		amount        pgtype.Numeric
		status        string
		failureReason string
		createdAt     pgtype.Timestamptz
		completedAt   pgtype.Timestamptz
	)

	err := row.Scan(
		&transfer.ID,
		&transfer.FromAccountID,
		&transfer.ToAccountID,
		&amount,
		&transfer.Currency,
		&status,
		&transfer.IdempotencyKey,
		&transfer.Description,
		&failureReason,
		&createdAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	transfer.Amount = numericToDecimal(amount)
	transfer.Status = domain.TransferStatus(status)
	transfer.FailureReason = domain.RejectionReason(failureReason)
	transfer.CreatedAt = createdAt.Time
	if completedAt.Valid {
		t := completedAt.Time
		transfer.CompletedAt = &t
	}

	return &transfer, nil
}

func timePtrToPgTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}

	return pgtype.Timestamptz{Time: *t, Valid: true}
}
