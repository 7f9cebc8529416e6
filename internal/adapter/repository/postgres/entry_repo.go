package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/thebank/coreledger/internal/domain"
	"github.com/thebank/coreledger/internal/usecase"
)

// signedSum derives a balance from the entry rows themselves. Balances are
// never stored on the account row.
const signedSum = `
	COALESCE(SUM(CASE WHEN direction = 'CREDIT' THEN amount ELSE -amount END), 0)
`

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create appends a ledger entry within the given transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO ledger_entries (
			id, account_id, transfer_id, direction, amount,
			balance_after, description, created_at
		)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)
	`

	_, err := pgxTx.Exec(ctx, query,
		entry.ID,
		entry.AccountID,
		entry.TransferID,
		string(entry.Direction),
		decimalToNumeric(entry.Amount),
		decimalToNumeric(entry.BalanceAfter),
		entry.Description,
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// SumByAccount derives an account's balance from its full entry history.
func (r *EntryRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `SELECT ` + signedSum + ` FROM ledger_entries WHERE account_id = $1`

	return r.scanSum(r.pool.QueryRow(ctx, query, accountID))
}

// SumByAccountTx derives the balance inside the given transaction so the
// solvency check and the appended entries observe the same snapshot.
func (r *EntryRepository) SumByAccountTx(ctx context.Context, tx usecase.Transaction, accountID string) (decimal.Decimal, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + signedSum + ` FROM ledger_entries WHERE account_id = $1`

	return r.scanSum(pgxTx.QueryRow(ctx, query, accountID))
}

// SumByAccountBefore derives the balance from entries created strictly before
// the given instant. Used for statement opening balances.
func (r *EntryRepository) SumByAccountBefore(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, error) {
	query := `SELECT ` + signedSum + ` FROM ledger_entries WHERE account_id = $1 AND created_at < $2`

	return r.scanSum(r.pool.QueryRow(ctx, query, accountID, timeToPgTimestamptz(before)))
}

// GetByTransfer lists the entry pair recorded for a transfer.
func (r *EntryRepository) GetByTransfer(ctx context.Context, transferID string) ([]*domain.Entry, error) {
	query := entrySelect + ` WHERE transfer_id = $1 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, transferID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// ListByAccount lists an account's entries newest first, optionally bounded
// by a time range.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, from, to *time.Time, limit, offset int) ([]*domain.Entry, error) {
	query := entrySelect + `
		WHERE account_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.pool.Query(ctx, query, accountID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

func (r *EntryRepository) scanSum(row pgx.Row) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

const entrySelect = `
	SELECT id, account_id, COALESCE(transfer_id, ''), direction, amount,
	       balance_after, description, created_at
	FROM ledger_entries
`

func collectEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	for rows.Next() {
		var (
			entry        domain.Entry
			direction    string
			amount       pgtype.Numeric
			balanceAfter pgtype.Numeric
			createdAt    pgtype.Timestamptz
		)

		err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.TransferID,
			&direction,
			&amount,
			&balanceAfter,
			&entry.Description,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		entry.Direction = domain.EntryDirection(direction)
		entry.Amount = numericToDecimal(amount)
		entry.BalanceAfter = numericToDecimal(balanceAfter)
		entry.CreatedAt = createdAt.Time

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
