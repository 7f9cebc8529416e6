package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thebank/coreledger/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// CheckConsistency audits the ledger. An account is flagged when the
// balance_after snapshot on its latest entry disagrees with the signed sum of
// its entries. A completed transfer is flagged unless it carries exactly one
// debit and one credit of equal amount.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error) {
	mismatched, err := r.mismatchedAccounts(ctx)
	if err != nil {
		return nil, err
	}

	unbalanced, err := r.unbalancedTransfers(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.ConsistencyReport{
		MismatchedAccounts:  mismatched,
		UnbalancedTransfers: unbalanced,
	}, nil
}

func (r *LedgerRepository) mismatchedAccounts(ctx context.Context) ([]string, error) {
	query := `
		WITH latest AS (
			SELECT DISTINCT ON (account_id) account_id, balance_after
			FROM ledger_entries
			ORDER BY account_id, created_at DESC, id DESC
		),
		sums AS (
			SELECT account_id,
			       COALESCE(SUM(CASE WHEN direction = 'CREDIT' THEN amount ELSE -amount END), 0) AS total
			FROM ledger_entries
			GROUP BY account_id
		)
		SELECT latest.account_id
		FROM latest
		JOIN sums ON sums.account_id = latest.account_id
		WHERE latest.balance_after <> sums.total
		ORDER BY latest.account_id
	`

	return r.collectIDs(ctx, query)
}

func (r *LedgerRepository) unbalancedTransfers(ctx context.Context) ([]string, error) {
	query := `
		SELECT t.id
		FROM transfers t
		LEFT JOIN ledger_entries e ON e.transfer_id = t.id
		WHERE t.status = 'COMPLETED'
		GROUP BY t.id, t.amount
		HAVING COUNT(*) FILTER (WHERE e.direction = 'DEBIT') <> 1
		    OR COUNT(*) FILTER (WHERE e.direction = 'CREDIT') <> 1
		    OR COALESCE(SUM(CASE WHEN e.direction = 'CREDIT' THEN e.amount ELSE -e.amount END), -1) <> 0
		    OR MAX(e.amount) <> t.amount
		ORDER BY t.id
	`

	return r.collectIDs(ctx, query)
}

func (r *LedgerRepository) collectIDs(ctx context.Context, query string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, pgx.RowTo[string])
}
