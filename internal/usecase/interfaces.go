package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thebank/coreledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// GetByIDForUpdate locks the account row exclusively for the duration
	// of the transaction.
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	// Create persists a transfer. Returns domain.ErrDuplicateIdempotencyKey
	// when the idempotency key is already bound to another transfer.
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	UpdateStatus(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	// GetByIdempotencyKey returns domain.ErrTransferNotFound when the key
	// is unused.
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transfer, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error)
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	// SumByAccount derives the balance from the signed entry sum.
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
	// SumByAccountTx derives the balance inside the given transaction so
	// solvency decisions observe a consistent snapshot.
	SumByAccountTx(ctx context.Context, tx Transaction, accountID string) (decimal.Decimal, error)
	SumByAccountBefore(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, error)
	GetByTransfer(ctx context.Context, transferID string) ([]*domain.Entry, error)
	ListByAccount(ctx context.Context, accountID string, from, to *time.Time, limit, offset int) ([]*domain.Entry, error)
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle. Transactions run at
// snapshot isolation or stronger.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-executes an operation on transient storage failures such as
// deadlock-detector aborts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage for cached responses.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}
