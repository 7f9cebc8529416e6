package integration

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/thebank/coreledger/internal/adapter/repository/postgres"
	"github.com/thebank/coreledger/internal/usecase"
	"github.com/thebank/coreledger/tests/testutil"
)

// fixture wires the full use case stack against a real database.
type fixture struct {
	db         *testutil.TestDB
	accountUC  *usecase.AccountUseCase
	transferUC *usecase.TransferUseCase
	ledgerUC   *usecase.LedgerUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)

	pool := testDB.Pool
	accountRepo := postgres.NewAccountRepository(pool)
	transferRepo := postgres.NewTransferRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier(zerolog.Nop())

	journal := usecase.NewJournal(entryRepo, idGen)

	return &fixture{
		db:         testDB,
		accountUC:  usecase.NewAccountUseCase(accountRepo, idGen),
		transferUC: usecase.NewTransferUseCase(txManager, accountRepo, transferRepo, journal, retrier, idGen),
		ledgerUC:   usecase.NewLedgerUseCase(txManager, accountRepo, entryRepo, ledgerRepo, journal, retrier),
	}
}
