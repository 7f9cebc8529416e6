package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/thebank/coreledger/internal/domain"
	"github.com/thebank/coreledger/internal/usecase"
	"github.com/thebank/coreledger/internal/usecase/mocks"
)

type ledgerFixture struct {
	accountRepo *mocks.FakeAccountRepository
	entryRepo   *mocks.FakeEntryRepository
	ledgerRepo  *mocks.FakeLedgerRepository
	txManager   *mocks.FakeTransactionManager
	uc          *usecase.LedgerUseCase
}

func newLedgerFixture() *ledgerFixture {
	accountRepo := mocks.NewFakeAccountRepository()
	entryRepo := mocks.NewFakeEntryRepository()
	ledgerRepo := mocks.NewFakeLedgerRepository()
	txManager := mocks.NewFakeTransactionManager()
	journal := usecase.NewJournal(entryRepo, mocks.NewFakeIDGenerator())

	return &ledgerFixture{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		ledgerRepo:  ledgerRepo,
		txManager:   txManager,
		uc:          usecase.NewLedgerUseCase(txManager, accountRepo, entryRepo, ledgerRepo, journal, mocks.NewFakeRetrier()),
	}
}

func (f *ledgerFixture) seedAccount(id string) *domain.Account {
	account := &domain.Account{
		ID:          id,
		OwnerUserID: "user-1",
		Currency:    "USD",
		Status:      domain.AccountActive,
		CreatedAt:   time.Now().UTC(),
	}
	f.accountRepo.Put(account)
	return account
}

func TestGetBalance(t *testing.T) {
	f := newLedgerFixture()
	f.seedAccount("acc-1")
	f.entryRepo.Seed(&domain.Entry{ID: "e1", AccountID: "acc-1", Direction: domain.Credit, Amount: decimal.NewFromInt(100)})
	f.entryRepo.Seed(&domain.Entry{ID: "e2", AccountID: "acc-1", Direction: domain.Debit, Amount: decimal.NewFromInt(25)})

	balance, err := f.uc.GetBalance(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(75)))
}

func TestGetBalanceUnknownAccount(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.uc.GetBalance(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAppendFunding(t *testing.T) {
	f := newLedgerFixture()
	f.seedAccount("acc-1")

	entry, err := f.uc.AppendFunding(context.Background(), usecase.FundingInput{
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.Credit, entry.Direction)
	assert.Equal(t, usecase.DefaultFundingDescription, entry.Description)
	assert.True(t, entry.BalanceAfter.Equal(decimal.NewFromInt(500)))
	assert.Empty(t, entry.TransferID)

	require.Len(t, f.txManager.Transactions, 1)
	assert.True(t, f.txManager.Transactions[0].Committed)
	assert.Equal(t, []string{"acc-1"}, f.accountRepo.LockOrder)
}

func TestAppendFundingInvalidAmount(t *testing.T) {
	f := newLedgerFixture()
	f.seedAccount("acc-1")

	_, err := f.uc.AppendFunding(context.Background(), usecase.FundingInput{
		AccountID: "acc-1",
		Amount:    decimal.NewFromInt(-10),
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.Empty(t, f.txManager.Transactions)
}

func TestAppendFundingUnknownAccount(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.uc.AppendFunding(context.Background(), usecase.FundingInput{
		AccountID: "missing",
		Amount:    decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	require.Len(t, f.txManager.Transactions, 1)
	assert.True(t, f.txManager.Transactions[0].RolledBack)
}

func TestGetStatement(t *testing.T) {
	f := newLedgerFixture()
	f.seedAccount("acc-1")

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f.entryRepo.Seed(&domain.Entry{ID: "e1", AccountID: "acc-1", Direction: domain.Credit, Amount: decimal.NewFromInt(100), CreatedAt: base.AddDate(0, -1, 0)})
	f.entryRepo.Seed(&domain.Entry{ID: "e2", AccountID: "acc-1", Direction: domain.Debit, Amount: decimal.NewFromInt(20), CreatedAt: base.AddDate(0, 0, 5)})
	f.entryRepo.Seed(&domain.Entry{ID: "e3", AccountID: "acc-1", Direction: domain.Credit, Amount: decimal.NewFromInt(7), CreatedAt: base.AddDate(0, 0, 10)})

	to := base.AddDate(0, 1, 0)
	statement, err := f.uc.GetStatement(context.Background(), usecase.StatementInput{
		AccountID: "acc-1",
		From:      &base,
		To:        &to,
	})
	require.NoError(t, err)

	// Only the in-range entries, newest first.
	require.Len(t, statement.Entries, 2)
	assert.Equal(t, "e3", statement.Entries[0].ID)
	assert.Equal(t, "e2", statement.Entries[1].ID)

	assert.True(t, statement.OpeningBalance.Equal(decimal.NewFromInt(100)))
	assert.True(t, statement.ClosingBalance.Equal(decimal.NewFromInt(87)))
	assert.Equal(t, 50, statement.Limit)
}

func TestGetStatementWithoutRangeHasZeroOpening(t *testing.T) {
	f := newLedgerFixture()
	f.seedAccount("acc-1")
	f.entryRepo.Seed(&domain.Entry{ID: "e1", AccountID: "acc-1", Direction: domain.Credit, Amount: decimal.NewFromInt(100)})

	statement, err := f.uc.GetStatement(context.Background(), usecase.StatementInput{AccountID: "acc-1"})
	require.NoError(t, err)

	assert.True(t, statement.OpeningBalance.IsZero())
	assert.True(t, statement.ClosingBalance.Equal(decimal.NewFromInt(100)))
	require.Len(t, statement.Entries, 1)
}

func TestCheckConsistency(t *testing.T) {
	ctrl := gomock.NewController(t)

	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	report := &domain.ConsistencyReport{
		MismatchedAccounts:  []string{"acc-7"},
		UnbalancedTransfers: []string{"tr-3"},
	}
	ledgerRepo.EXPECT().CheckConsistency(gomock.Any()).Return(report, nil)

	uc := usecase.NewLedgerUseCase(
		mocks.NewFakeTransactionManager(),
		mocks.NewFakeAccountRepository(),
		mocks.NewFakeEntryRepository(),
		ledgerRepo,
		usecase.NewJournal(mocks.NewFakeEntryRepository(), mocks.NewFakeIDGenerator()),
		mocks.NewFakeRetrier(),
	)

	got, err := uc.CheckConsistency(context.Background())
	require.NoError(t, err)
	assert.False(t, got.Consistent())
	assert.Equal(t, report, got)
}
