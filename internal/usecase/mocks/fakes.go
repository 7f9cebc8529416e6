// Package mocks provides test doubles for the usecase interfaces: in-memory
// fakes in this file and generated gomock mocks in mock_interfaces.go.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thebank/coreledger/internal/domain"
	"github.com/thebank/coreledger/internal/usecase"
)

// FakeAccountRepository is an in-memory fake of AccountRepository.
type FakeAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	// LockOrder records the sequence of GetByIDForUpdate calls.
	LockOrder []string

	CreateFunc           func(ctx context.Context, account *domain.Account) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	ListFunc             func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewFakeAccountRepository() *FakeAccountRepository {
	return &FakeAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *FakeAccountRepository) Put(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

func (m *FakeAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.Put(account)
	return nil
}

func (m *FakeAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *FakeAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	m.mu.Lock()
	m.LockOrder = append(m.LockOrder, id)
	m.mu.Unlock()
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *FakeAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	if offset >= len(accounts) {
		return nil, nil
	}
	accounts = accounts[offset:]
	if limit > 0 && len(accounts) > limit {
		accounts = accounts[:limit]
	}
	return accounts, nil
}

// FakeTransferRepository is an in-memory fake of TransferRepository.
// It enforces idempotency-key uniqueness the way the storage layer does.
type FakeTransferRepository struct {
	mu        sync.RWMutex
	transfers map[string]*domain.Transfer
	byKey     map[string]string

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error
	UpdateStatusFunc func(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error
}

func NewFakeTransferRepository() *FakeTransferRepository {
	return &FakeTransferRepository{
		transfers: make(map[string]*domain.Transfer),
		byKey:     make(map[string]string),
	}
}

// Seed inserts a transfer directly, bypassing CreateFunc.
func (m *FakeTransferRepository) Seed(transfer *domain.Transfer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if transfer.IdempotencyKey != "" {
		m.byKey[transfer.IdempotencyKey] = transfer.ID
	}
	copied := *transfer
	m.transfers[transfer.ID] = &copied
}

func (m *FakeTransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transfer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if transfer.IdempotencyKey != "" {
		if _, taken := m.byKey[transfer.IdempotencyKey]; taken {
			return domain.ErrDuplicateIdempotencyKey
		}
		m.byKey[transfer.IdempotencyKey] = transfer.ID
	}
	copied := *transfer
	m.transfers[transfer.ID] = &copied
	return nil
}

func (m *FakeTransferRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, transfer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transfers[transfer.ID]; !ok {
		return domain.ErrTransferNotFound
	}
	copied := *transfer
	m.transfers[transfer.ID] = &copied
	return nil
}

func (m *FakeTransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if tr, ok := m.transfers[id]; ok {
		return tr, nil
	}
	return nil, domain.ErrTransferNotFound
}

func (m *FakeTransferRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Transfer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.byKey[key]; ok {
		return m.transfers[id], nil
	}
	return nil, domain.ErrTransferNotFound
}

func (m *FakeTransferRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transfer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var transfers []*domain.Transfer
	for _, tr := range m.transfers {
		if tr.FromAccountID == accountID || tr.ToAccountID == accountID {
			transfers = append(transfers, tr)
		}
	}
	return transfers, nil
}

// FakeEntryRepository is an in-memory fake of EntryRepository backed by
// an in-memory entry list, so balances derive from real signed sums.
type FakeEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.Entry

	CreateFunc func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
}

func NewFakeEntryRepository() *FakeEntryRepository {
	return &FakeEntryRepository{}
}

// Seed appends an entry directly, bypassing CreateFunc.
func (m *FakeEntryRepository) Seed(entry *domain.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
}

func (m *FakeEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.Seed(entry)
	return nil
}

func (m *FakeEntryRepository) sum(accountID string, before *time.Time) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	for _, e := range m.entries {
		if e.AccountID != accountID {
			continue
		}
		if before != nil && !e.CreatedAt.Before(*before) {
			continue
		}
		total = total.Add(e.Signed())
	}
	return total
}

func (m *FakeEntryRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return m.sum(accountID, nil), nil
}

func (m *FakeEntryRepository) SumByAccountTx(ctx context.Context, tx usecase.Transaction, accountID string) (decimal.Decimal, error) {
	return m.sum(accountID, nil), nil
}

func (m *FakeEntryRepository) SumByAccountBefore(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, error) {
	return m.sum(accountID, &before), nil
}

func (m *FakeEntryRepository) GetByTransfer(ctx context.Context, transferID string) ([]*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.Entry
	for _, e := range m.entries {
		if e.TransferID == transferID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *FakeEntryRepository) ListByAccount(ctx context.Context, accountID string, from, to *time.Time, limit, offset int) ([]*domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.Entry
	for _, e := range m.entries {
		if e.AccountID != accountID {
			continue
		}
		if from != nil && e.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && e.CreatedAt.After(*to) {
			continue
		}
		entries = append(entries, e)
	}
	// Newest first, matching the SQL ordering.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if offset >= len(entries) {
		return nil, nil
	}
	entries = entries[offset:]
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (m *FakeEntryRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// FakeLedgerRepository is an in-memory fake of LedgerRepository.
type FakeLedgerRepository struct {
	CheckConsistencyFunc func(ctx context.Context) (*domain.ConsistencyReport, error)
}

func NewFakeLedgerRepository() *FakeLedgerRepository {
	return &FakeLedgerRepository{}
}

func (m *FakeLedgerRepository) CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error) {
	if m.CheckConsistencyFunc != nil {
		return m.CheckConsistencyFunc(ctx)
	}
	return &domain.ConsistencyReport{}, nil
}

// FakeTransaction records commit/rollback calls.
type FakeTransaction struct {
	mu         sync.Mutex
	Committed  bool
	RolledBack bool

	CommitFunc func(ctx context.Context) error
}

func (t *FakeTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Committed = true
	return nil
}

func (t *FakeTransaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// FakeTransactionManager is an in-memory fake of TransactionManager.
type FakeTransactionManager struct {
	mu           sync.Mutex
	Transactions []*FakeTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewFakeTransactionManager() *FakeTransactionManager {
	return &FakeTransactionManager{}
}

func (m *FakeTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &FakeTransaction{}
	m.Transactions = append(m.Transactions, tx)
	return tx, nil
}

// FakeIDGenerator is an in-memory fake of IDGenerator.
type FakeIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewFakeIDGenerator() *FakeIDGenerator {
	return &FakeIDGenerator{}
}

func (m *FakeIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%04d", m.counter)
}

// FakeRetrier runs the operation once without retrying.
type FakeRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewFakeRetrier() *FakeRetrier {
	return &FakeRetrier{}
}

func (m *FakeRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}
