package integration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/thebank/coreledger/internal/domain"
	"github.com/thebank/coreledger/internal/usecase"
)

func TestConcurrentTransfers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("no double spend under contention", func(t *testing.T) {
		f.db.TruncateAll(ctx)

		source := f.db.CreateTestAccount(ctx, "alice", "USD")
		dest := f.db.CreateTestAccount(ctx, "bob", "USD")
		f.db.FundTestAccount(ctx, source.ID, decimal.NewFromInt(100))

		numTransfers := 20
		transferAmount := decimal.NewFromInt(10) // only 10 of 20 can succeed

		var (
			wg            sync.WaitGroup
			completed     atomic.Int32
			insufficient  atomic.Int32
			unexpectedErr atomic.Int32
		)

		wg.Add(numTransfers)

		for range numTransfers {
			go func() {
				defer wg.Done()

				_, err := f.transferUC.ExecuteTransfer(ctx, usecase.ExecuteTransferInput{
					FromAccountID: source.ID,
					ToAccountID:   dest.ID,
					Amount:        transferAmount,
				})

				var rejected *domain.RejectedError
				switch {
				case err == nil:
					completed.Add(1)
				case errors.As(err, &rejected) && rejected.Reason == domain.ReasonInsufficientFunds:
					insufficient.Add(1)
				default:
					unexpectedErr.Add(1)
					t.Errorf("unexpected transfer error: %v", err)
				}
			}()
		}

		wg.Wait()

		if completed.Load() != 10 {
			t.Errorf("expected exactly 10 completed transfers, got %d (rejected: %d, errors: %d)",
				completed.Load(), insufficient.Load(), unexpectedErr.Load())
		}

		if got := f.db.Balance(ctx, source.ID); !got.IsZero() {
			t.Errorf("expected source balance 0, got %s", got)
		}
		if got := f.db.Balance(ctx, dest.ID); !got.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected dest balance 100, got %s", got)
		}

		report, err := f.ledgerUC.CheckConsistency(ctx)
		if err != nil {
			t.Fatalf("consistency check failed: %v", err)
		}
		if !report.Consistent() {
			t.Errorf("ledger inconsistent after contention: accounts=%v transfers=%v",
				report.MismatchedAccounts, report.UnbalancedTransfers)
		}
	})

	t.Run("opposing transfers do not deadlock", func(t *testing.T) {
		f.db.TruncateAll(ctx)

		a := f.db.CreateTestAccount(ctx, "alice", "USD")
		b := f.db.CreateTestAccount(ctx, "bob", "USD")
		f.db.FundTestAccount(ctx, a.ID, decimal.NewFromInt(500))
		f.db.FundTestAccount(ctx, b.ID, decimal.NewFromInt(500))

		rounds := 50

		var wg sync.WaitGroup
		wg.Add(2 * rounds)

		for range rounds {
			go func() {
				defer wg.Done()

				_, err := f.transferUC.ExecuteTransfer(ctx, usecase.ExecuteTransferInput{
					FromAccountID: a.ID,
					ToAccountID:   b.ID,
					Amount:        decimal.NewFromInt(1),
				})
				if err != nil {
					t.Errorf("a->b transfer failed: %v", err)
				}
			}()

			go func() {
				defer wg.Done()

				_, err := f.transferUC.ExecuteTransfer(ctx, usecase.ExecuteTransferInput{
					FromAccountID: b.ID,
					ToAccountID:   a.ID,
					Amount:        decimal.NewFromInt(1),
				})
				if err != nil {
					t.Errorf("b->a transfer failed: %v", err)
				}
			}()
		}

		wg.Wait()

		// Equal flow in both directions leaves both balances unchanged.
		if got := f.db.Balance(ctx, a.ID); !got.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected balance 500 for a, got %s", got)
		}
		if got := f.db.Balance(ctx, b.ID); !got.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected balance 500 for b, got %s", got)
		}
	})

	t.Run("concurrent submissions of one idempotency key settle on one winner", func(t *testing.T) {
		f.db.TruncateAll(ctx)

		source := f.db.CreateTestAccount(ctx, "alice", "USD")
		dest := f.db.CreateTestAccount(ctx, "bob", "USD")
		f.db.FundTestAccount(ctx, source.ID, decimal.NewFromInt(100))

		attempts := 10

		var (
			wg  sync.WaitGroup
			mu  sync.Mutex
			ids = make(map[string]struct{})
		)

		wg.Add(attempts)

		for range attempts {
			go func() {
				defer wg.Done()

				transfer, err := f.transferUC.ExecuteTransfer(ctx, usecase.ExecuteTransferInput{
					FromAccountID:  source.ID,
					ToAccountID:    dest.ID,
					Amount:         decimal.NewFromInt(40),
					IdempotencyKey: "race-key",
				})
				if err != nil {
					t.Errorf("keyed transfer failed: %v", err)
					return
				}

				mu.Lock()
				ids[transfer.ID] = struct{}{}
				mu.Unlock()
			}()
		}

		wg.Wait()

		if len(ids) != 1 {
			t.Errorf("expected a single winning transfer, got %d distinct IDs", len(ids))
		}

		// Money moved exactly once.
		if got := f.db.Balance(ctx, source.ID); !got.Equal(decimal.NewFromInt(60)) {
			t.Errorf("expected source balance 60, got %s", got)
		}
	})
}
