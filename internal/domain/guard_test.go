package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateTransferPreconditions(t *testing.T) {
	active := func(currency string) *Account {
		return &Account{ID: "acc", Currency: currency, Status: AccountActive}
	}

	tests := []struct {
		name   string
		from   *Account
		to     *Account
		amount decimal.Decimal
		want   RejectionReason
	}{
		{
			name:   "all preconditions hold",
			from:   active("EUR"),
			to:     active("EUR"),
			amount: decimal.NewFromInt(10),
			want:   "",
		},
		{
			name:   "blocked source reported first",
			from:   &Account{Currency: "EUR", Status: AccountBlocked},
			to:     &Account{Currency: "USD", Status: AccountClosed},
			amount: decimal.NewFromInt(-1),
			want:   ReasonSourceNotActive,
		},
		{
			name:   "closed destination",
			from:   active("EUR"),
			to:     &Account{Currency: "USD", Status: AccountClosed},
			amount: decimal.Zero,
			want:   ReasonDestinationNotActive,
		},
		{
			name:   "currency mismatch before amount",
			from:   active("EUR"),
			to:     active("USD"),
			amount: decimal.Zero,
			want:   ReasonCurrencyMismatch,
		},
		{
			name:   "zero amount",
			from:   active("EUR"),
			to:     active("EUR"),
			amount: decimal.Zero,
			want:   ReasonInvalidAmount,
		},
		{
			name:   "negative amount",
			from:   active("EUR"),
			to:     active("EUR"),
			amount: decimal.NewFromInt(-5),
			want:   ReasonInvalidAmount,
		},
		{
			name:   "amount finer than four decimal places",
			from:   active("EUR"),
			to:     active("EUR"),
			amount: decimal.RequireFromString("0.123456789"),
			want:   ReasonInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateTransferPreconditions(tt.from, tt.to, tt.amount)
			if got != tt.want {
				t.Errorf("expected reason %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAccountIsOwnedBy(t *testing.T) {
	acc := &Account{ID: "acc-1", OwnerUserID: "user-1"}

	if !acc.IsOwnedBy("user-1") {
		t.Error("expected owner to match")
	}

	if acc.IsOwnedBy("user-2") {
		t.Error("expected different user to be rejected")
	}

	unowned := &Account{ID: "acc-2"}
	if unowned.IsOwnedBy("") {
		t.Error("account without owner must not match empty user")
	}
}
