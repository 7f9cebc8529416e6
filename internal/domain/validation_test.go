package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateCurrency(t *testing.T) {
	tests := []struct {
		currency string
		wantErr  bool
	}{
		{"EUR", false},
		{"usd", false},
		{" GBP ", false},
		{"XXX", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.currency, func(t *testing.T) {
			err := ValidateCurrency(tt.currency)
			if tt.wantErr && err == nil {
				t.Errorf("expected error for %q", tt.currency)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for %q: %v", tt.currency, err)
			}
		})
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(decimal.NewFromInt(100)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}

	huge, _ := decimal.NewFromString("2000000000000")
	if err := ValidateAmount(huge); !errors.Is(err, ErrAmountTooLarge) {
		t.Errorf("expected ErrAmountTooLarge, got %v", err)
	}

	fine, _ := decimal.NewFromString("0.123456789")
	if err := ValidateAmount(fine); !errors.Is(err, ErrAmountTooPrecise) {
		t.Errorf("expected ErrAmountTooPrecise, got %v", err)
	}

	// Trailing zeros beyond the scale are still representable.
	padded, _ := decimal.NewFromString("1.5000000")
	if err := ValidateAmount(padded); err != nil {
		t.Errorf("unexpected error for padded amount: %v", err)
	}
}

func TestHasValidScale(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{"10", true},
		{"0.0001", true},
		{"1.5000000", true},
		{"0.00001", false},
		{"0.123456789", false},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			d, _ := decimal.NewFromString(tt.amount)
			if got := HasValidScale(d); got != tt.want {
				t.Errorf("HasValidScale(%s) = %v, want %v", tt.amount, got, tt.want)
			}
		})
	}
}

func TestValidatePagination(t *testing.T) {
	limit, offset := ValidatePagination(0, -5)
	if limit != 50 || offset != 0 {
		t.Errorf("expected defaults 50/0, got %d/%d", limit, offset)
	}

	limit, _ = ValidatePagination(5000, 0)
	if limit != 1000 {
		t.Errorf("expected limit clamped to 1000, got %d", limit)
	}
}
