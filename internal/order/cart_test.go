package order

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestValidateCart(t *testing.T) {
	t.Parallel()

	if err := ValidateCart(nil); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("empty cart: got %v, want ErrEmptyCart", err)
	}
	if err := ValidateCart([]CartLine{{ProductID: 1, Qty: 0}}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("qty=0: got %v, want ErrInvalidQuantity", err)
	}
	if err := ValidateCart([]CartLine{{ProductID: 1, Qty: -2}}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("qty=-2: got %v, want ErrInvalidQuantity", err)
	}
	if err := ValidateCart([]CartLine{{ProductID: 1, Qty: 1}, {ProductID: 2, Qty: 3}}); err != nil {
		t.Fatalf("valid cart rejected: %v", err)
	}
}

func TestSubtotal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		price string
		qty   int
		want  string
	}{
		{"1.50", 2, "3.00"},
		{"2.00", 1, "2.00"},
		{"4.90", 3, "14.70"},
		{"0.335", 1, "0.34"}, // rounds half away from zero
		{"1.005", 3, "3.02"}, // 3.015 -> 3.02
	}
	for _, tc := range cases {
		got := Subtotal(dec(t, tc.price), tc.qty)
		if got.StringFixed(2) != tc.want {
			t.Errorf("Subtotal(%s, %d) = %s, want %s", tc.price, tc.qty, got.StringFixed(2), tc.want)
		}
	}
}

// Totals are computed from per-line rounded subtotals, not by rounding the
// raw sum. Two lines of 1.005 round to 1.01 each, so the total is 2.02;
// rounding the aggregate instead would give 2.01.
func TestTotal_RoundsPerLineThenSums(t *testing.T) {
	t.Parallel()

	price := dec(t, "1.005")
	items := []Item{
		{Subtotal: Subtotal(price, 1)},
		{Subtotal: Subtotal(price, 1)},
	}
	if got := Total(items); got.StringFixed(2) != "2.02" {
		t.Fatalf("total = %s, want 2.02", got.StringFixed(2))
	}
}

func TestTotal_SampleCart(t *testing.T) {
	t.Parallel()

	items := []Item{
		{ProductID: 1, Qty: 2, PriceEach: dec(t, "1.50"), Subtotal: Subtotal(dec(t, "1.50"), 2)},
		{ProductID: 2, Qty: 1, PriceEach: dec(t, "2.00"), Subtotal: Subtotal(dec(t, "2.00"), 1)},
	}
	if items[0].Subtotal.StringFixed(2) != "3.00" {
		t.Fatalf("first subtotal = %s, want 3.00", items[0].Subtotal.StringFixed(2))
	}
	if items[1].Subtotal.StringFixed(2) != "2.00" {
		t.Fatalf("second subtotal = %s, want 2.00", items[1].Subtotal.StringFixed(2))
	}
	if got := Total(items); got.StringFixed(2) != "5.00" {
		t.Fatalf("total = %s, want 5.00", got.StringFixed(2))
	}
}
