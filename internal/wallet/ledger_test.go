package wallet

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

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"TOP_UP", "DEBIT", "REFUND", "ADJUST"} {
		if _, ok := ParseKind(valid); !ok {
			t.Errorf("ParseKind(%q) rejected a valid kind", valid)
		}
	}
	for _, invalid := range []string{"", "top_up", "TRANSFER", "DEPOSIT"} {
		if _, ok := ParseKind(invalid); ok {
			t.Errorf("ParseKind(%q) accepted an invalid kind", invalid)
		}
	}
}

func TestKindSigned(t *testing.T) {
	t.Parallel()

	amount := dec(t, "10.00")
	if got := KindTopUp.Signed(amount); !got.Equal(amount) {
		t.Errorf("TOP_UP signed = %s, want %s", got, amount)
	}
	if got := KindRefund.Signed(amount); !got.Equal(amount) {
		t.Errorf("REFUND signed = %s, want %s", got, amount)
	}
	if got := KindDebit.Signed(amount); !got.Equal(amount.Neg()) {
		t.Errorf("DEBIT signed = %s, want %s", got, amount.Neg())
	}
	// ADJUST passes the caller's sign through
	neg := dec(t, "-3.25")
	if got := KindAdjust.Signed(neg); !got.Equal(neg) {
		t.Errorf("ADJUST signed = %s, want %s", got, neg)
	}
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	topUpCap := decimal.NewFromInt(100)

	cases := []struct {
		name    string
		kind    Kind
		amount  string
		want    string
		wantErr error
	}{
		{"topup ok", KindTopUp, "50.00", "50.00", nil},
		{"topup at cap", KindTopUp, "100.00", "100.00", nil},
		{"topup over cap", KindTopUp, "150.00", "", ErrTopUpLimit},
		{"topup zero", KindTopUp, "0", "", ErrInvalidAmount},
		{"topup negative", KindTopUp, "-5", "", ErrInvalidAmount},
		{"debit ok no cap", KindDebit, "250.00", "250.00", nil},
		{"refund ok", KindRefund, "12.34", "12.34", nil},
		{"adjust negative ok", KindAdjust, "-7.50", "-7.50", nil},
		{"adjust zero", KindAdjust, "0.00", "", ErrInvalidAmount},
		{"rounds to 2dp", KindTopUp, "10.005", "10.01", nil},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ValidateAmount(tc.kind, dec(t, tc.amount), topUpCap)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.StringFixed(2) != tc.want {
				t.Fatalf("amount = %s, want %s", got.StringFixed(2), tc.want)
			}
		})
	}
}
