package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the ledger entry type. TOP_UP and REFUND credit the wallet, DEBIT
// charges it, ADJUST applies a signed correction in either direction.
type Kind string

const (
	KindTopUp  Kind = "TOP_UP"
	KindDebit  Kind = "DEBIT"
	KindRefund Kind = "REFUND"
	KindAdjust Kind = "ADJUST"
)

// ParseKind validates a client-supplied kind string.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindTopUp, KindDebit, KindRefund, KindAdjust:
		return Kind(s), true
	}
	return "", false
}

// Signed turns a magnitude into the signed delta this kind applies to the
// balance. ADJUST amounts already carry their own sign.
func (k Kind) Signed(amount decimal.Decimal) decimal.Decimal {
	if k == KindDebit {
		return amount.Neg()
	}
	return amount
}

// Entry is one append-only ledger row. BalanceAfter snapshots the wallet
// balance as of this entry's commit.
type Entry struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	Kind         Kind            `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	OrderID      *int64          `json:"order_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
