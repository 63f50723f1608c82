package user

import (
	"time"

	"github.com/shopspring/decimal"
)

// User mirrors the users table. WalletBalance is mutated only through the
// wallet ledger; everything else is set at account creation.
type User struct {
	ID            int64           `json:"id"`
	Role          string          `json:"role"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	PasswordHash  string          `json:"-"`
	Phone         string          `json:"phone,omitempty"`
	Address       string          `json:"address,omitempty"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	CreatedAt     time.Time       `json:"created_at"`
}
