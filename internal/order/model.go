package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusConfirmed is the only status checkout produces; orders are immutable
// once committed.
const StatusConfirmed = "CONFIRMED"

type Order struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

type Item struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Qty       int             `json:"qty"`
	PriceEach decimal.Decimal `json:"price_each"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
