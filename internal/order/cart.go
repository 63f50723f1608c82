package order

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart       = errors.New("cart must contain at least one item")
	ErrInvalidQuantity = errors.New("qty must be > 0")
)

// ProductNotFoundError reports which cart line referenced a missing product.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// CartLine is a product/quantity pair as submitted by the caller.
type CartLine struct {
	ProductID int64
	Qty       int
}

// ValidateCart rejects malformed carts before any transaction starts.
func ValidateCart(lines []CartLine) error {
	if len(lines) == 0 {
		return ErrEmptyCart
	}
	for _, l := range lines {
		if l.Qty <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// Subtotal prices one cart line: unit price times quantity, rounded to
// 2 decimal places per line before lines are summed. The rounding point
// matters: changing it would drift totals on fractional prices.
func Subtotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}

// Total sums already-rounded line subtotals into the order total.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	return total.Round(2)
}
