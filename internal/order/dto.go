package order

import "github.com/shopspring/decimal"

// CreateOrderItem is one cart line in the request payload.
// swagger:model CreateOrderItem
type CreateOrderItem struct {
	ProductID int64 `json:"product_id" example:"1"`
	Qty       int   `json:"qty"        example:"2"`
}

// CreateOrderRequest is the checkout payload. Prices are never part of it;
// the catalog is the only price authority.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	UserID int64             `json:"user_id" example:"2"`
	Items  []CreateOrderItem `json:"items"`
}

// Receipt is the success response for a placed order.
// swagger:model Receipt
type Receipt struct {
	OrderID       int64           `json:"order_id"`
	Status        string          `json:"status"`
	Charged       decimal.Decimal `json:"charged"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
}
