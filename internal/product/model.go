package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is read-only from this service's perspective: the catalog is the
// authoritative price source at order time.
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Spec      string          `json:"spec,omitempty"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

// ListResponse is the paginated product listing payload.
// swagger:model
type ListResponse struct {
	Q     string    `json:"q,omitempty"`
	Items []Product `json:"items"`
}
