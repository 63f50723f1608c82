package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("order not found")

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Order, []Item, error)
	GetItems(ctx context.Context, orderID int64) ([]Item, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Order, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Order, []Item, error) {
	o, err := r.scanOrder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := r.GetItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return o, items, nil
}

func (r *PGRepo) scanOrder(ctx context.Context, id int64) (*Order, error) {
	var o Order
	var totalRaw string
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, status, total::text, created_at
		FROM orders WHERE id=$1
	`, id).Scan(&o.ID, &o.UserID, &o.Status, &totalRaw, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if o.Total, err = decimal.NewFromString(totalRaw); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGRepo) GetItems(ctx context.Context, orderID int64) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, qty, price_each::text, subtotal::text
		FROM order_items WHERE order_id=$1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var priceRaw, subRaw string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Qty, &priceRaw, &subRaw); err != nil {
			return nil, err
		}
		if it.PriceEach, err = decimal.NewFromString(priceRaw); err != nil {
			return nil, err
		}
		if it.Subtotal, err = decimal.NewFromString(subRaw); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PGRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, status, total::text, created_at
		FROM orders WHERE user_id=$1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		var totalRaw string
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &totalRaw, &o.CreatedAt); err != nil {
			return nil, err
		}
		if o.Total, err = decimal.NewFromString(totalRaw); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
