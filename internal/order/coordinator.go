package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/grocerylab/grocery-backend/internal/db"
	"github.com/grocerylab/grocery-backend/internal/wallet"
)

// Placer is the checkout API the HTTP layer consumes.
type Placer interface {
	PlaceOrder(ctx context.Context, userID int64, lines []CartLine) (*Receipt, error)
}

// Coordinator turns a cart into a committed order with a correctly debited
// wallet, or fails without side effects. Order insert, item inserts, balance
// update and ledger row share one transaction, and the user row lock is the
// same one the ledger uses, so checkout and top-up on one user cannot
// interleave.
type Coordinator struct {
	db          *pgxpool.Pool
	lockTimeout time.Duration
}

func NewCoordinator(pool *pgxpool.Pool, lockTimeout time.Duration) *Coordinator {
	return &Coordinator{db: pool, lockTimeout: lockTimeout}
}

func (c *Coordinator) PlaceOrder(ctx context.Context, userID int64, lines []CartLine) (*Receipt, error) {
	if err := ValidateCart(lines); err != nil {
		return nil, err
	}

	tx, err := c.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin order tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := db.SetLockTimeout(ctx, tx, c.lockTimeout); err != nil {
		return nil, fmt.Errorf("set lock timeout: %w", err)
	}

	// Price every line from the catalog inside the transaction. Quantize per
	// line, then sum.
	items := make([]Item, 0, len(lines))
	for _, l := range lines {
		price, err := c.lookupPrice(ctx, tx, l.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, Item{
			ProductID: l.ProductID,
			Qty:       l.Qty,
			PriceEach: price,
			Subtotal:  Subtotal(price, l.Qty),
		})
	}
	total := Total(items)

	// Lock the user row before comparing funds; the lock is held to commit,
	// so two concurrent checkouts for one user serialize here.
	balance, err := wallet.LockBalance(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if balance.LessThan(total) {
		return nil, wallet.ErrInsufficientFunds
	}

	var orderID int64
	if err := tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, status, total)
		VALUES ($1,$2,$3)
		RETURNING id
	`, userID, StatusConfirmed, total.StringFixed(2)).Scan(&orderID); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, qty, price_each, subtotal)
			VALUES ($1,$2,$3,$4,$5)
		`, orderID, it.ProductID, it.Qty, it.PriceEach.StringFixed(2), it.Subtotal.StringFixed(2)); err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	entry, err := wallet.Apply(ctx, tx, userID, wallet.KindDebit, total, &orderID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}

	return &Receipt{
		OrderID:       orderID,
		Status:        StatusConfirmed,
		Charged:       total,
		WalletBalance: entry.BalanceAfter,
	}, nil
}

func (c *Coordinator) lookupPrice(ctx context.Context, tx pgx.Tx, productID int64) (decimal.Decimal, error) {
	var raw string
	err := tx.QueryRow(ctx, `
		SELECT price::text FROM products WHERE id=$1
	`, productID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Decimal{}, &ProductNotFoundError{ProductID: productID}
		}
		return decimal.Decimal{}, fmt.Errorf("lookup product %d: %w", productID, err)
	}
	return decimal.NewFromString(raw)
}
