package main

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/grocerylab/grocery-backend/internal/config"
	"github.com/grocerylab/grocery-backend/internal/db"
	"github.com/grocerylab/grocery-backend/internal/order"
	"github.com/grocerylab/grocery-backend/internal/user"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		role TEXT NOT NULL DEFAULT 'customer',
		name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		phone TEXT,
		address TEXT,
		wallet_balance NUMERIC(12,2) NOT NULL DEFAULT 100.00,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		spec TEXT,
		price NUMERIC(10,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status TEXT NOT NULL DEFAULT 'CONFIRMED',
		total NUMERIC(10,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id SERIAL PRIMARY KEY,
		order_id INT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id INT NOT NULL REFERENCES products(id),
		qty INT NOT NULL,
		price_each NUMERIC(10,2),
		subtotal NUMERIC(10,2)
	)`,
	`CREATE TABLE IF NOT EXISTS wallet_transactions (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		amount NUMERIC(12,2) NOT NULL,
		balance_after NUMERIC(12,2) NOT NULL,
		order_id INT REFERENCES orders(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	defer pool.Close()

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			logrus.Fatalf("schema migration failed: %v", err)
		}
	}
	logrus.Info("tables ensured")

	if err := seed(ctx, pool, cfg); err != nil {
		logrus.Fatalf("seed failed: %v", err)
	}
	logrus.Info("db ready")
}

func seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	users := user.NewPGRepo(pool)

	var n int64
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		hash, err := user.HashPassword("password")
		if err != nil {
			return err
		}
		demo := []user.User{
			{Role: "admin", Name: "Admin User", Email: "admin@grocery.local", Phone: "0123456789", Address: "HQ Office"},
			{Role: "customer", Name: "Demo Customer", Email: "customer1@grocery.local", Phone: "0198765432", Address: "123 Demo Street"},
			{Role: "customer", Name: "Second Customer", Email: "customer2@grocery.local", Phone: "0188888888", Address: "456 Second Ave"},
		}
		for i := range demo {
			demo[i].PasswordHash = hash
			demo[i].WalletBalance = decimal.NewFromInt(100)
			if err := users.Create(ctx, &demo[i]); err != nil {
				return err
			}
		}
		logrus.Info("seeded users (1 admin, 2 customers)")
	}

	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (name, spec, price) VALUES
			('Apple','Fresh Red Apple', 1.50),
			('Banana','Cavendish Banana', 2.00),
			('Milk','1L Full Cream Milk', 4.90)
		`)
		if err != nil {
			return err
		}
		logrus.Info("seeded products")
	}

	return seedSampleOrder(ctx, pool, cfg)
}

// seedSampleOrder places one demo order (2x Apple + 1x Banana) for customer1
// through the real coordinator, so the seed exercises the same path checkout
// does.
func seedSampleOrder(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	c1, err := user.NewPGRepo(pool).GetByEmail(ctx, "customer1@grocery.local")
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil
		}
		return err
	}

	var exists bool
	if err := pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE user_id=$1)`, c1.ID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}

	var appleID, bananaID int64
	if err := pool.QueryRow(ctx, `SELECT id FROM products WHERE name='Apple' LIMIT 1`).Scan(&appleID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	if err := pool.QueryRow(ctx, `SELECT id FROM products WHERE name='Banana' LIMIT 1`).Scan(&bananaID); err != nil {
		return err
	}

	coord := order.NewCoordinator(pool, cfg.LockTimeout)
	receipt, err := coord.PlaceOrder(ctx, c1.ID, []order.CartLine{
		{ProductID: appleID, Qty: 2},
		{ProductID: bananaID, Qty: 1},
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"order_id": receipt.OrderID,
		"total":    receipt.Charged.StringFixed(2),
	}).Info("seeded sample order")
	return nil
}
