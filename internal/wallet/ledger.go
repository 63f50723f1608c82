package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/grocerylab/grocery-backend/internal/db"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrTopUpLimit        = errors.New("top-up exceeds single-operation cap")
	ErrBusy              = errors.New("wallet busy, retry")
)

// Service is the ledger API the HTTP layer consumes.
type Service interface {
	ApplyAdjustment(ctx context.Context, userID int64, kind Kind, amount decimal.Decimal, orderID *int64) (*Entry, error)
	Balance(ctx context.Context, userID int64) (decimal.Decimal, error)
	History(ctx context.Context, userID int64, page, pageSize int) ([]Entry, int64, error)
}

// Ledger applies balance adjustments against Postgres. All mutations run in
// one transaction holding a FOR UPDATE lock on the user row, so concurrent
// adjustments to the same user serialize while different users proceed in
// parallel.
type Ledger struct {
	db          *pgxpool.Pool
	topUpCap    decimal.Decimal
	lockTimeout time.Duration
}

func NewLedger(pool *pgxpool.Pool, topUpCap decimal.Decimal, lockTimeout time.Duration) *Ledger {
	return &Ledger{db: pool, topUpCap: topUpCap, lockTimeout: lockTimeout}
}

// ValidateAmount normalizes a client-supplied amount to 2 decimal places and
// enforces the per-kind sign and cap policy. The top-up cap is business
// policy, not a ledger invariant, hence it is a parameter.
func ValidateAmount(kind Kind, amount, topUpCap decimal.Decimal) (decimal.Decimal, error) {
	amount = amount.Round(2)
	if kind == KindAdjust {
		if amount.IsZero() {
			return decimal.Decimal{}, ErrInvalidAmount
		}
		return amount, nil
	}
	if amount.Sign() <= 0 {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	if kind == KindTopUp && amount.GreaterThan(topUpCap) {
		return decimal.Decimal{}, ErrTopUpLimit
	}
	return amount, nil
}

func (l *Ledger) ApplyAdjustment(ctx context.Context, userID int64, kind Kind, amount decimal.Decimal, orderID *int64) (*Entry, error) {
	amount, err := ValidateAmount(kind, amount, l.topUpCap)
	if err != nil {
		return nil, err
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin adjustment tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := db.SetLockTimeout(ctx, tx, l.lockTimeout); err != nil {
		return nil, fmt.Errorf("set lock timeout: %w", err)
	}

	entry, err := Apply(ctx, tx, userID, kind, amount, orderID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit adjustment: %w", err)
	}
	return entry, nil
}

// LockBalance takes the exclusive row lock on the user and returns the
// current balance. The lock is held until the transaction commits or rolls
// back; reacquiring it later in the same transaction is a no-op.
func LockBalance(ctx context.Context, tx pgx.Tx, userID int64) (decimal.Decimal, error) {
	var raw string
	err := tx.QueryRow(ctx, `
		SELECT wallet_balance::text FROM users WHERE id=$1 FOR UPDATE
	`, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Decimal{}, ErrUserNotFound
		}
		if db.IsLockTimeout(err) {
			return decimal.Decimal{}, ErrBusy
		}
		return decimal.Decimal{}, fmt.Errorf("lock user %d: %w", userID, err)
	}
	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse wallet balance %q: %w", raw, err)
	}
	return balance, nil
}

// Apply runs one balance adjustment inside the caller's open transaction: it
// locks the user row, moves the balance and appends the ledger row. The
// caller owns commit and rollback, so order placement can debit inline with
// its own inserts and stay atomic.
func Apply(ctx context.Context, tx pgx.Tx, userID int64, kind Kind, amount decimal.Decimal, orderID *int64) (*Entry, error) {
	balance, err := LockBalance(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	signed := kind.Signed(amount)
	newBalance := balance.Add(signed).Round(2)
	if signed.Sign() < 0 && newBalance.IsNegative() {
		return nil, ErrInsufficientFunds
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users SET wallet_balance=$1 WHERE id=$2
	`, newBalance.StringFixed(2), userID); err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}

	entry := &Entry{
		UserID:       userID,
		Kind:         kind,
		Amount:       amount,
		BalanceAfter: newBalance,
		OrderID:      orderID,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO wallet_transactions (user_id, kind, amount, balance_after, order_id)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at
	`, userID, string(kind), amount.StringFixed(2), newBalance.StringFixed(2), orderID).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert ledger row: %w", err)
	}
	return entry, nil
}

func (l *Ledger) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var raw string
	err := l.db.QueryRow(ctx, `
		SELECT wallet_balance::text FROM users WHERE id=$1
	`, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Decimal{}, ErrUserNotFound
		}
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(raw)
}

func (l *Ledger) History(ctx context.Context, userID int64, page, pageSize int) ([]Entry, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var total int64
	if err := l.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM wallet_transactions WHERE user_id=$1
	`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := l.db.Query(ctx, `
		SELECT id, user_id, kind, amount::text, balance_after::text, order_id, created_at
		FROM wallet_transactions
		WHERE user_id=$1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3
	`, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var kind, amountRaw, balanceRaw string
		if err := rows.Scan(&e.ID, &e.UserID, &kind, &amountRaw, &balanceRaw, &e.OrderID, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		e.Kind = Kind(kind)
		if e.Amount, err = decimal.NewFromString(amountRaw); err != nil {
			return nil, 0, err
		}
		if e.BalanceAfter, err = decimal.NewFromString(balanceRaw); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}
