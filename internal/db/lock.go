package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// lockNotAvailable is the SQLSTATE Postgres raises when lock_timeout fires.
const lockNotAvailable = "55P03"

// SetLockTimeout caps row-lock waits for the current transaction so a
// contended user row surfaces as a retryable error instead of hanging.
// A non-positive duration leaves the server default (wait forever).
func SetLockTimeout(ctx context.Context, tx pgx.Tx, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	// SET LOCAL does not take bind parameters; the value is server-side only.
	_, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", d.Milliseconds()))
	return err
}

// IsLockTimeout reports whether err was caused by a lock_timeout expiry.
func IsLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == lockNotAvailable
}
