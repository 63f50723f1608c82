package product

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("product not found")

type Repository interface {
	List(ctx context.Context, q string) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) List(ctx context.Context, q string) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	search := strings.TrimSpace(q)
	rows, err := r.db.Query(ctx, `
		SELECT id, name, COALESCE(spec,''), price::text, created_at
		FROM products
		WHERE ($1 = '' OR name ILIKE '%'||$1||'%')
		ORDER BY id
	`, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		var priceRaw string
		if err := rows.Scan(&p.ID, &p.Name, &p.Spec, &priceRaw, &p.CreatedAt); err != nil {
			return nil, err
		}
		if p.Price, err = decimal.NewFromString(priceRaw); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Product
	var priceRaw string
	err := r.db.QueryRow(ctx, `
		SELECT id, name, COALESCE(spec,''), price::text, created_at
		FROM products WHERE id=$1
	`, id).Scan(&p.ID, &p.Name, &p.Spec, &priceRaw, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.Price, err = decimal.NewFromString(priceRaw); err != nil {
		return nil, err
	}
	return &p, nil
}
