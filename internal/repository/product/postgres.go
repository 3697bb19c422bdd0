package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"electrostore/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type postgresRepo struct {
	pool *pgxpool.Pool
	log  *zap.SugaredLogger
}

func NewPostgres(pool *pgxpool.Pool, log *zap.SugaredLogger) Repository {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &postgresRepo{pool: pool, log: log}
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) error {
	const q = `
INSERT INTO products (model, category, selling_price, quantity, details, arrival_date)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
`
	_, err := r.pool.Exec(ctx, q, p.Model, p.Category, p.SellingPrice, p.Quantity, p.Details, p.ArrivalDate)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		r.log.Errorw("product repo: create", "model", p.Model, "err", err)
		return err
	}
	r.log.Infow("product repo: created", "model", p.Model, "quantity", p.Quantity)
	return nil
}

func (r *postgresRepo) GetByModel(ctx context.Context, model string) (*domain.Product, error) {
	const q = `
SELECT model, category, selling_price, quantity, COALESCE(details, ''), arrival_date, created_at
FROM products
WHERE model = $1
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, model).Scan(&p.Model, &p.Category, &p.SellingPrice, &p.Quantity, &p.Details, &p.ArrivalDate, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.log.Errorw("product repo: get", "model", model, "err", err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	var (
		conds []string
		args  []interface{}
	)
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Model != "" {
		args = append(args, f.Model)
		conds = append(conds, fmt.Sprintf("model = $%d", len(args)))
	}
	if f.AvailableOnly {
		conds = append(conds, "quantity > 0")
	}

	q := `
SELECT model, category, selling_price, quantity, COALESCE(details, ''), arrival_date, created_at
FROM products
`
	if len(conds) > 0 {
		q += "WHERE " + strings.Join(conds, " AND ") + "\n"
	}
	q += "ORDER BY created_at ASC, model ASC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.log.Errorw("product repo: list", "err", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.Model, &p.Category, &p.SellingPrice, &p.Quantity, &p.Details, &p.ArrivalDate, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.log.Errorw("product repo: list rows", "err", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) IncrementQuantity(ctx context.Context, model string, n int) (int, error) {
	const q = `
UPDATE products
SET quantity = quantity + $2
WHERE model = $1
RETURNING quantity
`
	var qty int
	if err := r.pool.QueryRow(ctx, q, model, n).Scan(&qty); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		r.log.Errorw("product repo: increment", "model", model, "n", n, "err", err)
		return 0, err
	}
	return qty, nil
}

func (r *postgresRepo) DecrementQuantity(ctx context.Context, model string, n int) (int, error) {
	// The quantity >= n guard keeps stock from ever going negative,
	// even under concurrent sales.
	const q = `
UPDATE products
SET quantity = quantity - $2
WHERE model = $1 AND quantity >= $2
RETURNING quantity
`
	var qty int
	err := r.pool.QueryRow(ctx, q, model, n).Scan(&qty)
	if err == nil {
		return qty, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.log.Errorw("product repo: decrement", "model", model, "n", n, "err", err)
		return 0, err
	}

	var live int
	err = r.pool.QueryRow(ctx, `SELECT quantity FROM products WHERE model = $1`, model).Scan(&live)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	if live == 0 {
		return 0, domain.ErrProductSoldOut
	}
	return 0, domain.ErrLowStock
}

func (r *postgresRepo) Delete(ctx context.Context, model string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE model = $1`, model)
	if err != nil {
		r.log.Errorw("product repo: delete", "model", model, "err", err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.log.Infow("product repo: deleted", "model", model)
	return nil
}

func (r *postgresRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM products`); err != nil {
		r.log.Errorw("product repo: delete all", "err", err)
		return err
	}
	return nil
}
