package cart

import (
	"context"
	"errors"
	"time"

	"electrostore/internal/domain"
	"github.com/jackc/pgx/v5"
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

const cartColumns = `id::text, customer, paid, payment_date, total, created_at`

func (r *postgresRepo) GetUnpaid(ctx context.Context, customer string) (*domain.Cart, error) {
	q := `
SELECT ` + cartColumns + `
FROM carts
WHERE customer = $1 AND NOT paid
`
	return r.fetchCart(ctx, q, customer)
}

func (r *postgresRepo) GetOrCreateUnpaid(ctx context.Context, customer string) (*domain.Cart, error) {
	cart, err := r.GetUnpaid(ctx, customer)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// The partial unique index on (customer) WHERE NOT paid makes
	// concurrent creators converge on a single row: the loser's insert
	// hits DO NOTHING and the follow-up select finds the winner's cart.
	const ins = `
INSERT INTO carts (customer)
VALUES ($1)
ON CONFLICT (customer) WHERE NOT paid DO NOTHING
RETURNING ` + cartColumns + `
`
	cart, err = r.fetchCart(ctx, ins, customer)
	if err == nil {
		r.log.Infow("cart repo: created", "customer", customer, "cart_id", cart.ID)
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return r.GetUnpaid(ctx, customer)
}

func (r *postgresRepo) AddItem(ctx context.Context, cartID string, p domain.Product) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var qty int
	err = tx.QueryRow(ctx, `
SELECT quantity
FROM cart_items
WHERE cart_id = $1 AND model = $2
`, cartID, p.Model).Scan(&qty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if err == nil {
		if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = quantity + 1
WHERE cart_id = $1 AND model = $2
`, cartID, p.Model); err != nil {
			return err
		}
	} else {
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, model, quantity, category, price)
VALUES ($1, $2, 1, $3, $4)
`, cartID, p.Model, p.Category, p.SellingPrice); err != nil {
			return err
		}
	}

	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) RemoveOneUnit(ctx context.Context, cartID, model string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var qty int
	err = tx.QueryRow(ctx, `
SELECT quantity
FROM cart_items
WHERE cart_id = $1 AND model = $2
`, cartID, model).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	if qty > 1 {
		if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = quantity - 1
WHERE cart_id = $1 AND model = $2
`, cartID, model); err != nil {
			return err
		}
	} else {
		if _, err := tx.Exec(ctx, `
DELETE FROM cart_items
WHERE cart_id = $1 AND model = $2
`, cartID, model); err != nil {
			return err
		}
	}

	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) ClearItems(ctx context.Context, cartID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return err
	}
	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) RecomputeTotal(ctx context.Context, cartID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) Checkout(ctx context.Context, cartID string, date time.Time) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
SELECT model, quantity
FROM cart_items
WHERE cart_id = $1
`, cartID)
	if err != nil {
		return err
	}
	type line struct {
		model string
		qty   int
	}
	var lines []line
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.model, &l.qty); err != nil {
			rows.Close()
			return err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if len(lines) == 0 {
		return domain.ErrEmptyCart
	}

	for _, l := range lines {
		cmd, err := tx.Exec(ctx, `
UPDATE products
SET quantity = quantity - $2
WHERE model = $1 AND quantity >= $2
`, l.model, l.qty)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			// Stock changed between the caller's validation pass and
			// this commit; abort so nothing is decremented.
			var live int
			err := tx.QueryRow(ctx, `SELECT quantity FROM products WHERE model = $1`, l.model).Scan(&live)
			switch {
			case errors.Is(err, pgx.ErrNoRows):
				return domain.ErrProductNotFound
			case err != nil:
				return err
			case live == 0:
				return domain.ErrProductSoldOut
			default:
				return domain.ErrLowStock
			}
		}
	}

	if err := updateCartTotal(ctx, tx, cartID); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `
UPDATE carts
SET paid = TRUE, payment_date = $2
WHERE id = $1 AND NOT paid
`, cartID, date)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.log.Infow("cart repo: checkout committed", "cart_id", cartID, "lines", len(lines))
	return nil
}

func (r *postgresRepo) ListPaid(ctx context.Context, customer string) ([]domain.Cart, error) {
	q := `
SELECT ` + cartColumns + `
FROM carts
WHERE customer = $1 AND paid
ORDER BY payment_date ASC, created_at ASC
`
	return r.listCarts(ctx, q, customer)
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Cart, error) {
	q := `
SELECT ` + cartColumns + `
FROM carts
ORDER BY created_at ASC
`
	return r.listCarts(ctx, q)
}

func (r *postgresRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM carts`); err != nil {
		r.log.Errorw("cart repo: delete all", "err", err)
		return err
	}
	return nil
}

func (r *postgresRepo) MarkItemsDeletedForModel(ctx context.Context, model string) error {
	_, err := r.pool.Exec(ctx, `UPDATE cart_items SET deleted = TRUE WHERE model = $1`, model)
	if err != nil {
		r.log.Errorw("cart repo: mark deleted", "model", model, "err", err)
	}
	return err
}

func (r *postgresRepo) MarkAllItemsDeleted(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `UPDATE cart_items SET deleted = TRUE`)
	if err != nil {
		r.log.Errorw("cart repo: mark all deleted", "err", err)
	}
	return err
}

func (r *postgresRepo) fetchCart(ctx context.Context, cartQuery string, args ...interface{}) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, args...).Scan(
		&cart.ID,
		&cart.Customer,
		&cart.Paid,
		&cart.PaymentDate,
		&cart.Total,
		&cart.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) listCarts(ctx context.Context, q string, args ...interface{}) ([]domain.Cart, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var carts []domain.Cart
	for rows.Next() {
		var cart domain.Cart
		if err := rows.Scan(&cart.ID, &cart.Customer, &cart.Paid, &cart.PaymentDate, &cart.Total, &cart.CreatedAt); err != nil {
			return nil, err
		}
		carts = append(carts, cart)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range carts {
		if err := r.loadItems(ctx, &carts[i]); err != nil {
			return nil, err
		}
	}
	return carts, nil
}

func (r *postgresRepo) loadItems(ctx context.Context, cart *domain.Cart) error {
	const q = `
SELECT cart_id::text, model, quantity, category, price, deleted
FROM cart_items
WHERE cart_id = $1
ORDER BY model ASC
`
	rows, err := r.pool.Query(ctx, q, cart.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.CartID, &item.Model, &item.Quantity, &item.Category, &item.Price, &item.Deleted); err != nil {
			return err
		}
		cart.Items = append(cart.Items, item)
	}
	return rows.Err()
}

func updateCartTotal(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `
UPDATE carts
SET total = COALESCE((
	SELECT SUM(quantity * price)
	FROM cart_items
	WHERE cart_id = $1
), 0)
WHERE id = $1
`, cartID)
	return err
}
