package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type productSeed struct {
	Model        string
	Category     string
	SellingPrice float64
	Quantity     int
	Details      string
}

type userSeed struct {
	Username string
	Name     string
	Surname  string
	Role     string
	Password string
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	users := []userSeed{
		{Username: "admin", Name: "Ada", Surname: "Admin", Role: "Admin", Password: "admin-demo-pass"},
		{Username: "manager", Name: "Max", Surname: "Manager", Role: "Manager", Password: "manager-demo-pass"},
		{Username: "alice", Name: "Alice", Surname: "Customer", Role: "Customer", Password: "alice-demo-pass"},
	}
	for _, u := range users {
		if err := ensureUser(ctx, pool, u); err != nil {
			return fmt.Errorf("ensure user %s: %w", u.Username, err)
		}
	}

	products := []productSeed{
		{
			Model:        "Galaxy Fold Demo",
			Category:     "Smartphone",
			SellingPrice: 999.99,
			Quantity:     12,
			Details:      "Demo foldable smartphone",
		},
		{
			Model:        "ThinkBook Demo",
			Category:     "Laptop",
			SellingPrice: 1249.50,
			Quantity:     5,
			Details:      "Demo 14-inch laptop",
		},
		{
			Model:        "CoolFridge Demo",
			Category:     "Appliance",
			SellingPrice: 499.00,
			Quantity:     0,
			Details:      "Demo fridge, currently out of stock",
		},
	}
	for _, p := range products {
		if err := ensureProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("ensure product %s: %w", p.Model, err)
		}
	}
	return nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, u userSeed) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (username, name, surname, role, password_hash)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (username) DO NOTHING
`
	_, err = pool.Exec(ctx, q, u.Username, u.Name, u.Surname, u.Role, string(hashed))
	return err
}

func ensureProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (model, category, selling_price, quantity, details, arrival_date)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), now()::date)
ON CONFLICT (model) DO NOTHING
`
	_, err := pool.Exec(ctx, q, p.Model, p.Category, p.SellingPrice, p.Quantity, p.Details)
	return err
}
