package product

import (
	"context"
	"errors"
	"os"
	"testing"

	"electrostore/internal/domain"
	"electrostore/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE cart_items, carts, products, tokens, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func TestPostgres_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	p := domain.Product{
		Model:        "ThinkBook 15",
		Category:     domain.CategoryLaptop,
		Quantity:     4,
		Details:      "16GB RAM",
		SellingPrice: 749.90,
	}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Create(ctx, p); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	fetched, err := repo.GetByModel(ctx, "ThinkBook 15")
	if err != nil {
		t.Fatalf("GetByModel: %v", err)
	}
	if fetched.Category != domain.CategoryLaptop || fetched.Quantity != 4 || fetched.Details != "16GB RAM" {
		t.Fatalf("unexpected product %+v", fetched)
	}

	if _, err := repo.GetByModel(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_ListFilters(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	seed := []domain.Product{
		{Model: "X1", Category: domain.CategoryLaptop, Quantity: 3, SellingPrice: 10},
		{Model: "X2", Category: domain.CategoryLaptop, Quantity: 0, SellingPrice: 20},
		{Model: "P1", Category: domain.CategorySmartphone, Quantity: 7, SellingPrice: 30},
	}
	for _, p := range seed {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("seed %s: %v", p.Model, err)
		}
	}

	all, err := repo.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 products, got %d", len(all))
	}

	laptops, err := repo.List(ctx, Filter{Category: domain.CategoryLaptop})
	if err != nil {
		t.Fatalf("List laptops: %v", err)
	}
	if len(laptops) != 2 {
		t.Fatalf("expected 2 laptops, got %d", len(laptops))
	}

	available, err := repo.List(ctx, Filter{Category: domain.CategoryLaptop, AvailableOnly: true})
	if err != nil {
		t.Fatalf("List available laptops: %v", err)
	}
	if len(available) != 1 || available[0].Model != "X1" {
		t.Fatalf("unexpected available laptops %+v", available)
	}

	byModel, err := repo.List(ctx, Filter{Model: "P1"})
	if err != nil {
		t.Fatalf("List by model: %v", err)
	}
	if len(byModel) != 1 || byModel[0].Model != "P1" {
		t.Fatalf("unexpected by-model result %+v", byModel)
	}
}

func TestPostgres_StockMovements(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	if err := repo.Create(ctx, domain.Product{Model: "X1", Category: domain.CategoryLaptop, Quantity: 3, SellingPrice: 10}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	qty, err := repo.IncrementQuantity(ctx, "X1", 2)
	if err != nil {
		t.Fatalf("IncrementQuantity: %v", err)
	}
	if qty != 5 {
		t.Fatalf("expected 5, got %d", qty)
	}

	qty, err = repo.DecrementQuantity(ctx, "X1", 5)
	if err != nil {
		t.Fatalf("DecrementQuantity: %v", err)
	}
	if qty != 0 {
		t.Fatalf("expected 0, got %d", qty)
	}

	if _, err := repo.DecrementQuantity(ctx, "X1", 1); !errors.Is(err, domain.ErrProductSoldOut) {
		t.Fatalf("expected ErrProductSoldOut, got %v", err)
	}

	if _, err := repo.IncrementQuantity(ctx, "X1", 4); err != nil {
		t.Fatalf("restock: %v", err)
	}
	if _, err := repo.DecrementQuantity(ctx, "X1", 9); !errors.Is(err, domain.ErrLowStock) {
		t.Fatalf("expected ErrLowStock, got %v", err)
	}

	if _, err := repo.DecrementQuantity(ctx, "nope", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_Delete(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	if err := repo.Create(ctx, domain.Product{Model: "X1", Category: domain.CategoryLaptop, Quantity: 3, SellingPrice: 10}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := repo.Delete(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "X1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByModel(ctx, "X1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
