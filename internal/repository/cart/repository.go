package cart

import (
	"context"
	"time"

	"electrostore/internal/domain"
)

type Repository interface {
	// GetUnpaid returns the customer's current cart or domain.ErrNotFound.
	GetUnpaid(ctx context.Context, customer string) (*domain.Cart, error)
	// GetOrCreateUnpaid materializes the current cart lazily.
	GetOrCreateUnpaid(ctx context.Context, customer string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID string, p domain.Product) error
	RemoveOneUnit(ctx context.Context, cartID, model string) error
	ClearItems(ctx context.Context, cartID string) error
	RecomputeTotal(ctx context.Context, cartID string) error
	// Checkout decrements live stock for every line and marks the cart paid,
	// all inside one transaction.
	Checkout(ctx context.Context, cartID string, date time.Time) error
	ListPaid(ctx context.Context, customer string) ([]domain.Cart, error)
	ListAll(ctx context.Context) ([]domain.Cart, error)
	DeleteAll(ctx context.Context) error
	MarkItemsDeletedForModel(ctx context.Context, model string) error
	MarkAllItemsDeleted(ctx context.Context) error
}
