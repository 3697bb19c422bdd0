package product

import (
	"context"

	"electrostore/internal/domain"
)

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Category      domain.Category
	Model         string
	AvailableOnly bool
}

type Repository interface {
	Create(ctx context.Context, p domain.Product) error
	GetByModel(ctx context.Context, model string) (*domain.Product, error)
	List(ctx context.Context, f Filter) ([]domain.Product, error)
	IncrementQuantity(ctx context.Context, model string, n int) (int, error)
	DecrementQuantity(ctx context.Context, model string, n int) (int, error)
	Delete(ctx context.Context, model string) error
	DeleteAll(ctx context.Context) error
}
