package user

import (
	"context"
	"time"

	"electrostore/internal/domain"
)

type UpdateInput struct {
	Name      string
	Surname   string
	Address   string
	Birthdate *time.Time
}

type Repository interface {
	Create(ctx context.Context, u domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	Update(ctx context.Context, username string, in UpdateInput) (*domain.User, error)
	Delete(ctx context.Context, username string) error
	DeleteAllNonAdmin(ctx context.Context) error
}
