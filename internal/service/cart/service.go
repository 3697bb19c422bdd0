package cart

import (
	"context"
	"errors"
	"time"

	"electrostore/internal/domain"
	"electrostore/internal/metrics"
	cartrepo "electrostore/internal/repository/cart"
	"go.uber.org/zap"
)

// Service owns the cart workflow: the lazily materialized current cart,
// line mutations, and the one-time unpaid -> paid checkout transition.
type Service struct {
	repo     cartRepo
	products productRepo
	log      *zap.SugaredLogger
	now      func() time.Time
}

type cartRepo interface {
	GetUnpaid(ctx context.Context, customer string) (*domain.Cart, error)
	GetOrCreateUnpaid(ctx context.Context, customer string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID string, p domain.Product) error
	RemoveOneUnit(ctx context.Context, cartID, model string) error
	ClearItems(ctx context.Context, cartID string) error
	RecomputeTotal(ctx context.Context, cartID string) error
	Checkout(ctx context.Context, cartID string, date time.Time) error
	ListPaid(ctx context.Context, customer string) ([]domain.Cart, error)
	ListAll(ctx context.Context) ([]domain.Cart, error)
	DeleteAll(ctx context.Context) error
}

type productRepo interface {
	GetByModel(ctx context.Context, model string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, products productRepo, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{repo: repo, products: products, log: log, now: time.Now}
}

// AddItem puts one unit of model into the customer's current cart,
// creating the cart if needed. Only exact-zero stock is rejected here;
// quantity sufficiency is checked at checkout.
func (s *Service) AddItem(ctx context.Context, customer, model string) error {
	p, err := s.products.GetByModel(ctx, model)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrProductNotFound
		}
		return err
	}
	if p.Quantity == 0 {
		return domain.ErrProductSoldOut
	}

	cart, err := s.repo.GetOrCreateUnpaid(ctx, customer)
	if err != nil {
		return err
	}
	if err := s.repo.AddItem(ctx, cart.ID, *p); err != nil {
		return err
	}
	metrics.CartItemsAdded.Inc()
	s.log.Infow("cart: item added", "customer", customer, "model", model)
	return nil
}

// GetCurrent returns the customer's current cart, creating an empty one
// if none exists. The total is recomputed and persisted on every read so
// drift from partial failures never survives a fetch.
func (s *Service) GetCurrent(ctx context.Context, customer string) (*domain.Cart, error) {
	cart, err := s.repo.GetOrCreateUnpaid(ctx, customer)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RecomputeTotal(ctx, cart.ID); err != nil {
		return nil, err
	}
	var total float64
	for _, item := range cart.Items {
		total += float64(item.Quantity) * item.Price
	}
	cart.Total = total
	return cart, nil
}

// Checkout validates live stock for every line and, only if all lines
// pass, commits the stock decrements and marks the cart paid. The first
// offending line aborts the whole checkout with nothing decremented.
func (s *Service) Checkout(ctx context.Context, customer string) error {
	cart, err := s.repo.GetUnpaid(ctx, customer)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.Checkouts.WithLabelValues("no_cart").Inc()
			return domain.ErrCartNotFound
		}
		return err
	}
	if len(cart.Items) == 0 {
		metrics.Checkouts.WithLabelValues("empty").Inc()
		return domain.ErrEmptyCart
	}

	for _, item := range cart.Items {
		p, err := s.products.GetByModel(ctx, item.Model)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrProductNotFound
			}
			return err
		}
		if p.Quantity == 0 {
			metrics.Checkouts.WithLabelValues("sold_out").Inc()
			return domain.ErrProductSoldOut
		}
		if p.Quantity < item.Quantity {
			metrics.Checkouts.WithLabelValues("low_stock").Inc()
			return domain.ErrLowStock
		}
	}

	if err := s.repo.Checkout(ctx, cart.ID, s.now().UTC()); err != nil {
		switch {
		case errors.Is(err, domain.ErrProductSoldOut):
			metrics.Checkouts.WithLabelValues("sold_out").Inc()
		case errors.Is(err, domain.ErrLowStock):
			metrics.Checkouts.WithLabelValues("low_stock").Inc()
		default:
			metrics.Checkouts.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.Checkouts.WithLabelValues("ok").Inc()
	s.log.Infow("cart: checked out", "customer", customer, "cart_id", cart.ID, "total", cart.Total)
	return nil
}

// RemoveOneUnit decrements a line by one unit, deleting the line when it
// reaches zero.
func (s *Service) RemoveOneUnit(ctx context.Context, customer, model string) error {
	if _, err := s.products.GetByModel(ctx, model); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrProductNotFound
		}
		return err
	}

	cart, err := s.repo.GetUnpaid(ctx, customer)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCartNotFound
		}
		return err
	}
	if len(cart.Items) == 0 {
		return domain.ErrCartNotFound
	}

	found := false
	for _, item := range cart.Items {
		if item.Model == model {
			found = true
			break
		}
	}
	if !found {
		return domain.ErrProductNotInCart
	}

	if err := s.repo.RemoveOneUnit(ctx, cart.ID, model); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrProductNotInCart
		}
		return err
	}
	return nil
}

// Clear removes every line from the current cart; the cart row survives.
func (s *Service) Clear(ctx context.Context, customer string) error {
	cart, err := s.repo.GetUnpaid(ctx, customer)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCartNotFound
		}
		return err
	}
	if len(cart.Items) == 0 {
		return domain.ErrCartNotFound
	}
	return s.repo.ClearItems(ctx, cart.ID)
}

// History returns the customer's paid carts with their immutable snapshots.
func (s *Service) History(ctx context.Context, customer string) ([]domain.Cart, error) {
	return s.repo.ListPaid(ctx, customer)
}

// ListAll returns every cart of every customer. Authorization is the
// caller's concern.
func (s *Service) ListAll(ctx context.Context) ([]domain.Cart, error) {
	return s.repo.ListAll(ctx)
}

// DeleteAll removes every cart of every customer.
func (s *Service) DeleteAll(ctx context.Context) error {
	s.log.Warnw("cart: deleting all carts")
	return s.repo.DeleteAll(ctx)
}
