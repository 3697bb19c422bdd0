package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"electrostore/internal/domain"
	productrepo "electrostore/internal/repository/product"
	"go.uber.org/zap"
)

// Grouping discriminator values accepted by the listing endpoints.
const (
	GroupingNone     = ""
	GroupingCategory = "category"
	GroupingModel    = "model"
)

// Service owns the product catalog: registration, stock movements and
// the grouped listings.
type Service struct {
	repo  productrepo.Repository
	carts cartMarker
	log   *zap.SugaredLogger
	now   func() time.Time
}

// cartMarker flags historical cart lines when their product leaves the
// catalog, so past receipts stay viewable.
type cartMarker interface {
	MarkItemsDeletedForModel(ctx context.Context, model string) error
	MarkAllItemsDeleted(ctx context.Context) error
}

func New(repo productrepo.Repository, carts cartMarker, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{repo: repo, carts: carts, log: log, now: time.Now}
}

type RegisterInput struct {
	Model        string
	Category     domain.Category
	Quantity     int
	Details      string
	SellingPrice float64
	ArrivalDate  *time.Time
}

// Register adds a new model to the catalog. A model can be registered
// only once.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	in.Model = strings.TrimSpace(in.Model)
	if in.Model == "" {
		return fmt.Errorf("%w: model required", domain.ErrInvalidInput)
	}
	if !in.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, in.Category)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	if in.SellingPrice <= 0 {
		return fmt.Errorf("%w: selling price must be positive", domain.ErrInvalidInput)
	}
	if in.ArrivalDate != nil && in.ArrivalDate.After(s.today()) {
		return fmt.Errorf("%w: arrival date cannot be in the future", domain.ErrInvalidInput)
	}

	err := s.repo.Create(ctx, domain.Product{
		Model:        in.Model,
		Category:     in.Category,
		Quantity:     in.Quantity,
		Details:      in.Details,
		SellingPrice: in.SellingPrice,
		ArrivalDate:  in.ArrivalDate,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return domain.ErrProductAlreadyExists
	}
	return err
}

// Restock increases a model's stock by n and returns the new quantity.
func (s *Service) Restock(ctx context.Context, model string, n int, changeDate *time.Time) (int, error) {
	p, err := s.stockTarget(ctx, model, n, changeDate)
	if err != nil {
		return 0, err
	}
	qty, err := s.repo.IncrementQuantity(ctx, p.Model, n)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, domain.ErrProductNotFound
	}
	if err == nil {
		s.log.Infow("product: restocked", "model", model, "added", n, "quantity", qty)
	}
	return qty, err
}

// Sell records a counter sale of n units and returns the new quantity.
func (s *Service) Sell(ctx context.Context, model string, n int, sellingDate *time.Time) (int, error) {
	p, err := s.stockTarget(ctx, model, n, sellingDate)
	if err != nil {
		return 0, err
	}
	if p.Quantity == 0 {
		return 0, domain.ErrProductSoldOut
	}
	if p.Quantity < n {
		return 0, domain.ErrLowStock
	}
	qty, err := s.repo.DecrementQuantity(ctx, p.Model, n)
	if errors.Is(err, domain.ErrNotFound) {
		return 0, domain.ErrProductNotFound
	}
	if err == nil {
		s.log.Infow("product: sold", "model", model, "units", n, "quantity", qty)
	}
	return qty, err
}

// stockTarget validates the shared preconditions of Restock and Sell.
func (s *Service) stockTarget(ctx context.Context, model string, n int, date *time.Time) (*domain.Product, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	p, err := s.repo.GetByModel(ctx, model)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	if date != nil {
		if date.After(s.today()) {
			return nil, fmt.Errorf("%w: date cannot be in the future", domain.ErrInvalidInput)
		}
		if p.ArrivalDate != nil && date.Before(*p.ArrivalDate) {
			return nil, fmt.Errorf("%w: date cannot precede the arrival date", domain.ErrInvalidInput)
		}
	}
	return p, nil
}

// GetProducts lists the catalog under the three-way grouping rules.
func (s *Service) GetProducts(ctx context.Context, grouping, category, model string) ([]domain.Product, error) {
	return s.list(ctx, grouping, category, model, false)
}

// GetAvailableProducts is GetProducts restricted to quantity > 0.
func (s *Service) GetAvailableProducts(ctx context.Context, grouping, category, model string) ([]domain.Product, error) {
	return s.list(ctx, grouping, category, model, true)
}

func (s *Service) list(ctx context.Context, grouping, category, model string, availableOnly bool) ([]domain.Product, error) {
	f, err := buildFilter(grouping, category, model)
	if err != nil {
		return nil, err
	}
	if f.Model != "" {
		// A single-model lookup distinguishes "unknown model" from
		// "known model with no available stock".
		if _, err := s.repo.GetByModel(ctx, f.Model); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrProductNotFound
			}
			return nil, err
		}
	}
	f.AvailableOnly = availableOnly

	products, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func buildFilter(grouping, category, model string) (productrepo.Filter, error) {
	switch grouping {
	case GroupingNone:
		if category != "" || model != "" {
			return productrepo.Filter{}, domain.ErrIncorrectNullGrouping
		}
		return productrepo.Filter{}, nil
	case GroupingCategory:
		if category == "" || !domain.Category(category).Valid() || model != "" {
			return productrepo.Filter{}, domain.ErrIncorrectCategoryGrouping
		}
		return productrepo.Filter{Category: domain.Category(category)}, nil
	case GroupingModel:
		if model == "" || category != "" {
			return productrepo.Filter{}, domain.ErrIncorrectModelGrouping
		}
		return productrepo.Filter{Model: model}, nil
	default:
		// Unrecognized grouping values fall through to the full
		// listing, matching the behaviour callers rely on.
		return productrepo.Filter{}, nil
	}
}

// Delete removes a model from the catalog. Historical cart lines keep
// their snapshot and are flagged instead of cascading.
func (s *Service) Delete(ctx context.Context, model string) error {
	if err := s.repo.Delete(ctx, model); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrProductNotFound
		}
		return err
	}
	return s.carts.MarkItemsDeletedForModel(ctx, model)
}

// DeleteAll wipes the catalog and flags every historical cart line.
func (s *Service) DeleteAll(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return err
	}
	s.log.Warnw("product: catalog wiped")
	return s.carts.MarkAllItemsDeleted(ctx)
}

func (s *Service) today() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}
