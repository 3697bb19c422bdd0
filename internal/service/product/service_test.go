package product

import (
	"context"
	"testing"
	"time"

	"electrostore/internal/domain"
	productrepo "electrostore/internal/repository/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRepo struct {
	products []domain.Product
}

func (m *memRepo) Create(_ context.Context, p domain.Product) error {
	for _, existing := range m.products {
		if existing.Model == p.Model {
			return domain.ErrAlreadyExists
		}
	}
	m.products = append(m.products, p)
	return nil
}

func (m *memRepo) GetByModel(_ context.Context, model string) (*domain.Product, error) {
	for i := range m.products {
		if m.products[i].Model == model {
			cp := m.products[i]
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRepo) List(_ context.Context, f productrepo.Filter) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range m.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Model != "" && p.Model != f.Model {
			continue
		}
		if f.AvailableOnly && p.Quantity == 0 {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memRepo) IncrementQuantity(_ context.Context, model string, n int) (int, error) {
	for i := range m.products {
		if m.products[i].Model == model {
			m.products[i].Quantity += n
			return m.products[i].Quantity, nil
		}
	}
	return 0, domain.ErrNotFound
}

func (m *memRepo) DecrementQuantity(_ context.Context, model string, n int) (int, error) {
	for i := range m.products {
		if m.products[i].Model == model {
			if m.products[i].Quantity < n {
				if m.products[i].Quantity == 0 {
					return 0, domain.ErrProductSoldOut
				}
				return 0, domain.ErrLowStock
			}
			m.products[i].Quantity -= n
			return m.products[i].Quantity, nil
		}
	}
	return 0, domain.ErrNotFound
}

func (m *memRepo) Delete(_ context.Context, model string) error {
	for i := range m.products {
		if m.products[i].Model == model {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memRepo) DeleteAll(_ context.Context) error {
	m.products = nil
	return nil
}

type stubMarker struct {
	markedModels []string
	markedAll    bool
}

func (s *stubMarker) MarkItemsDeletedForModel(_ context.Context, model string) error {
	s.markedModels = append(s.markedModels, model)
	return nil
}

func (s *stubMarker) MarkAllItemsDeleted(_ context.Context) error {
	s.markedAll = true
	return nil
}

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestService(products ...domain.Product) (*Service, *memRepo, *stubMarker) {
	repo := &memRepo{products: products}
	marker := &stubMarker{}
	svc := &Service{
		repo:  repo,
		carts: marker,
		log:   zap.NewNop().Sugar(),
		now:   func() time.Time { return testNow },
	}
	return svc, repo, marker
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"empty model", RegisterInput{Model: "  ", Category: domain.CategoryLaptop, Quantity: 1, SellingPrice: 10}},
		{"bad category", RegisterInput{Model: "X1", Category: "Tablet", Quantity: 1, SellingPrice: 10}},
		{"zero quantity", RegisterInput{Model: "X1", Category: domain.CategoryLaptop, Quantity: 0, SellingPrice: 10}},
		{"zero price", RegisterInput{Model: "X1", Category: domain.CategoryLaptop, Quantity: 1, SellingPrice: 0}},
		{"future arrival", RegisterInput{Model: "X1", Category: domain.CategoryLaptop, Quantity: 1, SellingPrice: 10, ArrivalDate: datePtr(2027, 1, 1)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _ := newTestService()
			err := svc.Register(context.Background(), tc.in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, repo.products)
		})
	}
}

func TestRegisterDuplicateModel(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	in := RegisterInput{Model: "X1", Category: domain.CategoryLaptop, Quantity: 3, SellingPrice: 10}

	require.NoError(t, svc.Register(ctx, in))
	err := svc.Register(ctx, in)

	require.ErrorIs(t, err, domain.ErrProductAlreadyExists)
}

func TestRestock(t *testing.T) {
	svc, _, _ := newTestService(domain.Product{
		Model: "X1", Category: domain.CategoryLaptop, Quantity: 3, SellingPrice: 10,
		ArrivalDate: datePtr(2026, 1, 10),
	})
	ctx := context.Background()

	qty, err := svc.Restock(ctx, "X1", 4, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, qty)

	_, err = svc.Restock(ctx, "nope", 1, nil)
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = svc.Restock(ctx, "X1", 0, nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Restock(ctx, "X1", 1, datePtr(2027, 1, 1))
	require.ErrorIs(t, err, domain.ErrInvalidInput, "future change date")

	_, err = svc.Restock(ctx, "X1", 1, datePtr(2026, 1, 2))
	require.ErrorIs(t, err, domain.ErrInvalidInput, "change date before arrival")
}

func TestSell(t *testing.T) {
	svc, repo, _ := newTestService(
		domain.Product{Model: "X1", Category: domain.CategoryLaptop, Quantity: 5, SellingPrice: 10},
		domain.Product{Model: "X2", Category: domain.CategoryLaptop, Quantity: 0, SellingPrice: 10},
	)
	ctx := context.Background()

	qty, err := svc.Sell(ctx, "X1", 5, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, qty, "selling exactly the stock succeeds")

	_, err = svc.Sell(ctx, "X1", 1, nil)
	require.ErrorIs(t, err, domain.ErrProductSoldOut)

	_, err = svc.Sell(ctx, "X2", 2, nil)
	require.ErrorIs(t, err, domain.ErrProductSoldOut)

	repo.products[1].Quantity = 5
	_, err = svc.Sell(ctx, "X2", 6, nil)
	require.ErrorIs(t, err, domain.ErrLowStock)
	assert.Equal(t, 5, repo.products[1].Quantity, "stock unchanged on failure")
}

func TestGroupingValidation(t *testing.T) {
	tests := []struct {
		name     string
		grouping string
		category string
		model    string
		wantErr  error
	}{
		{"null ok", "", "", "", nil},
		{"null with category", "", "Laptop", "", domain.ErrIncorrectNullGrouping},
		{"null with model", "", "", "X1", domain.ErrIncorrectNullGrouping},
		{"category ok", "category", "Laptop", "", nil},
		{"category missing", "category", "", "", domain.ErrIncorrectCategoryGrouping},
		{"category invalid", "category", "Tablet", "", domain.ErrIncorrectCategoryGrouping},
		{"category with model", "category", "Laptop", "X1", domain.ErrIncorrectCategoryGrouping},
		{"model ok", "model", "", "X1", nil},
		{"model missing", "model", "", "", domain.ErrIncorrectModelGrouping},
		{"model with category", "model", "Laptop", "X1", domain.ErrIncorrectModelGrouping},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _ := newTestService(
				domain.Product{Model: "X1", Category: domain.CategoryLaptop, Quantity: 1, SellingPrice: 10},
			)
			_, err := svc.GetProducts(context.Background(), tc.grouping, tc.category, tc.model)
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestUnknownGroupingReturnsEverything(t *testing.T) {
	svc, _, _ := newTestService(
		domain.Product{Model: "X1", Category: domain.CategoryLaptop, Quantity: 1, SellingPrice: 10},
		domain.Product{Model: "X2", Category: domain.CategorySmartphone, Quantity: 0, SellingPrice: 20},
	)

	products, err := svc.GetProducts(context.Background(), "something-else", "Laptop", "X1")

	require.NoError(t, err)
	assert.Len(t, products, 2, "unrecognized grouping falls back to the full listing")
}

func TestGetProductsByCategory(t *testing.T) {
	svc, _, _ := newTestService(
		domain.Product{Model: "X1", Category: domain.CategoryLaptop, Quantity: 1, SellingPrice: 10},
		domain.Product{Model: "X2", Category: domain.CategorySmartphone, Quantity: 2, SellingPrice: 20},
	)

	products, err := svc.GetProducts(context.Background(), "category", "Smartphone", "")

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "X2", products[0].Model)
}

func TestGetProductsByUnknownModel(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetProducts(context.Background(), "model", "", "X1")
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = svc.GetAvailableProducts(context.Background(), "model", "", "X1")
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestGetAvailableProducts(t *testing.T) {
	svc, _, _ := newTestService(
		domain.Product{Model: "X1", Category: domain.CategoryLaptop, Quantity: 3, SellingPrice: 10},
		domain.Product{Model: "X2", Category: domain.CategorySmartphone, Quantity: 0, SellingPrice: 20},
	)
	ctx := context.Background()

	products, err := svc.GetAvailableProducts(ctx, "", "", "")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "X1", products[0].Model)

	// A known model with zero stock yields an empty list, not an error.
	products, err = svc.GetAvailableProducts(ctx, "model", "", "X2")
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestDeleteMarksHistoricalLines(t *testing.T) {
	svc, repo, marker := newTestService(
		domain.Product{Model: "X1", Category: domain.CategoryLaptop, Quantity: 3, SellingPrice: 10},
	)
	ctx := context.Background()

	err := svc.Delete(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	require.NoError(t, svc.Delete(ctx, "X1"))
	assert.Empty(t, repo.products)
	assert.Equal(t, []string{"X1"}, marker.markedModels)
}

func TestDeleteAllMarksEverything(t *testing.T) {
	svc, repo, marker := newTestService(
		domain.Product{Model: "X1", Category: domain.CategoryLaptop, Quantity: 3, SellingPrice: 10},
		domain.Product{Model: "X2", Category: domain.CategorySmartphone, Quantity: 1, SellingPrice: 20},
	)

	require.NoError(t, svc.DeleteAll(context.Background()))

	assert.Empty(t, repo.products)
	assert.True(t, marker.markedAll)
}
