package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshmart/freshmart-backend/pkg/db/models"
	"github.com/freshmart/freshmart-backend/pkg/enums"
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
	"github.com/freshmart/freshmart-backend/pkg/pagination"
)

type stubRepo struct {
	product   *models.Product
	createErr error
	updated   *models.Product
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if s.product == nil || s.product.ID != productID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.product
	return &copied, nil
}

func (s *stubRepo) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindByIDs(ctx context.Context, productIDs []uuid.UUID) ([]models.Product, error) {
	return nil, nil
}

func (s *stubRepo) Create(ctx context.Context, product *models.Product) error {
	if s.createErr != nil {
		return s.createErr
	}
	product.ID = uuid.New()
	return nil
}

func (s *stubRepo) Update(ctx context.Context, product *models.Product) error {
	s.updated = product
	return nil
}

func (s *stubRepo) List(ctx context.Context, params listProductsParams) ([]models.Product, *pagination.Cursor, error) {
	return nil, nil, nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}
	return svc
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	tests := []struct {
		name  string
		input CreateProductInput
	}{
		{name: "missing sku", input: CreateProductInput{Name: "Milk", Category: enums.ProductCategoryDairy, BasePrice: 1000}},
		{name: "missing name", input: CreateProductInput{SKU: "SKU-1", Category: enums.ProductCategoryDairy, BasePrice: 1000}},
		{name: "bad category", input: CreateProductInput{SKU: "SKU-1", Name: "Milk", Category: "toys", BasePrice: 1000}},
		{name: "negative price", input: CreateProductInput{SKU: "SKU-1", Name: "Milk", Category: enums.ProductCategoryDairy, BasePrice: -1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.input); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateSuccess(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	product, err := svc.Create(context.Background(), CreateProductInput{
		SKU:       " SKU-9 ",
		Name:      "Fresh Milk 1L",
		Category:  enums.ProductCategoryDairy,
		BasePrice: 35000,
		IsActive:  true,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if product.SKU != "SKU-9" {
		t.Fatalf("expected trimmed sku, got %q", product.SKU)
	}
	if product.ID == uuid.Nil {
		t.Fatal("expected assigned id")
	}
}

func TestUpdateUnknownProduct(t *testing.T) {
	svc := newTestService(t, &stubRepo{})
	name := "Renamed"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateProductInput{Name: &name})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDeactivateIsIdempotent(t *testing.T) {
	repo := &stubRepo{product: &models.Product{ID: uuid.New(), IsActive: false}}
	svc := newTestService(t, repo)

	if err := svc.Deactivate(context.Background(), repo.product.ID); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
	if repo.updated != nil {
		t.Fatal("already-inactive product must not be rewritten")
	}
}

func TestListRejectsInvalidCategory(t *testing.T) {
	svc := newTestService(t, &stubRepo{})
	bad := enums.ProductCategory("toys")
	_, err := svc.List(context.Background(), ListParams{Category: &bad})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
