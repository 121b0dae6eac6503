package purchases

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshmart/freshmart-backend/pkg/db/models"
	"github.com/freshmart/freshmart-backend/pkg/enums"
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
	"github.com/freshmart/freshmart-backend/pkg/pagination"
)

type stubRepo struct {
	purchase *models.Purchase
	listed   []models.Purchase
	next     *pagination.Cursor
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, purchase *models.Purchase) error { return nil }

func (s *stubRepo) SetPointsEarned(ctx context.Context, purchaseID uuid.UUID, points int) error {
	return nil
}

func (s *stubRepo) FindByID(ctx context.Context, purchaseID uuid.UUID) (*models.Purchase, error) {
	if s.purchase == nil || s.purchase.ID != purchaseID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.purchase, nil
}

func (s *stubRepo) ListByCustomer(ctx context.Context, params ListQuery) ([]models.Purchase, *pagination.Cursor, error) {
	return s.listed, s.next, nil
}

func (s *stubRepo) PurchaseTimestamps(ctx context.Context, customerID uuid.UUID, since time.Time) ([]time.Time, error) {
	return nil, nil
}

func (s *stubRepo) CategoryQuantities(ctx context.Context, customerID uuid.UUID) ([]CategoryQuantityRow, error) {
	return nil, nil
}

func TestGetEnforcesOwnership(t *testing.T) {
	owner := uuid.New()
	purchase := &models.Purchase{ID: uuid.New(), CustomerID: owner}
	svc, err := NewService(&stubRepo{purchase: purchase})
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}

	got, err := svc.Get(context.Background(), owner, purchase.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ID != purchase.ID {
		t.Fatalf("expected purchase %s, got %s", purchase.ID, got.ID)
	}

	_, err = svc.Get(context.Background(), uuid.New(), purchase.ID)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("foreign purchase must read as not found, got %v", err)
	}
}

func TestGetUnknownPurchase(t *testing.T) {
	svc, err := NewService(&stubRepo{})
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}

	_, err = svc.Get(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestBuildInvoice(t *testing.T) {
	purchasedAt := time.Date(2026, time.April, 2, 10, 0, 0, 0, time.UTC)
	promo := enums.DiscountSourcePromotion
	purchase := &models.Purchase{
		ID:          uuid.MustParse("12345678-0000-0000-0000-000000000000"),
		CustomerID:  uuid.New(),
		Total:       73000,
		PurchasedAt: purchasedAt,
		LineItems: []models.PurchaseLineItem{
			{
				ProductName:    "Fresh Milk 1L",
				Category:       enums.ProductCategoryDairy,
				UnitPrice:      31500,
				Quantity:       2,
				DiscountSource: &promo,
				DiscountAmount: 3500,
			},
			{
				ProductName: "Whole Wheat Bread",
				Category:    enums.ProductCategoryBakery,
				UnitPrice:   10000,
				Quantity:    1,
			},
		},
	}

	invoice, err := BuildInvoice(purchase)
	if err != nil {
		t.Fatalf("BuildInvoice error: %v", err)
	}
	if invoice.Number != "INV-20260402-12345678" {
		t.Fatalf("unexpected invoice number %s", invoice.Number)
	}
	if invoice.Subtotal != "73000" {
		t.Fatalf("expected subtotal 73000, got %s", invoice.Subtotal)
	}
	// 11% PPN on 73000 is 8030.
	if invoice.Tax != "8030" {
		t.Fatalf("expected tax 8030, got %s", invoice.Tax)
	}
	if invoice.GrandTotal != "81030" {
		t.Fatalf("expected grand total 81030, got %s", invoice.GrandTotal)
	}
	if len(invoice.Lines) != 2 {
		t.Fatalf("expected two lines, got %d", len(invoice.Lines))
	}
	if invoice.Lines[0].LineTotal != "63000" {
		t.Fatalf("expected line total 63000, got %s", invoice.Lines[0].LineTotal)
	}
}

func TestBuildInvoiceNilPurchase(t *testing.T) {
	if _, err := BuildInvoice(nil); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListRejectsBadCursor(t *testing.T) {
	svc, err := NewService(&stubRepo{})
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}

	_, err = svc.List(context.Background(), ListParams{CustomerID: uuid.New(), Cursor: "!!"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
