package promotions

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshmart/freshmart-backend/pkg/db/models"
	"github.com/freshmart/freshmart-backend/pkg/enums"
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
	"github.com/freshmart/freshmart-backend/pkg/logger"
	"github.com/freshmart/freshmart-backend/pkg/pagination"
)

type stubRepo struct {
	promotion  *models.Promotion
	created    *models.Promotion
	deleteRows int64
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) FindByID(ctx context.Context, promotionID uuid.UUID) (*models.Promotion, error) {
	if s.promotion == nil || s.promotion.ID != promotionID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.promotion
	return &copied, nil
}

func (s *stubRepo) Create(ctx context.Context, promotion *models.Promotion) error {
	promotion.ID = uuid.New()
	s.created = promotion
	return nil
}

func (s *stubRepo) Update(ctx context.Context, promotion *models.Promotion) error { return nil }

func (s *stubRepo) Delete(ctx context.Context, promotionID uuid.UUID) (int64, error) {
	return s.deleteRows, nil
}

func (s *stubRepo) List(ctx context.Context, params listPromotionsParams) ([]models.Promotion, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (s *stubRepo) ListActive(ctx context.Context, now time.Time) ([]models.Promotion, error) {
	return nil, nil
}

type stubProductLoader struct {
	product *models.Product
}

func (s *stubProductLoader) FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if s.product == nil || s.product.ID != productID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.product, nil
}

type stubBroadcaster struct {
	calls int
}

func (s *stubBroadcaster) BroadcastPromotion(ctx context.Context, promotionID uuid.UUID, title string) error {
	s.calls++
	return nil
}

func newTestService(t *testing.T, repo Repository, products productLoader, bc broadcaster) Service {
	t.Helper()
	logg := logger.New(logger.Options{Output: io.Discard})
	svc, err := NewService(repo, products, bc, logg)
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}
	return svc
}

func validInput() CreatePromotionInput {
	now := time.Now().UTC()
	return CreatePromotionInput{
		Title:         "Weekend dairy sale",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: 10,
		StartsAt:      now,
		EndsAt:        now.Add(48 * time.Hour),
	}
}

func TestCreateBroadcastsToAllCustomers(t *testing.T) {
	repo := &stubRepo{}
	bc := &stubBroadcaster{}
	svc := newTestService(t, repo, &stubProductLoader{}, bc)

	promotion, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if promotion.ID == uuid.Nil {
		t.Fatal("expected assigned id")
	}
	if bc.calls != 1 {
		t.Fatalf("expected one broadcast, got %d", bc.calls)
	}
}

func TestCreateRejectsInvertedWindow(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, &stubProductLoader{}, nil)

	input := validInput()
	input.StartsAt, input.EndsAt = input.EndsAt, input.StartsAt
	if _, err := svc.Create(context.Background(), input); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	input = validInput()
	input.EndsAt = input.StartsAt
	if _, err := svc.Create(context.Background(), input); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for zero-length window, got %v", err)
	}
}

func TestCreateRejectsOversizedPercentage(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, &stubProductLoader{}, nil)

	input := validInput()
	input.DiscountValue = 120
	if _, err := svc.Create(context.Background(), input); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsUnknownProduct(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, &stubProductLoader{}, nil)

	input := validInput()
	missing := uuid.New()
	input.ProductID = &missing
	if _, err := svc.Create(context.Background(), input); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateKeepsWindowConsistent(t *testing.T) {
	now := time.Now().UTC()
	repo := &stubRepo{promotion: &models.Promotion{
		ID:            uuid.New(),
		Title:         "Weekend dairy sale",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: 10,
		StartsAt:      now,
		EndsAt:        now.Add(24 * time.Hour),
	}}
	svc := newTestService(t, repo, &stubProductLoader{}, nil)

	late := now.Add(48 * time.Hour)
	_, err := svc.Update(context.Background(), repo.promotion.ID, UpdatePromotionInput{StartsAt: &late})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	svc := newTestService(t, &stubRepo{deleteRows: 0}, &stubProductLoader{}, nil)
	err := svc.Delete(context.Background(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
