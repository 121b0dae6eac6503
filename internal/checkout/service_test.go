package checkout

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshmart/freshmart-backend/internal/customers"
	"github.com/freshmart/freshmart-backend/internal/purchases"
	"github.com/freshmart/freshmart-backend/pkg/db/models"
	"github.com/freshmart/freshmart-backend/pkg/enums"
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
	"github.com/freshmart/freshmart-backend/pkg/logger"
	"github.com/freshmart/freshmart-backend/pkg/pagination"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubProfileReader struct {
	profile *customers.ProfileDTO
}

func (s *stubProfileReader) Profile(ctx context.Context, customerID uuid.UUID) (*customers.ProfileDTO, error) {
	if s.profile == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return s.profile, nil
}

type stubPromotionSource struct {
	promotions []models.Promotion
}

func (s *stubPromotionSource) Active(ctx context.Context, now time.Time) ([]models.Promotion, error) {
	return s.promotions, nil
}

type stubProductLoader struct {
	products []models.Product
}

func (s *stubProductLoader) FindByIDs(ctx context.Context, productIDs []uuid.UUID) ([]models.Product, error) {
	return s.products, nil
}

type stubPurchaseRepo struct {
	created      *models.Purchase
	pointsSet    int
	pointsSetFor uuid.UUID
}

func (s *stubPurchaseRepo) WithTx(tx *gorm.DB) purchases.Repository { return s }

func (s *stubPurchaseRepo) Create(ctx context.Context, purchase *models.Purchase) error {
	purchase.ID = uuid.New()
	s.created = purchase
	return nil
}

func (s *stubPurchaseRepo) SetPointsEarned(ctx context.Context, purchaseID uuid.UUID, points int) error {
	s.pointsSet = points
	s.pointsSetFor = purchaseID
	return nil
}

func (s *stubPurchaseRepo) FindByID(ctx context.Context, purchaseID uuid.UUID) (*models.Purchase, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPurchaseRepo) ListByCustomer(ctx context.Context, params purchases.ListQuery) ([]models.Purchase, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (s *stubPurchaseRepo) PurchaseTimestamps(ctx context.Context, customerID uuid.UUID, since time.Time) ([]time.Time, error) {
	return nil, nil
}

func (s *stubPurchaseRepo) CategoryQuantities(ctx context.Context, customerID uuid.UUID) ([]purchases.CategoryQuantityRow, error) {
	return nil, nil
}

type stubAccruer struct {
	points     int
	calledWith int
}

func (s *stubAccruer) Accrue(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, purchaseID uuid.UUID, total int) (int, error) {
	s.calledWith = total
	return s.points, nil
}

type stubPurchaseNotifier struct {
	customerID uuid.UUID
	purchaseID uuid.UUID
	total      int
	points     int
	calls      int
	err        error
}

func (s *stubPurchaseNotifier) NotifyPurchase(ctx context.Context, customerID, purchaseID uuid.UUID, total, points int) error {
	s.customerID = customerID
	s.purchaseID = purchaseID
	s.total = total
	s.points = points
	s.calls++
	return s.err
}

func activeProduct(price int) models.Product {
	return models.Product{
		ID:        uuid.New(),
		SKU:       "SKU-1",
		Name:      "Fresh Milk 1L",
		Category:  enums.ProductCategoryDairy,
		BasePrice: price,
		IsActive:  true,
	}
}

func newTestService(
	t *testing.T,
	profiles profileReader,
	promotions promotionSource,
	products productLoader,
	repo purchases.Repository,
	accruer pointAccruer,
	notifier purchaseNotifier,
) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(stubTxRunner{}, profiles, promotions, products, repo, accruer, notifier, logg)
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}
	return svc
}

func TestQuoteAppliesPromotion(t *testing.T) {
	product := activeProduct(35000)
	now := time.Now().UTC()
	promo := models.Promotion{
		ID:            uuid.New(),
		Title:         "10 percent off everything",
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: 10,
		StartsAt:      now.Add(-time.Hour),
		EndsAt:        now.Add(time.Hour),
	}
	svc := newTestService(t,
		&stubProfileReader{profile: &customers.ProfileDTO{Tier: enums.MembershipTierNew}},
		&stubPromotionSource{promotions: []models.Promotion{promo}},
		&stubProductLoader{products: []models.Product{product}},
		&stubPurchaseRepo{},
		&stubAccruer{},
		nil,
	)

	quote, err := svc.Quote(context.Background(), uuid.New(), []CartLine{{ProductID: product.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("Quote error: %v", err)
	}
	if quote.Total != 31500 {
		t.Fatalf("expected total 31500, got %d", quote.Total)
	}
	if len(quote.Lines) != 1 || quote.Lines[0].Quote.Applied == nil {
		t.Fatalf("expected an applied discount, got %+v", quote.Lines)
	}
}

func TestCheckoutPersistsPurchaseAndAccruesPoints(t *testing.T) {
	product := activeProduct(43500)
	repo := &stubPurchaseRepo{}
	accruer := &stubAccruer{points: 8}
	favorite := enums.ProductCategoryDairy
	svc := newTestService(t,
		&stubProfileReader{profile: &customers.ProfileDTO{Tier: enums.MembershipTierActive, FavoriteCategory: &favorite}},
		&stubPromotionSource{},
		&stubProductLoader{products: []models.Product{product}},
		repo,
		accruer,
		nil,
	)

	customerID := uuid.New()
	result, err := svc.Checkout(context.Background(), customerID, []CartLine{{ProductID: product.ID, Quantity: 2}})
	if err != nil {
		t.Fatalf("Checkout error: %v", err)
	}

	if repo.created == nil {
		t.Fatal("expected purchase to be persisted")
	}
	// Active tier, favorite category, qty 2 -> 5% off 43500 = 41325 per unit.
	if repo.created.Total != 82650 {
		t.Fatalf("expected total 82650, got %d", repo.created.Total)
	}
	if accruer.calledWith != 82650 {
		t.Fatalf("accrual must use the charged total, got %d", accruer.calledWith)
	}
	if result.PointsEarned != 8 {
		t.Fatalf("expected 8 points earned, got %d", result.PointsEarned)
	}
	if repo.pointsSet != 8 || repo.pointsSetFor != repo.created.ID {
		t.Fatalf("expected points recorded on the purchase, got %d for %s", repo.pointsSet, repo.pointsSetFor)
	}
	if len(repo.created.LineItems) != 1 {
		t.Fatalf("expected one line item, got %d", len(repo.created.LineItems))
	}
	item := repo.created.LineItems[0]
	if item.DiscountSource == nil || *item.DiscountSource != enums.DiscountSourceMembership {
		t.Fatalf("expected membership discount snapshot, got %+v", item.DiscountSource)
	}
	if item.UnitPrice != 41325 {
		t.Fatalf("expected unit price 41325, got %d", item.UnitPrice)
	}
}

func TestCheckoutMergesDuplicateLines(t *testing.T) {
	product := activeProduct(20000)
	repo := &stubPurchaseRepo{}
	favorite := enums.ProductCategoryDairy
	svc := newTestService(t,
		&stubProfileReader{profile: &customers.ProfileDTO{Tier: enums.MembershipTierActive, FavoriteCategory: &favorite}},
		&stubPromotionSource{},
		&stubProductLoader{products: []models.Product{product}},
		repo,
		&stubAccruer{},
		nil,
	)

	// Two single-unit lines of the same product must combine to unlock the
	// quantity-gated active discount.
	result, err := svc.Checkout(context.Background(), uuid.New(), []CartLine{
		{ProductID: product.ID, Quantity: 1},
		{ProductID: product.ID, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("Checkout error: %v", err)
	}
	if len(repo.created.LineItems) != 1 {
		t.Fatalf("expected merged line, got %d items", len(repo.created.LineItems))
	}
	if result.Quote.Lines[0].Quote.Applied == nil {
		t.Fatal("expected merged quantity to unlock the discount")
	}
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	svc := newTestService(t,
		&stubProfileReader{profile: &customers.ProfileDTO{Tier: enums.MembershipTierNew}},
		&stubPromotionSource{},
		&stubProductLoader{},
		&stubPurchaseRepo{},
		&stubAccruer{},
		nil,
	)

	_, err := svc.Checkout(context.Background(), uuid.New(), nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckoutRejectsInactiveProduct(t *testing.T) {
	product := activeProduct(10000)
	product.IsActive = false
	svc := newTestService(t,
		&stubProfileReader{profile: &customers.ProfileDTO{Tier: enums.MembershipTierNew}},
		&stubPromotionSource{},
		&stubProductLoader{products: []models.Product{product}},
		&stubPurchaseRepo{},
		&stubAccruer{},
		nil,
	)

	_, err := svc.Checkout(context.Background(), uuid.New(), []CartLine{{ProductID: product.ID, Quantity: 1}})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckoutUnknownProductNotFound(t *testing.T) {
	svc := newTestService(t,
		&stubProfileReader{profile: &customers.ProfileDTO{Tier: enums.MembershipTierNew}},
		&stubPromotionSource{},
		&stubProductLoader{},
		&stubPurchaseRepo{},
		&stubAccruer{},
		nil,
	)

	_, err := svc.Checkout(context.Background(), uuid.New(), []CartLine{{ProductID: uuid.New(), Quantity: 1}})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCheckoutNotifiesCustomer(t *testing.T) {
	product := activeProduct(87000)
	repo := &stubPurchaseRepo{}
	notifier := &stubPurchaseNotifier{}
	svc := newTestService(t,
		&stubProfileReader{profile: &customers.ProfileDTO{Tier: enums.MembershipTierNew}},
		&stubPromotionSource{},
		&stubProductLoader{products: []models.Product{product}},
		repo,
		&stubAccruer{points: 8},
		notifier,
	)

	customerID := uuid.New()
	if _, err := svc.Checkout(context.Background(), customerID, []CartLine{{ProductID: product.ID, Quantity: 1}}); err != nil {
		t.Fatalf("Checkout error: %v", err)
	}
	if notifier.calls != 1 {
		t.Fatalf("expected one notification, got %d", notifier.calls)
	}
	if notifier.customerID != customerID || notifier.purchaseID != repo.created.ID {
		t.Fatalf("notification addressed wrong purchase: %+v", notifier)
	}
	if notifier.total != 87000 || notifier.points != 8 {
		t.Fatalf("expected charged total and points in notification, got %d/%d", notifier.total, notifier.points)
	}
}

func TestCheckoutSucceedsWhenNotifierFails(t *testing.T) {
	product := activeProduct(25000)
	notifier := &stubPurchaseNotifier{err: pkgerrors.New(pkgerrors.CodeDependency, "notifications down")}
	svc := newTestService(t,
		&stubProfileReader{profile: &customers.ProfileDTO{Tier: enums.MembershipTierNew}},
		&stubPromotionSource{},
		&stubProductLoader{products: []models.Product{product}},
		&stubPurchaseRepo{},
		&stubAccruer{},
		notifier,
	)

	result, err := svc.Checkout(context.Background(), uuid.New(), []CartLine{{ProductID: product.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("notifier failure must not fail checkout: %v", err)
	}
	if result.Purchase == nil {
		t.Fatal("expected stored purchase despite notifier failure")
	}
}
