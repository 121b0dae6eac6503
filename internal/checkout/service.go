package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshmart/freshmart-backend/internal/customers"
	"github.com/freshmart/freshmart-backend/internal/pricing"
	"github.com/freshmart/freshmart-backend/internal/purchases"
	"github.com/freshmart/freshmart-backend/pkg/db/models"
	"github.com/freshmart/freshmart-backend/pkg/enums"
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
	"github.com/freshmart/freshmart-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type profileReader interface {
	Profile(ctx context.Context, customerID uuid.UUID) (*customers.ProfileDTO, error)
}

type promotionSource interface {
	Active(ctx context.Context, now time.Time) ([]models.Promotion, error)
}

type productLoader interface {
	FindByIDs(ctx context.Context, productIDs []uuid.UUID) ([]models.Product, error)
}

type pointAccruer interface {
	Accrue(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, purchaseID uuid.UUID, total int) (int, error)
}

// purchaseNotifier receives completed checkouts for customer messaging.
// Delivery is best effort; failures never unwind a stored purchase.
type purchaseNotifier interface {
	NotifyPurchase(ctx context.Context, customerID, purchaseID uuid.UUID, total, points int) error
}

// Service executes cart quoting and checkout orchestration.
type Service interface {
	// Quote prices the cart without charging. The returned prices hold only
	// for the promotion set at the time of the call.
	Quote(ctx context.Context, customerID uuid.UUID, lines []CartLine) (*QuoteResult, error)
	// Checkout prices and persists the purchase in one transaction, using a
	// single timestamp so the charged prices match the quoted ones.
	Checkout(ctx context.Context, customerID uuid.UUID, lines []CartLine) (*CheckoutResult, error)
}

// CartLine is one requested product and quantity.
type CartLine struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// QuotedLine pairs a catalog product with its resolved price.
type QuotedLine struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
	Quote    pricing.Quote  `json:"quote"`
}

// QuoteResult is the priced cart.
type QuoteResult struct {
	Lines []QuotedLine         `json:"lines"`
	Total int                  `json:"total"`
	Tier  enums.MembershipTier `json:"tier"`
}

// CheckoutResult reports the stored purchase and the points it earned.
type CheckoutResult struct {
	Purchase     *models.Purchase `json:"purchase"`
	PointsEarned int              `json:"points_earned"`
	Quote        *QuoteResult     `json:"quote"`
}

type service struct {
	tx         txRunner
	profiles   profileReader
	promotions promotionSource
	products   productLoader
	purchases  purchases.Repository
	accruer    pointAccruer
	notifier   purchaseNotifier
	logg       *logger.Logger
}

// NewService builds the checkout service. The notifier is optional.
func NewService(
	tx txRunner,
	profiles profileReader,
	promotions promotionSource,
	products productLoader,
	purchaseRepo purchases.Repository,
	accruer pointAccruer,
	notifier purchaseNotifier,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "tx runner required")
	}
	if profiles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "profile reader required")
	}
	if promotions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "promotion source required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product loader required")
	}
	if purchaseRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "purchase repository required")
	}
	if accruer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "point accruer required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		tx:         tx,
		profiles:   profiles,
		promotions: promotions,
		products:   products,
		purchases:  purchaseRepo,
		accruer:    accruer,
		notifier:   notifier,
		logg:       logg,
	}, nil
}

func (s *service) Quote(ctx context.Context, customerID uuid.UUID, lines []CartLine) (*QuoteResult, error) {
	return s.buildQuote(ctx, customerID, lines, time.Now().UTC())
}

func (s *service) Checkout(ctx context.Context, customerID uuid.UUID, lines []CartLine) (*CheckoutResult, error) {
	now := time.Now().UTC()
	quote, err := s.buildQuote(ctx, customerID, lines, now)
	if err != nil {
		return nil, err
	}

	purchase := &models.Purchase{
		CustomerID:  customerID,
		Total:       quote.Total,
		PurchasedAt: now,
	}
	for _, line := range quote.Lines {
		item := models.PurchaseLineItem{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Category:    line.Product.Category,
			UnitPrice:   line.Quote.UnitPrice,
			Quantity:    line.Quantity,
		}
		if applied := line.Quote.Applied; applied != nil {
			source := applied.Source
			item.DiscountSource = &source
			item.DiscountAmount = applied.Amount
		}
		purchase.LineItems = append(purchase.LineItems, item)
	}

	var points int
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		purchaseRepo := s.purchases.WithTx(tx)
		if err := purchaseRepo.Create(ctx, purchase); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase")
		}

		earned, err := s.accruer.Accrue(ctx, tx, customerID, purchase.ID, purchase.Total)
		if err != nil {
			return err
		}
		points = earned
		if points > 0 {
			if err := purchaseRepo.SetPointsEarned(ctx, purchase.ID, points); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record points earned")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	purchase.PointsEarned = points

	if s.notifier != nil {
		if notifyErr := s.notifier.NotifyPurchase(ctx, customerID, purchase.ID, purchase.Total, points); notifyErr != nil {
			s.logg.Warn(s.logg.WithField(ctx, "purchase_id", purchase.ID.String()), "purchase notification failed")
		}
	}

	return &CheckoutResult{
		Purchase:     purchase,
		PointsEarned: points,
		Quote:        quote,
	}, nil
}

func (s *service) buildQuote(ctx context.Context, customerID uuid.UUID, lines []CartLine, now time.Time) (*QuoteResult, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	merged, err := mergeLines(lines)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.Profile(ctx, customerID)
	if err != nil {
		return nil, err
	}
	favorite := enums.ProductCategory("")
	if profile.FavoriteCategory != nil {
		favorite = *profile.FavoriteCategory
	}

	promotions, err := s.promotions.Active(ctx, now)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(merged))
	for _, line := range merged {
		ids = append(ids, line.ProductID)
	}
	found, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	byID := make(map[uuid.UUID]models.Product, len(found))
	for _, product := range found {
		byID[product.ID] = product
	}

	result := &QuoteResult{Tier: profile.Tier}
	for _, line := range merged {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		if !product.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product not available")
		}

		quote, err := pricing.ResolvePrice(&product, line.Quantity, profile.Tier, favorite, promotions, now)
		if err != nil {
			return nil, err
		}
		result.Lines = append(result.Lines, QuotedLine{
			Product:  product,
			Quantity: line.Quantity,
			Quote:    quote,
		})
		result.Total += quote.UnitPrice * line.Quantity
	}
	return result, nil
}

// mergeLines folds duplicate product ids into one line so the quantity-gated
// membership discount sees the combined quantity.
func mergeLines(lines []CartLine) ([]CartLine, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}

	index := map[uuid.UUID]int{}
	merged := make([]CartLine, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
		}
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		if at, ok := index[line.ProductID]; ok {
			merged[at].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged, nil
}
