package pricing

import (
	"time"

	"github.com/google/uuid"

	"github.com/freshmart/freshmart-backend/pkg/db/models"
	"github.com/freshmart/freshmart-backend/pkg/enums"
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
)

// Membership discount rates, in percent of the base price. Loyal members get
// the better rate; active members need at least two units on the line.
const (
	loyalDiscountPercent      = 10
	activeDiscountPercent     = 5
	activeDiscountMinQuantity = 2
)

// AppliedDiscount describes the rule that won on a price resolution.
type AppliedDiscount struct {
	Source      enums.DiscountSource `json:"source"`
	Type        enums.DiscountType   `json:"type"`
	Value       int                  `json:"value"`
	Amount      int                  `json:"amount"`
	Label       string               `json:"label"`
	PromotionID *uuid.UUID           `json:"promotion_id,omitempty"`
}

// Quote is the outcome of resolving one cart line's unit price.
type Quote struct {
	UnitPrice int              `json:"unit_price"`
	Applied   *AppliedDiscount `json:"applied_discount,omitempty"`
}

// ResolvePrice computes the effective unit price for a product given the
// customer's tier, their favorite category and the promotion set. Pure
// function; callers must pass the same `now` at display and charge time so
// the quoted price matches the charged price.
//
// Precedence: the largest absolute discount wins. On an exact tie between a
// promotion and the membership discount, the promotion wins. Ties between
// promotions break toward the smallest promotion ID.
func ResolvePrice(
	product *models.Product,
	quantity int,
	tier enums.MembershipTier,
	favoriteCategory enums.ProductCategory,
	promotions []models.Promotion,
	now time.Time,
) (Quote, error) {
	if product == nil {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}
	if quantity <= 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if product.BasePrice < 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "base price cannot be negative")
	}

	promo, promoAmount := bestPromotion(product, promotions, now)
	memberAmount := membershipAmount(product, quantity, tier, favoriteCategory)

	// Promotion wins exact ties.
	if memberAmount > promoAmount {
		unit := product.BasePrice - memberAmount
		if unit < 0 {
			unit = 0
		}
		percent := loyalDiscountPercent
		if tier == enums.MembershipTierActive {
			percent = activeDiscountPercent
		}
		return Quote{
			UnitPrice: unit,
			Applied: &AppliedDiscount{
				Source: enums.DiscountSourceMembership,
				Type:   enums.DiscountTypePercentage,
				Value:  percent,
				Amount: memberAmount,
				Label:  "member favorite category",
			},
		}, nil
	}

	if promo != nil && promoAmount > 0 {
		unit := product.BasePrice - promoAmount
		if unit < 0 {
			unit = 0
		}
		id := promo.ID
		return Quote{
			UnitPrice: unit,
			Applied: &AppliedDiscount{
				Source:      enums.DiscountSourcePromotion,
				Type:        promo.DiscountType,
				Value:       promo.DiscountValue,
				Amount:      promoAmount,
				Label:       promo.Title,
				PromotionID: &id,
			},
		}, nil
	}

	return Quote{UnitPrice: product.BasePrice}, nil
}

// bestPromotion selects the active, matching promotion with the largest
// absolute discount amount on the product's base price.
func bestPromotion(product *models.Product, promotions []models.Promotion, now time.Time) (*models.Promotion, int) {
	var best *models.Promotion
	bestAmount := 0

	for i := range promotions {
		promo := &promotions[i]
		if !promo.ActiveAt(now) {
			continue
		}
		if promo.ProductID != nil && *promo.ProductID != product.ID {
			continue
		}

		amount := DiscountAmount(product.BasePrice, promo.DiscountType, promo.DiscountValue)
		if amount <= 0 {
			continue
		}

		switch {
		case amount > bestAmount:
			best, bestAmount = promo, amount
		case amount == bestAmount && best != nil && promo.ID.String() < best.ID.String():
			best = promo
		}
	}

	return best, bestAmount
}

// DiscountAmount computes the absolute rupiah discount a rule takes off the
// base price. Fixed amounts are capped at the base price.
func DiscountAmount(basePrice int, discountType enums.DiscountType, value int) int {
	if basePrice <= 0 || value <= 0 {
		return 0
	}
	switch discountType {
	case enums.DiscountTypePercentage:
		return basePrice * value / 100
	case enums.DiscountTypeFixedAmount:
		if value > basePrice {
			return basePrice
		}
		return value
	default:
		return 0
	}
}

func membershipAmount(product *models.Product, quantity int, tier enums.MembershipTier, favoriteCategory enums.ProductCategory) int {
	if favoriteCategory == "" || product.Category != favoriteCategory {
		return 0
	}
	switch tier {
	case enums.MembershipTierLoyal:
		return product.BasePrice * loyalDiscountPercent / 100
	case enums.MembershipTierActive:
		if quantity >= activeDiscountMinQuantity {
			return product.BasePrice * activeDiscountPercent / 100
		}
	}
	return 0
}
