package promotions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshmart/freshmart-backend/pkg/db/models"
	"github.com/freshmart/freshmart-backend/pkg/enums"
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
	"github.com/freshmart/freshmart-backend/pkg/logger"
	"github.com/freshmart/freshmart-backend/pkg/pagination"
)

type productLoader interface {
	FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error)
}

type broadcaster interface {
	BroadcastPromotion(ctx context.Context, promotionID uuid.UUID, title string) error
}

// Service exposes promotion scheduling operations.
type Service interface {
	Create(ctx context.Context, input CreatePromotionInput) (*models.Promotion, error)
	Update(ctx context.Context, promotionID uuid.UUID, input UpdatePromotionInput) (*models.Promotion, error)
	Delete(ctx context.Context, promotionID uuid.UUID) error
	Get(ctx context.Context, promotionID uuid.UUID) (*models.Promotion, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	// Active returns the promotions in effect right now, for the storefront
	// and the pricing engine.
	Active(ctx context.Context, now time.Time) ([]models.Promotion, error)
}

// CreatePromotionInput holds the validated payload to schedule a promotion.
type CreatePromotionInput struct {
	Title         string
	ProductID     *uuid.UUID
	DiscountType  enums.DiscountType
	DiscountValue int
	StartsAt      time.Time
	EndsAt        time.Time
}

// UpdatePromotionInput holds optional mutation values for a promotion.
type UpdatePromotionInput struct {
	Title         *string
	DiscountType  *enums.DiscountType
	DiscountValue *int
	StartsAt      *time.Time
	EndsAt        *time.Time
}

// ListParams configures pagination for the admin promotion list.
type ListParams struct {
	Limit  int
	Cursor string
}

// ListResult wraps returned promotions and the cursor for the next page.
type ListResult struct {
	Items  []models.Promotion `json:"items"`
	Cursor string             `json:"cursor"`
}

type service struct {
	repo        Repository
	products    productLoader
	broadcaster broadcaster
	logg        *logger.Logger
}

// NewService wires the promotion service. The broadcaster is optional.
func NewService(repo Repository, products productLoader, broadcaster broadcaster, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "promotion repository required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product loader required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:        repo,
		products:    products,
		broadcaster: broadcaster,
		logg:        logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreatePromotionInput) (*models.Promotion, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}
	if !input.DiscountType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount type")
	}
	if input.DiscountValue <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
	}
	if input.DiscountType == enums.DiscountTypePercentage && input.DiscountValue > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
	}
	if !input.StartsAt.Before(input.EndsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "starts_at must precede ends_at")
	}
	if input.ProductID != nil {
		if _, err := s.products.FindByID(ctx, *input.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "promoted product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promoted product")
		}
	}

	promotion := &models.Promotion{
		Title:         strings.TrimSpace(input.Title),
		ProductID:     input.ProductID,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		StartsAt:      input.StartsAt.UTC(),
		EndsAt:        input.EndsAt.UTC(),
	}
	if err := s.repo.Create(ctx, promotion); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create promotion")
	}

	if s.broadcaster != nil {
		if err := s.broadcaster.BroadcastPromotion(ctx, promotion.ID, promotion.Title); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "promotion_id", promotion.ID.String()), "promotion broadcast failed")
		}
	}
	return promotion, nil
}

func (s *service) Update(ctx context.Context, promotionID uuid.UUID, input UpdatePromotionInput) (*models.Promotion, error) {
	promotion, err := s.Get(ctx, promotionID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		promotion.Title = strings.TrimSpace(*input.Title)
	}
	if input.DiscountType != nil {
		if !input.DiscountType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount type")
		}
		promotion.DiscountType = *input.DiscountType
	}
	if input.DiscountValue != nil {
		if *input.DiscountValue <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
		}
		promotion.DiscountValue = *input.DiscountValue
	}
	if promotion.DiscountType == enums.DiscountTypePercentage && promotion.DiscountValue > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
	}
	if input.StartsAt != nil {
		promotion.StartsAt = input.StartsAt.UTC()
	}
	if input.EndsAt != nil {
		promotion.EndsAt = input.EndsAt.UTC()
	}
	if !promotion.StartsAt.Before(promotion.EndsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "starts_at must precede ends_at")
	}

	if err := s.repo.Update(ctx, promotion); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update promotion")
	}
	return promotion, nil
}

func (s *service) Delete(ctx context.Context, promotionID uuid.UUID) error {
	if promotionID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "promotion id required")
	}
	rows, err := s.repo.Delete(ctx, promotionID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete promotion")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
	}
	return nil
}

func (s *service) Get(ctx context.Context, promotionID uuid.UUID) (*models.Promotion, error) {
	if promotionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotion id required")
	}
	promotion, err := s.repo.FindByID(ctx, promotionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotion")
	}
	return promotion, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listPromotionsParams{Limit: pagination.LimitWithBuffer(params.Limit)}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promotions")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) Active(ctx context.Context, now time.Time) ([]models.Promotion, error) {
	promotions, err := s.repo.ListActive(ctx, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active promotions")
	}
	return promotions, nil
}
