package promotions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshmart/freshmart-backend/pkg/db/models"
	"github.com/freshmart/freshmart-backend/pkg/pagination"
)

// Repository manages persistence for promotions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, promotionID uuid.UUID) (*models.Promotion, error)
	Create(ctx context.Context, promotion *models.Promotion) error
	Update(ctx context.Context, promotion *models.Promotion) error
	Delete(ctx context.Context, promotionID uuid.UUID) (int64, error)
	List(ctx context.Context, params listPromotionsParams) ([]models.Promotion, *pagination.Cursor, error)
	// ListActive returns promotions whose window contains the given instant.
	ListActive(ctx context.Context, now time.Time) ([]models.Promotion, error)
}

type listPromotionsParams struct {
	Limit  int
	Cursor *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a promotion repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, promotionID uuid.UUID) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := r.db.WithContext(ctx).
		Where("id = ?", promotionID).
		First(&promotion).Error; err != nil {
		return nil, err
	}
	return &promotion, nil
}

func (r *repository) Create(ctx context.Context, promotion *models.Promotion) error {
	return r.db.WithContext(ctx).Create(promotion).Error
}

func (r *repository) Update(ctx context.Context, promotion *models.Promotion) error {
	return r.db.WithContext(ctx).Save(promotion).Error
}

func (r *repository) Delete(ctx context.Context, promotionID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", promotionID).
		Delete(&models.Promotion{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repository) List(ctx context.Context, params listPromotionsParams) ([]models.Promotion, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Promotion{})
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var promotions []models.Promotion
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&promotions).Error; err != nil {
		return nil, nil, err
	}

	if len(promotions) > normalized {
		next := promotions[normalized]
		promotions = promotions[:normalized]
		return promotions, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return promotions, nil, nil
}

func (r *repository) ListActive(ctx context.Context, now time.Time) ([]models.Promotion, error) {
	var promotions []models.Promotion
	if err := r.db.WithContext(ctx).
		Where("starts_at <= ? AND ends_at >= ?", now, now).
		Order("created_at ASC").
		Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}
