package purchases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshmart/freshmart-backend/pkg/db/models"
	"github.com/freshmart/freshmart-backend/pkg/pagination"
)

// Repository manages persistence for purchases and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, purchase *models.Purchase) error
	SetPointsEarned(ctx context.Context, purchaseID uuid.UUID, points int) error
	FindByID(ctx context.Context, purchaseID uuid.UUID) (*models.Purchase, error)
	ListByCustomer(ctx context.Context, params ListQuery) ([]models.Purchase, *pagination.Cursor, error)
	// PurchaseTimestamps returns the purchase times for a customer since the
	// given instant, newest first. The zero time returns the full history.
	PurchaseTimestamps(ctx context.Context, customerID uuid.UUID, since time.Time) ([]time.Time, error)
	// CategoryQuantities aggregates purchased quantities per product category.
	CategoryQuantities(ctx context.Context, customerID uuid.UUID) ([]CategoryQuantityRow, error)
}

// CategoryQuantityRow is one aggregated row of the favorite category query.
type CategoryQuantityRow struct {
	Category string `gorm:"column:category"`
	Quantity int    `gorm:"column:quantity"`
}

// ListQuery drives the paginated purchase history query.
type ListQuery struct {
	CustomerID uuid.UUID
	Limit      int
	Cursor     *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a purchases repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, purchase *models.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

func (r *repository) SetPointsEarned(ctx context.Context, purchaseID uuid.UUID, points int) error {
	return r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("id = ?", purchaseID).
		Update("points_earned", points).Error
}

func (r *repository) FindByID(ctx context.Context, purchaseID uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("id = ?", purchaseID).
		First(&purchase).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *repository) ListByCustomer(ctx context.Context, params ListQuery) ([]models.Purchase, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Preload("LineItems").
		Where("customer_id = ?", params.CustomerID)
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var purchases []models.Purchase
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&purchases).Error; err != nil {
		return nil, nil, err
	}

	if len(purchases) > normalized {
		next := purchases[normalized]
		purchases = purchases[:normalized]
		return purchases, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return purchases, nil, nil
}

func (r *repository) PurchaseTimestamps(ctx context.Context, customerID uuid.UUID, since time.Time) ([]time.Time, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("customer_id = ?", customerID)
	if !since.IsZero() {
		query = query.Where("purchased_at >= ?", since)
	}

	var timestamps []time.Time
	if err := query.Order("purchased_at DESC").Pluck("purchased_at", &timestamps).Error; err != nil {
		return nil, err
	}
	return timestamps, nil
}

func (r *repository) CategoryQuantities(ctx context.Context, customerID uuid.UUID) ([]CategoryQuantityRow, error) {
	var rows []CategoryQuantityRow
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseLineItem{}).
		Select("purchase_line_items.category AS category, SUM(purchase_line_items.quantity) AS quantity").
		Joins("JOIN purchases ON purchases.id = purchase_line_items.purchase_id").
		Where("purchases.customer_id = ?", customerID).
		Group("purchase_line_items.category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
