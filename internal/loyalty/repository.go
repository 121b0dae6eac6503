package loyalty

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshmart/freshmart-backend/pkg/db/models"
)

// Repository manages persistence for customer balances and ledger entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetCustomer(ctx context.Context, customerID uuid.UUID) (*models.Customer, error)
	// DebitPoints atomically moves points into cash balance, guarded by the
	// current balance. Returns the number of rows updated: zero means the
	// balance no longer covers the debit.
	DebitPoints(ctx context.Context, customerID uuid.UUID, points, cashAmount int) (int64, error)
	CreditPoints(ctx context.Context, customerID uuid.UUID, points int) error
	CreateEntry(ctx context.Context, entry *models.PointLedgerEntry) error
	ListEntries(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.PointLedgerEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) GetCustomer(ctx context.Context, customerID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).
		Where("id = ?", customerID).
		First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) DebitPoints(ctx context.Context, customerID uuid.UUID, points, cashAmount int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ? AND point_balance >= ?", customerID, points).
		Updates(map[string]any{
			"point_balance": gorm.Expr("point_balance - ?", points),
			"cash_balance":  gorm.Expr("cash_balance + ?", cashAmount),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *repository) CreditPoints(ctx context.Context, customerID uuid.UUID, points int) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		Update("point_balance", gorm.Expr("point_balance + ?", points)).Error
}

func (r *repository) CreateEntry(ctx context.Context, entry *models.PointLedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListEntries(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.PointLedgerEntry, error) {
	var entries []models.PointLedgerEntry
	query := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
