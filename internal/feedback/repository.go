package feedback

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshmart/freshmart-backend/pkg/db/models"
	"github.com/freshmart/freshmart-backend/pkg/enums"
	"github.com/freshmart/freshmart-backend/pkg/pagination"
)

// Repository manages persistence for feedback and FAQ entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateFeedback(ctx context.Context, entry *models.Feedback) error
	FindFeedbackByID(ctx context.Context, feedbackID uuid.UUID) (*models.Feedback, error)
	UpdateFeedback(ctx context.Context, entry *models.Feedback) error
	ListFeedback(ctx context.Context, params listFeedbackParams) ([]models.Feedback, *pagination.Cursor, error)

	CreateFAQ(ctx context.Context, entry *models.FAQEntry) error
	FindFAQByID(ctx context.Context, faqID uuid.UUID) (*models.FAQEntry, error)
	UpdateFAQ(ctx context.Context, entry *models.FAQEntry) error
	DeleteFAQ(ctx context.Context, faqID uuid.UUID) (int64, error)
	ListFAQ(ctx context.Context, publishedOnly bool) ([]models.FAQEntry, error)
}

type listFeedbackParams struct {
	CustomerID *uuid.UUID
	Status     *enums.FeedbackStatus
	Limit      int
	Cursor     *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a feedback repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateFeedback(ctx context.Context, entry *models.Feedback) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindFeedbackByID(ctx context.Context, feedbackID uuid.UUID) (*models.Feedback, error) {
	var entry models.Feedback
	if err := r.db.WithContext(ctx).
		Where("id = ?", feedbackID).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) UpdateFeedback(ctx context.Context, entry *models.Feedback) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *repository) ListFeedback(ctx context.Context, params listFeedbackParams) ([]models.Feedback, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Feedback{})
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var entries []models.Feedback
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, nil, err
	}

	if len(entries) > normalized {
		next := entries[normalized]
		entries = entries[:normalized]
		return entries, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return entries, nil, nil
}

func (r *repository) CreateFAQ(ctx context.Context, entry *models.FAQEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindFAQByID(ctx context.Context, faqID uuid.UUID) (*models.FAQEntry, error) {
	var entry models.FAQEntry
	if err := r.db.WithContext(ctx).
		Where("id = ?", faqID).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) UpdateFAQ(ctx context.Context, entry *models.FAQEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *repository) DeleteFAQ(ctx context.Context, faqID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", faqID).
		Delete(&models.FAQEntry{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repository) ListFAQ(ctx context.Context, publishedOnly bool) ([]models.FAQEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.FAQEntry{})
	if publishedOnly {
		query = query.Where("is_published = TRUE")
	}

	var entries []models.FAQEntry
	if err := query.Order("sort_order ASC, created_at ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
