package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/freshmart/freshmart-backend/pkg/enums"
)

// Product represents a catalog listing.
type Product struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU         string                `gorm:"column:sku;not null;uniqueIndex"`
	Name        string                `gorm:"column:name;not null"`
	Description *string               `gorm:"column:description"`
	Category    enums.ProductCategory `gorm:"column:category;type:text;not null"`
	BasePrice   int                   `gorm:"column:base_price;not null"`
	Tags        pq.StringArray        `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	ImageURL    *string               `gorm:"column:image_url"`
	IsActive    bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
