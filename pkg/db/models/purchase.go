package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/freshmart/freshmart-backend/pkg/enums"
)

// Purchase is an immutable historical record created at checkout.
type Purchase struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID   uuid.UUID          `gorm:"column:customer_id;type:uuid;not null;index"`
	Total        int                `gorm:"column:total;not null"`
	PointsEarned int                `gorm:"column:points_earned;not null;default:0"`
	PurchasedAt  time.Time          `gorm:"column:purchased_at;not null;index"`
	LineItems    []PurchaseLineItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
}

// PurchaseLineItem snapshots one resolved cart line at purchase time.
type PurchaseLineItem struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PurchaseID     uuid.UUID             `gorm:"column:purchase_id;type:uuid;not null;index"`
	ProductID      uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	ProductName    string                `gorm:"column:product_name;not null"`
	Category       enums.ProductCategory `gorm:"column:category;type:text;not null"`
	UnitPrice      int                   `gorm:"column:unit_price;not null"`
	Quantity       int                   `gorm:"column:quantity;not null"`
	DiscountSource *enums.DiscountSource `gorm:"column:discount_source;type:text"`
	DiscountAmount int                   `gorm:"column:discount_amount;not null;default:0"`
}
