package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/freshmart/freshmart-backend/pkg/enums"
)

// Promotion is a time-bounded discount rule. A nil ProductID scopes the
// promotion to the whole catalog.
type Promotion struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title         string             `gorm:"column:title;not null"`
	ProductID     *uuid.UUID         `gorm:"column:product_id;type:uuid"`
	DiscountType  enums.DiscountType `gorm:"column:discount_type;type:text;not null"`
	DiscountValue int                `gorm:"column:discount_value;not null"`
	StartsAt      time.Time          `gorm:"column:starts_at;not null"`
	EndsAt        time.Time          `gorm:"column:ends_at;not null"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// ActiveAt reports whether now falls inside the promotion window.
func (p Promotion) ActiveAt(now time.Time) bool {
	return !now.Before(p.StartsAt) && !now.After(p.EndsAt)
}
