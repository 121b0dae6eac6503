package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the membership record. Tier is never stored here; it is
// recomputed from JoinedAt and the purchase history on every read.
type Customer struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"type:text;not null;uniqueIndex"`
	FullName     string     `gorm:"column:full_name;not null"`
	Phone        *string    `gorm:"column:phone"`
	JoinedAt     time.Time  `gorm:"column:joined_at;not null"`
	PointBalance int        `gorm:"column:point_balance;not null;default:0"`
	CashBalance  int        `gorm:"column:cash_balance;not null;default:0"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
