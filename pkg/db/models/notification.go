package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/freshmart/freshmart-backend/pkg/enums"
)

// Notification is a customer-facing message created after promotion or
// redemption events. A nil CustomerID addresses every customer.
type Notification struct {
	ID         uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID *uuid.UUID             `gorm:"column:customer_id;type:uuid;index"`
	Type       enums.NotificationType `gorm:"column:type;type:text;not null"`
	Title      string                 `gorm:"column:title;not null"`
	Message    string                 `gorm:"column:message;not null"`
	Link       *string                `gorm:"column:link"`
	ReadAt     *time.Time             `gorm:"column:read_at"`
	CreatedAt  time.Time              `gorm:"column:created_at;autoCreateTime"`
}
