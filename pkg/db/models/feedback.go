package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/freshmart/freshmart-backend/pkg/enums"
)

// Feedback is a customer-submitted message with an optional admin response.
type Feedback struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID  uuid.UUID            `gorm:"column:customer_id;type:uuid;not null;index"`
	Subject     string               `gorm:"column:subject;not null"`
	Message     string               `gorm:"column:message;not null"`
	Status      enums.FeedbackStatus `gorm:"column:status;type:text;not null;default:open"`
	Response    *string              `gorm:"column:response"`
	RespondedAt *time.Time           `gorm:"column:responded_at"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
