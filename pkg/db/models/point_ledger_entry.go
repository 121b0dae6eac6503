package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/freshmart/freshmart-backend/pkg/enums"
)

// PointLedgerEntry records an immutable point balance mutation.
type PointLedgerEntry struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID   uuid.UUID            `gorm:"column:customer_id;type:uuid;not null;index"`
	PurchaseID   *uuid.UUID           `gorm:"column:purchase_id;type:uuid"`
	Type         enums.PointEventType `gorm:"column:type;type:text;not null"`
	Points       int                  `gorm:"column:points;not null"`
	CashAmount   int                  `gorm:"column:cash_amount;not null;default:0"`
	BalanceAfter int                  `gorm:"column:balance_after;not null"`
	Metadata     json.RawMessage      `gorm:"column:metadata;type:jsonb"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
}
