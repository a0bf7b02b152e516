package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is the durable record of one QRIS payment attempt. The in-memory
// status store answers polls; this row is the money trail that survives a
// restart.
type Payment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ReferenceID string         `gorm:"size:64;uniqueIndex;not null" json:"reference_id"`
	Amount      int64          `gorm:"not null" json:"amount"`
	Method      string         `gorm:"size:20;default:'qris'" json:"method"`
	Status      string         `gorm:"size:20;not null;index" json:"status"` // PENDING, COMPLETED, EXPIRED
	TrxID       string         `gorm:"size:64" json:"trx_id"`
	SessionID   string         `gorm:"size:64" json:"session_id"`
	PaidAt      *time.Time     `json:"paid_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}

const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentExpired   = "EXPIRED"
)
