package models

import "time"

// Notification logs each staff WhatsApp dispatch attempt.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ReferenceID string    `gorm:"size:64;index" json:"reference_id"`
	Channel     string    `gorm:"size:20;not null" json:"channel"` // whatsapp
	ChatID      string    `gorm:"size:64" json:"chat_id"`
	Body        string    `gorm:"type:text" json:"body"`
	Sent        bool      `gorm:"not null" json:"sent"`
	Error       string    `gorm:"size:255" json:"error"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
