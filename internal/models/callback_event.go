package models

import "time"

// CallbackEvent is an append-only audit row for every gateway notification
// we managed to read, including payloads that carried no reference id and
// were therefore never stored for polling.
type CallbackEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ReferenceID string    `gorm:"size:64;index" json:"reference_id"`
	Status      string    `gorm:"size:32" json:"status"`
	StatusCode  string    `gorm:"size:16" json:"status_code"`
	TrxID       string    `gorm:"size:64" json:"trx_id"`
	Amount      string    `gorm:"size:32" json:"amount"`
	Source      string    `gorm:"size:32;not null" json:"source"`
	RawBody     string    `gorm:"type:text" json:"raw_body"`
	CreatedAt   time.Time `json:"created_at"`
}

func (CallbackEvent) TableName() string {
	return "callback_events"
}
