package repository

import (
	"kasirpay/internal/models"

	"gorm.io/gorm"
)

type CallbackRepository struct {
	db *gorm.DB
}

func NewCallbackRepository(db *gorm.DB) *CallbackRepository {
	return &CallbackRepository{db: db}
}

func (r *CallbackRepository) Create(e *models.CallbackEvent) error {
	return r.db.Create(e).Error
}

func (r *CallbackRepository) ListByReferenceID(ref string) ([]models.CallbackEvent, error) {
	var events []models.CallbackEvent
	err := r.db.Where("reference_id = ?", ref).Order("id").Find(&events).Error
	return events, err
}
