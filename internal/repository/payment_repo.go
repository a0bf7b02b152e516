package repository

import (
	"time"

	"kasirpay/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByReferenceID(ref string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Where("reference_id = ?", ref).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) Update(p *models.Payment) error {
	return r.db.Save(p).Error
}

// MarkCompleted flips a pending payment to COMPLETED exactly once; a row
// already terminal is left untouched so duplicate callbacks stay
// idempotent.
func (r *PaymentRepository) MarkCompleted(ref, trxID string, paidAt time.Time) error {
	return r.db.Model(&models.Payment{}).
		Where("reference_id = ? AND status = ?", ref, models.PaymentPending).
		Updates(map[string]any{"status": models.PaymentCompleted, "trx_id": trxID, "paid_at": paidAt}).Error
}

func (r *PaymentRepository) MarkExpired(ref string) error {
	return r.db.Model(&models.Payment{}).
		Where("reference_id = ? AND status = ?", ref, models.PaymentPending).
		Update("status", models.PaymentExpired).Error
}
