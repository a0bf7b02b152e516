package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"kasirpay/internal/models"
	"kasirpay/internal/repository"
	"kasirpay/internal/status"
)

const paidAtLayout = "2006-01-02 15:04:05"

// OrderService runs the business side of a confirmed payment: flip the
// durable payment row to COMPLETED and tell the staff over WhatsApp.
// Every step is best-effort; by the time this runs the gateway has
// already been acked.
type OrderService struct {
	payments      *repository.PaymentRepository
	notifications *repository.NotificationRepository
	wa            *WhatsAppService
	staffChatID   string
}

func NewOrderService(payments *repository.PaymentRepository, notifications *repository.NotificationRepository, wa *WhatsAppService, staffChatID string) *OrderService {
	return &OrderService{payments: payments, notifications: notifications, wa: wa, staffChatID: staffChatID}
}

// FinalizeSuccessful handles a berhasil callback record.
func (s *OrderService) FinalizeSuccessful(ctx context.Context, rec status.Record) {
	log.Printf("[ORDER] finalizing %s amount=%s paid_at=%s", rec.ReferenceID, rec.Amount, rec.PaidAt)

	paidAt := time.Now()
	if t, err := time.ParseInLocation(paidAtLayout, rec.PaidAt, time.Local); err == nil {
		paidAt = t
	}
	if err := s.payments.MarkCompleted(rec.ReferenceID, rec.TrxID, paidAt); err != nil {
		log.Printf("[ORDER] mark completed %s: %v", rec.ReferenceID, err)
	}
	s.notifyStaff(ctx, rec)
}

// FinalizeExpired closes out a payment the gateway let lapse.
func (s *OrderService) FinalizeExpired(rec status.Record) {
	if err := s.payments.MarkExpired(rec.ReferenceID); err != nil {
		log.Printf("[ORDER] mark expired %s: %v", rec.ReferenceID, err)
	}
}

func (s *OrderService) notifyStaff(ctx context.Context, rec status.Record) {
	if s.staffChatID == "" {
		return
	}
	text := fmt.Sprintf("Pembayaran QRIS diterima\nRef: %s\nNominal: Rp %s\nVia: %s %s\nWaktu: %s",
		rec.ReferenceID, rec.Amount, rec.Via, rec.Channel, rec.PaidAt)
	err := s.wa.SendText(ctx, s.staffChatID, text)
	n := &models.Notification{
		ReferenceID: rec.ReferenceID,
		Channel:     "whatsapp",
		ChatID:      s.staffChatID,
		Body:        text,
		Sent:        err == nil,
	}
	if err != nil {
		log.Printf("[WA] notify staff for %s: %v", rec.ReferenceID, err)
		n.Error = err.Error()
	}
	if dbErr := s.notifications.Create(n); dbErr != nil {
		log.Printf("[WA] log notification for %s: %v", rec.ReferenceID, dbErr)
	}
}
