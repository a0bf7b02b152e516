package handler

import (
	"errors"
	"log"
	"net/http"

	"kasirpay/internal/models"
	"kasirpay/pkg/payment"

	"github.com/gin-gonic/gin"
)

// PaymentStore is the slice of the payment repository the handler needs.
type PaymentStore interface {
	Create(p *models.Payment) error
}

type PaymentHandler struct {
	provider payment.Provider
	payments PaymentStore
}

func NewPaymentHandler(provider payment.Provider, payments PaymentStore) *PaymentHandler {
	return &PaymentHandler{provider: provider, payments: payments}
}

// Create builds a signed QRIS session against the gateway and relays the
// gateway's response verbatim; the embedded reference id is the
// correlation key for every later callback and poll.
func (h *PaymentHandler) Create(c *gin.Context) {
	var req struct {
		Amount int64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	resp, err := h.provider.CreatePayment(c.Request.Context(), payment.Request{Amount: req.Amount})
	if err != nil {
		var malformed *payment.MalformedResponseError
		switch {
		case errors.Is(err, payment.ErrNotConfigured):
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Payment service configuration error",
				"message": "Please check server configuration",
			})
		case errors.Is(err, payment.ErrBelowMinimum):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid amount",
				"message": "Minimum payment amount is Rp 1.000",
			})
		case errors.Is(err, payment.ErrGatewayTimeout):
			c.JSON(http.StatusRequestTimeout, gin.H{
				"error":   "Payment gateway timeout",
				"message": "Please try again in a moment",
			})
		case errors.As(err, &malformed):
			// Not a failure from the caller's view: surface the marker and
			// the truncated raw body instead of crashing the flow.
			c.JSON(http.StatusOK, gin.H{
				"error":       "Invalid response from payment gateway",
				"rawResponse": malformed.Snippet,
			})
		default:
			log.Printf("[PAYMENT] create failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Payment creation failed",
				"message": err.Error(),
			})
		}
		return
	}

	if dbErr := h.payments.Create(&models.Payment{
		ReferenceID: resp.ReferenceID,
		Amount:      req.Amount,
		Method:      "qris",
		Status:      models.PaymentPending,
	}); dbErr != nil {
		log.Printf("[PAYMENT] persist %s: %v", resp.ReferenceID, dbErr)
	}

	c.Data(http.StatusOK, "application/json", resp.Body)
}
