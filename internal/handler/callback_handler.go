package handler

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"kasirpay/internal/callback"
	"kasirpay/internal/models"
	"kasirpay/internal/status"

	"github.com/gin-gonic/gin"
)

// CallbackLog persists the raw-callback audit trail.
type CallbackLog interface {
	Create(e *models.CallbackEvent) error
}

// Finalizer is the business hook behind a terminal callback.
type Finalizer interface {
	FinalizeSuccessful(ctx context.Context, rec status.Record)
	FinalizeExpired(rec status.Record)
}

// CallbackHandler serves the shared callback route: status-check polls
// from the POS client and asynchronous notifications from the gateway,
// correlated only by reference id through the status store.
type CallbackHandler struct {
	store     *status.Store
	callbacks CallbackLog
	orders    Finalizer
}

func NewCallbackHandler(store *status.Store, callbacks CallbackLog, orders Finalizer) *CallbackHandler {
	return &CallbackHandler{store: store, callbacks: callbacks, orders: orders}
}

type checkStatusRequest struct {
	ReferenceID string `json:"referenceId"`
	Action      string `json:"action"`
}

func (h *CallbackHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Callback processing failed",
			"message": err.Error(),
		})
		return
	}

	var probe checkStatusRequest
	if json.Unmarshal(body, &probe) == nil && probe.Action == "checkStatus" && probe.ReferenceID != "" {
		h.respondStatus(c, probe.ReferenceID)
		return
	}

	h.ingest(c, body)
}

// respondStatus is the polling read: a store miss means no callback has
// arrived, which the client treats as pending. No side effects.
func (h *CallbackHandler) respondStatus(c *gin.Context, referenceID string) {
	rec, ok := h.store.Get(referenceID)
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"exists":       false,
			"reference_id": referenceID,
			"status":       status.StatusPending,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"exists":       true,
		"status":       rec.Status,
		"status_code":  rec.StatusCode,
		"reference_id": rec.ReferenceID,
		"amount":       rec.Amount,
		"paid_at":      rec.PaidAt,
		"received_at":  rec.ReceivedAt.Format(time.RFC3339),
		"trx_id":       rec.TrxID,
	})
}

// ingest normalizes a gateway notification and stores it for polling. The
// gateway always gets a 200 for anything it could consider well-formed;
// a non-2xx here would trigger its retry storm.
func (h *CallbackHandler) ingest(c *gin.Context, body []byte) {
	rec, err := callback.Parse(c.ContentType(), body)
	if err != nil {
		log.Printf("[CALLBACK] parse failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Callback processing failed",
			"message": err.Error(),
		})
		return
	}

	if dbErr := h.callbacks.Create(&models.CallbackEvent{
		ReferenceID: rec.ReferenceID,
		Status:      rec.Status,
		StatusCode:  rec.StatusCode,
		TrxID:       rec.TrxID,
		Amount:      rec.Amount,
		Source:      rec.Source,
		RawBody:     string(body),
	}); dbErr != nil {
		log.Printf("[CALLBACK] audit log: %v", dbErr)
	}

	stored := false
	if rec.ReferenceID != "" {
		h.store.Put(rec)
		stored = true
		log.Printf("[CALLBACK] stored %s status=%s source=%s (total=%d)", rec.ReferenceID, rec.Status, rec.Source, h.store.Len())
	} else {
		log.Printf("[CALLBACK] no reference_id, not stored (source=%s)", rec.Source)
	}

	// Business hooks run after the ack is decided; their failures are
	// logged inside the order service and never reach the gateway.
	if stored {
		switch {
		case rec.Succeeded():
			h.orders.FinalizeSuccessful(c.Request.Context(), rec)
		case rec.Status == status.StatusExpired:
			h.orders.FinalizeExpired(rec)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Callback processed successfully",
		"reference_id": rec.ReferenceID,
		"status":       rec.Status,
		"amount":       rec.Amount,
		"stored":       stored,
		"timestamp":    time.Now().Format(time.RFC3339),
	})
}
