package router

import (
	"log"
	"time"

	"kasirpay/config"
	"kasirpay/internal/handler"
	"kasirpay/internal/middleware"
	"kasirpay/internal/repository"
	"kasirpay/internal/service"
	"kasirpay/internal/status"
	"kasirpay/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RequestID())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	paymentRepo := repository.NewPaymentRepository(db)
	callbackRepo := repository.NewCallbackRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Shared state: written by the callback handler, read by polls.
	store := status.NewStore()
	if cfg.Store.StatusTTL > 0 {
		go pruneLoop(store, cfg.Store.StatusTTL, cfg.Store.PruneInterval)
	}

	// Services
	waSvc := service.NewWhatsAppService(cfg.WhatsApp)
	if !waSvc.Enabled() {
		log.Printf("[WA] staff notifications disabled: set WAHA_URL and WAHA_X_API_KEY to enable")
	}
	orderSvc := service.NewOrderService(paymentRepo, notificationRepo, waSvc, cfg.WhatsApp.ChatID)

	provider := payment.NewIPaymuProvider(payment.IPaymuConfig{
		BaseURL:   cfg.IPaymu.BaseURL,
		VA:        cfg.IPaymu.VA,
		APIKey:    cfg.IPaymu.APIKey,
		NotifyURL: cfg.IPaymu.NotifyURL(),
		ReturnURL: cfg.IPaymu.ReturnURL(),
		MinAmount: cfg.IPaymu.MinAmount,
		Timeout:   cfg.IPaymu.Timeout,
	})

	// Handlers
	paymentHandler := handler.NewPaymentHandler(provider, paymentRepo)
	callbackHandler := handler.NewCallbackHandler(store, callbackRepo, orderSvc)
	configHandler := handler.NewConfigHandler(cfg)

	api := r.Group("/api/v1")
	{
		api.POST("/payments", paymentHandler.Create)
		api.POST("/payments/callback", callbackHandler.Handle)
		api.GET("/config", configHandler.Get)
	}
	return r
}

func pruneLoop(store *status.Store, ttl, interval time.Duration) {
	tick := time.NewTicker(interval)
	for range tick.C {
		if n := store.PruneOlderThan(ttl); n > 0 {
			log.Printf("[STORE] pruned %d stale status records", n)
		}
	}
}
