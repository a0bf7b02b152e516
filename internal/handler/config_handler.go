package handler

import (
	"net/http"

	"kasirpay/config"

	"github.com/gin-gonic/gin"
)

// ConfigHandler exposes the runtime configuration the browser client
// needs: a plain passthrough of environment values, no gateway secrets.
type ConfigHandler struct {
	cfg *config.Config
}

func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

func (h *ConfigHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"wahaUrl":     h.cfg.WhatsApp.URL,
		"wahaXApiKey": h.cfg.WhatsApp.APIKey,
		"wahaSession": h.cfg.WhatsApp.Session,
		"status":      "ok",
	})
}
