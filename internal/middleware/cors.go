package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS mirrors the headers the serverless deployment sent: the POS client
// is a static page served from anywhere, and the gateway posts callbacks
// cross-origin.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
