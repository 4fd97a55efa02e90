package middleware

import (
	"secure-dashboard/models"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders sets the response header policy on every route, including
// redirects and 404s.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Content-Security-Policy", models.ContentPolicy)
		h.Set("X-XSS-Protection", models.XSSProtection)
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		c.Next()
	}
}
