package middleware

import (
	"crypto/subtle"
	"net/http"

	"secure-dashboard/controllers"
	"secure-dashboard/models"

	"github.com/gin-gonic/gin"
)

// CSRF requires unsafe requests to echo the session's token, either in the
// csrf_token form field or the X-CSRF-Token header. It must run after
// AuthMiddleware. Disabled, it lets everything through.
func CSRF(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled || isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		session, ok := controllers.CurrentSession(c)
		if !ok || session.CSRFToken == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": models.ErrCSRFToken.Error()})
			return
		}

		token := c.GetHeader(models.CSRFHeader)
		if token == "" {
			token = c.PostForm(models.CSRFField)
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(session.CSRFToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": models.ErrCSRFToken.Error()})
			return
		}

		c.Next()
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
