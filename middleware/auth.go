package middleware

import (
	"net/http"
	"strings"

	"secure-dashboard/controllers"
	"secure-dashboard/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// AuthMiddleware resolves the session cookie and enforces policy. Denied
// browser requests are redirected to the login form; websocket and JSON
// clients get 401.
func AuthMiddleware(app *controllers.App, policy RoutePolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		var current *models.Session
		stale := false

		if cookie, err := c.Cookie(models.SessionCookie); err == nil && cookie != "" {
			if session, exists := app.Sessions.Get(cookie); exists {
				controllers.SetSession(c, session)
				current = &session
			} else {
				stale = true
			}
		}

		if policy.Authorize(c.Request.URL.Path, current) == Allow {
			if stale {
				app.ClearSessionCookie(c)
			}
			c.Next()
			return
		}

		if stale {
			app.ClearSessionCookie(c)
		}
		c.Error(models.ErrUnauthenticated)

		if !wantsRedirect(c.Request) {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		target := models.LoginPath
		if stale {
			target += "?error=session_expired"
		}
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

func wantsRedirect(r *http.Request) bool {
	if websocket.IsWebSocketUpgrade(r) {
		return false
	}
	accept := r.Header.Get("Accept")
	return !strings.Contains(accept, "application/json") || strings.Contains(accept, "text/html")
}
