package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"secure-dashboard/models"

	"github.com/gin-gonic/gin"
)

const sessionContextKey = "session"

// CookieOptions controls the session cookie. Its lifetime follows the
// session it carries.
type CookieOptions struct {
	Secure bool
}

// App bundles the services request handlers work with.
type App struct {
	Auth        *Authenticator
	Sessions    *SessionRegistry
	Records     *RecordService
	Hub         *Hub
	Cookie      CookieOptions
	CSRFEnabled bool
	Logger      *slog.Logger
}

// SetSession stores the session resolved for this request.
func SetSession(c *gin.Context, session models.Session) {
	c.Set(sessionContextKey, session)
}

// CurrentSession returns the session resolved for this request, if any.
func CurrentSession(c *gin.Context) (models.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return models.Session{}, false
	}
	session, ok := value.(models.Session)
	return session, ok
}

// SetSessionCookie writes the session cookie, HttpOnly and SameSite=Lax.
func (a *App) SetSessionCookie(c *gin.Context, session models.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetCookie(models.SessionCookie, session.ID, max(maxAge, 1), "/", "", a.Cookie.Secure, true)
}

func (a *App) ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(models.SessionCookie, "", -1, "/", "", a.Cookie.Secure, true)
}

// EnsureSession returns the request's session, opening an anonymous one
// when the caller has none. The login form needs it for its CSRF token.
func (a *App) EnsureSession(c *gin.Context) models.Session {
	if session, ok := CurrentSession(c); ok {
		return session
	}
	session := a.Sessions.CreateAnonymous()
	SetSession(c, session)
	a.SetSessionCookie(c, session)
	return session
}
