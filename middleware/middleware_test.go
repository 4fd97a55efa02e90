package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"secure-dashboard/controllers"
	"secure-dashboard/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestApp(csrf bool) *controllers.App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := controllers.NewSessionRegistry(time.Minute, logger)
	return &controllers.App{
		Sessions:    sessions,
		CSRFEnabled: csrf,
		Logger:      logger,
	}
}

func newTestEngine(app *controllers.App) *gin.Engine {
	r := gin.New()
	r.Use(SecurityHeaders(), AuthMiddleware(app, DefaultPolicy()), CSRF(app.CSRFEnabled))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/", ok)
	r.GET("/login", ok)
	r.POST("/login", ok)
	r.POST("/do-something", ok)
	r.POST("/logout", ok)
	r.GET("/ws", ok)
	return r
}

func TestTiers(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		path string
		want Tier
	}{
		{"/", TierPublic},
		{"/login", TierPublic},
		{"/healthz", TierPublic},
		{"/static/dashboard.css", TierPublic},
		{"/do-something", TierProtected},
		{"/logout", TierDefaultProtected},
		{"/ws", TierDefaultProtected},
		{"/admin", TierDefaultProtected},
		{"/login/extra", TierDefaultProtected},
		{"/static", TierDefaultProtected},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Tier(tt.path), tt.path)
	}
	assert.Equal(t, "default-protected", TierDefaultProtected.String())
}

func TestAuthorize(t *testing.T) {
	p := DefaultPolicy()
	authed := &models.Session{ID: "1", Username: "admin"}
	anon := &models.Session{ID: "2"}

	assert.Equal(t, Allow, p.Authorize("/login", nil))
	assert.Equal(t, Allow, p.Authorize("/", anon))
	assert.Equal(t, Deny, p.Authorize("/do-something", nil))
	assert.Equal(t, Deny, p.Authorize("/do-something", anon))
	assert.Equal(t, Allow, p.Authorize("/do-something", authed))
	assert.Equal(t, Deny, p.Authorize("/anything", nil))
	assert.Equal(t, Allow, p.Authorize("/anything", authed))
}

func TestUnauthenticatedRedirects(t *testing.T) {
	r := newTestEngine(newTestApp(false))

	for _, path := range []string{"/do-something", "/logout", "/nope"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/login", w.Header().Get("Location"), path)
		assert.Equal(t, models.ContentPolicy, w.Header().Get("Content-Security-Policy"), path)
	}
}

func TestUnauthenticatedNonBrowserGets401(t *testing.T) {
	r := newTestEngine(newTestApp(false))

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/do-something", nil)
	req.Header.Set("Accept", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaleCookieIsClearedAndFlagged(t *testing.T) {
	r := newTestEngine(newTestApp(false))

	req := httptest.NewRequest(http.MethodPost, "/do-something", nil)
	req.AddCookie(&http.Cookie{Name: models.SessionCookie, Value: "gone"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?error=session_expired", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), models.SessionCookie+"=;")
}

func TestAuthenticatedPasses(t *testing.T) {
	app := newTestApp(false)
	r := newTestEngine(app)
	session, _ := app.Sessions.Login(models.User{Username: "admin"}, "")

	req := httptest.NewRequest(http.MethodPost, "/do-something", nil)
	req.AddCookie(&http.Cookie{Name: models.SessionCookie, Value: session.ID})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSecurityHeadersOnEveryResponse(t *testing.T) {
	r := newTestEngine(newTestApp(false))

	for _, path := range []string{"/", "/login", "/missing"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"), path)
		assert.Equal(t, "1; mode=block", w.Header().Get("X-XSS-Protection"), path)
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"), path)
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"), path)
	}
}

func TestCSRF(t *testing.T) {
	app := newTestApp(true)
	r := newTestEngine(app)
	session, _ := app.Sessions.Login(models.User{Username: "admin"}, "")

	post := func(token string, header bool) int {
		form := url.Values{}
		if token != "" && !header {
			form.Set(models.CSRFField, token)
		}
		req := httptest.NewRequest(http.MethodPost, "/do-something", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if header {
			req.Header.Set(models.CSRFHeader, token)
		}
		req.AddCookie(&http.Cookie{Name: models.SessionCookie, Value: session.ID})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusForbidden, post("", false))
	assert.Equal(t, http.StatusForbidden, post("wrong", false))
	assert.Equal(t, http.StatusOK, post(session.CSRFToken, false))
	assert.Equal(t, http.StatusOK, post(session.CSRFToken, true))
}

func TestCSRFLoginWithoutSessionIsForbidden(t *testing.T) {
	r := newTestEngine(newTestApp(true))

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/login", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, "safe methods are never checked")
}

func TestCSRFDisabled(t *testing.T) {
	r := newTestEngine(newTestApp(false))

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeniedRequestRecordsUnauthenticated(t *testing.T) {
	app := newTestApp(false)
	var recorded []error

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Next()
		for _, e := range c.Errors {
			recorded = append(recorded, e.Err)
		}
	})
	r.Use(AuthMiddleware(app, DefaultPolicy()))
	r.POST("/do-something", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Empty(t, recorded)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/do-something", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	require.Len(t, recorded, 1)
	assert.ErrorIs(t, recorded[0], models.ErrUnauthenticated)
}
