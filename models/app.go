package models

import "time"

const (
	SessionCookie      = "session_id"
	CSRFField          = "csrf_token"
	CSRFHeader         = "X-CSRF-Token"
	DefaultPort        = "8080"
	DefaultAdminUser   = "admin"
	DefaultBcryptCost  = 12
	SessionDuration    = 30 * time.Minute
	CleanupInterval    = 30 * time.Second
	MaxRecordLength    = 500
	MaxPasswordBytes   = 72 // bcrypt ignores everything past this
	ContentPolicy      = "default-src 'self'"
	XSSProtection      = "1; mode=block"
	LoginPath          = "/login"
	HomePath           = "/"
	RecordPath         = "/do-something"
	LogoutPath         = "/logout"
	FeedPath           = "/ws"
	HealthPath         = "/healthz"
	LoginErrorRedirect = LoginPath + "?error=invalid_credentials"
)

// Pre-login sessions only back the login form's CSRF token.
const (
	AnonymousSessionDuration = 10 * time.Minute
	MaxAnonymousSessions     = 10000
)

var DashboardItems = []string{"Report", "Metrics", "Export"}
