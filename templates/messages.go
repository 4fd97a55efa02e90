package templates

import (
	"time"

	"secure-dashboard/models"
)

var loginErrors = map[string]string{
	"invalid_credentials": "Invalid username or password.",
	"session_expired":     "Your session has expired. Please sign in again.",
	"no_session":          "Please sign in to continue.",
}

// LoginErrorMessage maps an error code from the query string to display text.
// Unknown codes render nothing.
func LoginErrorMessage(code string) string {
	return loginErrors[code]
}

type DashboardData struct {
	Username  string
	Now       time.Time
	Items     []string
	Records   []models.Record
	Message   string
	CSRFToken string
}
