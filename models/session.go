package models

import "time"

type Session struct {
	ID        string
	Username  string
	Roles     []string
	CSRFToken string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Authenticated reports whether the session belongs to a logged in user.
// Anonymous sessions only carry a CSRF token for the login form.
func (s Session) Authenticated() bool {
	return s.Username != ""
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
