package controllers

import (
	"errors"
	"net/http"

	"secure-dashboard/models"

	"github.com/gin-gonic/gin"
)

// Login handles the login form submission.
func (a *App) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	var previousID string
	if current, ok := CurrentSession(c); ok {
		previousID = current.ID
	}

	session, replaced, err := a.Auth.Authenticate(c.Request.Context(), username, password, previousID)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			c.Redirect(http.StatusFound, models.LoginErrorRedirect)
			return
		}
		a.Logger.Error("login failed", "error", err)
		c.String(http.StatusServiceUnavailable, "Authentication unavailable")
		return
	}

	if replaced != "" && a.Hub != nil {
		a.Hub.CloseSession(replaced)
	}

	SetSession(c, session)
	a.SetSessionCookie(c, session)
	c.Redirect(http.StatusFound, models.HomePath)
}
