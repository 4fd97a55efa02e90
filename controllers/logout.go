package controllers

import (
	"net/http"

	"secure-dashboard/models"

	"github.com/gin-gonic/gin"
)

func (a *App) Logout(c *gin.Context) {
	session, ok := CurrentSession(c)
	if ok {
		a.Auth.Logout(session)
		if a.Hub != nil {
			a.Hub.CloseSession(session.ID)
		}
	}

	a.ClearSessionCookie(c)
	c.Redirect(http.StatusFound, models.HomePath)
}
