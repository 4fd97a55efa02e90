package handlers

import (
	"net/http"

	"secure-dashboard/controllers"
	"secure-dashboard/models"
	"secure-dashboard/templates"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

func Login(app *controllers.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session, ok := controllers.CurrentSession(c); ok && session.Authenticated() {
			c.Redirect(http.StatusFound, models.HomePath)
			return
		}

		var token string
		if app.CSRFEnabled {
			token = app.EnsureSession(c).CSRFToken
		}

		component := templates.Login(c.Query("error"), token)
		templ.Handler(component).ServeHTTP(c.Writer, c.Request)
	}
}
