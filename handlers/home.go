package handlers

import (
	"net/http"

	"secure-dashboard/controllers"
	"secure-dashboard/models"

	"github.com/gin-gonic/gin"
)

// Home renders the dashboard. The route itself is public; anonymous visitors
// are sent to the login form.
func Home(app *controllers.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := controllers.CurrentSession(c)
		if !ok || !session.Authenticated() {
			c.Redirect(http.StatusFound, models.LoginPath)
			return
		}

		app.RenderDashboard(c, session, "")
	}
}
