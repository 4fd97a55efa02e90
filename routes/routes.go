package routes

import (
	"net/http"

	"secure-dashboard/controllers"
	"secure-dashboard/handlers"
	"secure-dashboard/middleware"
	"secure-dashboard/models"

	"github.com/gin-gonic/gin"
)

// DashboardRouter installs the middleware chain and routes. The chain runs
// in this order on every request, unmatched ones included:
// security headers, session resolution and policy, CSRF.
func DashboardRouter(r *gin.Engine, app *controllers.App, policy middleware.RoutePolicy) {
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.AuthMiddleware(app, policy))
	r.Use(middleware.CSRF(app.CSRFEnabled))

	r.StaticFile("/static/dashboard.css", "./static/css/dashboard.css")
	r.StaticFile("/static/dashboard.js", "./static/js/dashboard.js")

	r.GET(models.HealthPath, handlers.Health)
	r.GET(models.HomePath, handlers.Home(app))
	r.GET(models.LoginPath, handlers.Login(app))
	r.POST(models.LoginPath, app.Login)
	r.POST(models.RecordPath, app.AppendRecord)
	r.POST(models.LogoutPath, app.Logout)
	r.GET(models.FeedPath, app.Hub.ServeWS)

	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "Not found")
	})
}
