package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"secure-dashboard/models"
	"secure-dashboard/templates"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

const recordAddedMessage = "Done successfully!"

// AppendRecord adds a record and re-renders the dashboard.
func (a *App) AppendRecord(c *gin.Context) {
	session, ok := CurrentSession(c)
	if !ok || !session.Authenticated() {
		c.String(http.StatusUnauthorized, "Unauthorized")
		return
	}

	text, submitted := c.GetPostForm("text")
	if !submitted || strings.TrimSpace(text) == "" {
		text = DefaultRecordText(time.Now())
	}

	record, err := a.Records.Append(text)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmptyRecord):
			c.String(http.StatusBadRequest, "Record cannot be empty")
		case errors.Is(err, models.ErrRecordTooLong):
			c.String(http.StatusBadRequest, "Record too long")
		default:
			a.Logger.Error("append record", "error", err)
			c.String(http.StatusInternalServerError, "Could not save record")
		}
		return
	}

	if a.Hub != nil {
		a.Hub.Publish(c.Request.Context(), record)
	}

	a.RenderDashboard(c, session, recordAddedMessage)
}

// RenderDashboard renders the dashboard page for session.
func (a *App) RenderDashboard(c *gin.Context, session models.Session, message string) {
	component := templates.Dashboard(templates.DashboardData{
		Username:  session.Username,
		Now:       time.Now(),
		Items:     models.DashboardItems,
		Records:   a.Records.List(),
		Message:   message,
		CSRFToken: a.csrfToken(session),
	})
	templ.Handler(component).ServeHTTP(c.Writer, c.Request)
}

func (a *App) csrfToken(session models.Session) string {
	if !a.CSRFEnabled {
		return ""
	}
	return session.CSRFToken
}
