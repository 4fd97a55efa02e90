package controllers

import (
	"context"
	"log/slog"
	"time"
)

// StartPeriodicCleanup sweeps expired sessions every interval until ctx is
// cancelled, disconnecting their live feed clients.
func StartPeriodicCleanup(ctx context.Context, interval time.Duration, sessions *SessionRegistry, hub *Hub, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CleanupExpiredSessions(sessions, hub, logger)
			}
		}
	}()
}

func CleanupExpiredSessions(sessions *SessionRegistry, hub *Hub, logger *slog.Logger) int {
	expired := sessions.CleanupExpired()
	if hub != nil {
		for _, id := range expired {
			hub.CloseSession(id)
		}
	}
	if len(expired) > 0 {
		logger.Info("expired sessions removed", "count", len(expired), "active_users", len(sessions.Active()))
	}
	return len(expired)
}
