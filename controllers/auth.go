package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"secure-dashboard/helpers"
	"secure-dashboard/models"
)

// Authenticator verifies credentials and hands out sessions.
type Authenticator struct {
	store    CredentialStore
	hasher   *helpers.PasswordHasher
	sessions *SessionRegistry
	logger   *slog.Logger
}

func NewAuthenticator(store CredentialStore, hasher *helpers.PasswordHasher, sessions *SessionRegistry, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{store: store, hasher: hasher, sessions: sessions, logger: logger}
}

// Authenticate checks username and password and on success opens a new
// session, discarding previousID. Unknown users and wrong passwords both
// yield models.ErrInvalidCredentials after the same amount of hashing work.
// The second return value is the id of a session the login displaced.
func (a *Authenticator) Authenticate(ctx context.Context, username, password, previousID string) (models.Session, string, error) {
	user, err := a.store.FindUser(ctx, username)
	if err != nil {
		a.hasher.Burn(password)
		if errors.Is(err, models.ErrUserNotFound) {
			a.logger.Info("login rejected", "reason", "invalid_credentials")
			return models.Session{}, "", models.ErrInvalidCredentials
		}
		return models.Session{}, "", fmt.Errorf("credential lookup: %w", err)
	}

	if err := a.hasher.CheckHash(user.PasswordHash); err != nil {
		a.logger.Warn("stored password hash rejected", "user", user.Username, "error", err)
	}

	if !a.hasher.Matches(user.PasswordHash, password) {
		a.logger.Info("login rejected", "reason", "invalid_credentials")
		return models.Session{}, "", models.ErrInvalidCredentials
	}

	session, replaced := a.sessions.Login(user, previousID)
	if replaced != "" {
		a.logger.Info("previous session revoked", "user", user.Username)
	}
	a.logger.Info("session issued", "user", user.Username, "expires_at", session.ExpiresAt)

	return session, replaced, nil
}

// Logout destroys the session. Unknown ids are ignored.
func (a *Authenticator) Logout(session models.Session) {
	if a.sessions.Destroy(session.ID) {
		a.logger.Info("session destroyed", "user", session.Username)
	}
}
