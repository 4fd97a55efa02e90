package controllers

import (
	"io"
	"log/slog"
	"testing"

	"secure-dashboard/helpers"
	"secure-dashboard/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testUser     = "admin"
	testPassword = "s3cret-passphrase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sessionFor finds the live authenticated session of username.
func sessionFor(r *SessionRegistry, username string) (models.Session, bool) {
	for _, s := range r.Active() {
		if s.Username == username {
			return s, true
		}
	}
	return models.Session{}, false
}

func newTestHasher(t *testing.T) *helpers.PasswordHasher {
	t.Helper()
	h, err := helpers.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func newTestAuthenticator(t *testing.T) (*Authenticator, *SessionRegistry) {
	t.Helper()
	hasher := newTestHasher(t)
	hash, err := hasher.Hash(testPassword)
	require.NoError(t, err)

	store, err := NewStaticCredentialStore(models.User{Username: testUser, PasswordHash: hash, Roles: []string{"USER"}})
	require.NoError(t, err)

	sessions := NewSessionRegistry(models.SessionDuration, discardLogger())
	return NewAuthenticator(store, hasher, sessions, discardLogger()), sessions
}
