package controllers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"secure-dashboard/config"
	"secure-dashboard/helpers"
	"secure-dashboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthenticateSuccess(t *testing.T) {
	auth, sessions := newTestAuthenticator(t)

	session, replaced, err := auth.Authenticate(context.Background(), testUser, testPassword, "")
	require.NoError(t, err)
	assert.Empty(t, replaced)
	assert.Equal(t, testUser, session.Username)
	assert.Equal(t, []string{"USER"}, session.Roles)

	current, ok := sessionFor(sessions, testUser)
	require.True(t, ok)
	assert.Equal(t, session.ID, current.ID)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	auth, sessions := newTestAuthenticator(t)

	cases := []struct {
		name, user, pass string
	}{
		{"wrong password", testUser, "nope"},
		{"unknown user", "mallory", testPassword},
		{"unknown user and password", "mallory", "nope"},
		{"empty", "", ""},
		{"over long password", testUser, testPassword + strings.Repeat("x", 80)},
	}

	var messages []string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := auth.Authenticate(context.Background(), tc.user, tc.pass, "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrInvalidCredentials))
			messages = append(messages, err.Error())
		})
	}

	for _, m := range messages {
		assert.Equal(t, models.ErrInvalidCredentials.Error(), m)
	}
	assert.Equal(t, 0, sessions.Len())
}

type failingStore struct{}

func (failingStore) FindUser(context.Context, string) (models.User, error) {
	return models.User{}, errors.New("connection refused")
}

func TestAuthenticateStoreFailure(t *testing.T) {
	hasher := newTestHasher(t)
	sessions := NewSessionRegistry(models.SessionDuration, discardLogger())
	auth := NewAuthenticator(failingStore{}, hasher, sessions, discardLogger())

	_, _, err := auth.Authenticate(context.Background(), testUser, testPassword, "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, models.ErrInvalidCredentials))
	assert.Equal(t, 0, sessions.Len())
}

func TestAuthenticateReplacesPreviousSession(t *testing.T) {
	auth, sessions := newTestAuthenticator(t)
	ctx := context.Background()

	first, _, err := auth.Authenticate(ctx, testUser, testPassword, "")
	require.NoError(t, err)
	second, replaced, err := auth.Authenticate(ctx, testUser, testPassword, "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, replaced)
	_, ok := sessions.Get(first.ID)
	assert.False(t, ok)
	_, ok = sessions.Get(second.ID)
	assert.True(t, ok)
}

func TestAuthenticateRejectsStoredHashAtOtherCost(t *testing.T) {
	cheap := newTestHasher(t)
	weak, err := cheap.Hash(testPassword)
	require.NoError(t, err)

	hasher, err := helpers.NewPasswordHasher(bcrypt.MinCost + 1)
	require.NoError(t, err)
	store, err := NewStaticCredentialStore(models.User{Username: testUser, PasswordHash: weak})
	require.NoError(t, err)
	sessions := NewSessionRegistry(models.SessionDuration, discardLogger())
	auth := NewAuthenticator(store, hasher, sessions, discardLogger())

	_, _, err = auth.Authenticate(context.Background(), testUser, testPassword, "")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	assert.Equal(t, 0, sessions.Len())
}

func TestLogout(t *testing.T) {
	auth, sessions := newTestAuthenticator(t)

	session, _, err := auth.Authenticate(context.Background(), testUser, testPassword, "")
	require.NoError(t, err)

	auth.Logout(session)
	_, ok := sessions.Get(session.ID)
	assert.False(t, ok)

	auth.Logout(session)
}

func TestStaticCredentialStore(t *testing.T) {
	_, err := NewStaticCredentialStore(models.User{Username: "", PasswordHash: "x"})
	assert.ErrorIs(t, err, models.ErrConfiguration)
	_, err = NewStaticCredentialStore(models.User{Username: "admin"})
	assert.ErrorIs(t, err, models.ErrConfiguration)

	roles := []string{"USER"}
	store, err := NewStaticCredentialStore(models.User{Username: "admin", PasswordHash: "x", Roles: roles})
	require.NoError(t, err)
	roles[0] = "ROOT"

	user, err := store.FindUser(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, []string{"USER"}, user.Roles)

	user.Roles[0] = "ROOT"
	again, err := store.FindUser(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, []string{"USER"}, again.Roles)

	_, err = store.FindUser(context.Background(), "Admin")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestAdminUser(t *testing.T) {
	hasher := newTestHasher(t)

	t.Run("plain password", func(t *testing.T) {
		user, generated, err := AdminUser(config.AdminConfig{Username: "admin", Password: "pw", Roles: []string{"USER"}}, hasher)
		require.NoError(t, err)
		assert.Empty(t, generated)
		assert.True(t, hasher.Matches(user.PasswordHash, "pw"))
	})

	t.Run("hash", func(t *testing.T) {
		hash, err := hasher.Hash("pw")
		require.NoError(t, err)
		user, _, err := AdminUser(config.AdminConfig{Username: "admin", PasswordHash: hash}, hasher)
		require.NoError(t, err)
		assert.Equal(t, hash, user.PasswordHash)
	})

	t.Run("bad hash", func(t *testing.T) {
		_, _, err := AdminUser(config.AdminConfig{Username: "admin", PasswordHash: "123"}, hasher)
		assert.ErrorIs(t, err, models.ErrConfiguration)
	})

	t.Run("hash below work factor", func(t *testing.T) {
		strict, err := helpers.NewPasswordHasher(models.DefaultBcryptCost)
		require.NoError(t, err)
		weak, err := hasher.Hash("pw")
		require.NoError(t, err)

		_, _, err = AdminUser(config.AdminConfig{Username: "admin", PasswordHash: weak}, strict)
		assert.ErrorIs(t, err, models.ErrConfiguration)
	})

	t.Run("generated", func(t *testing.T) {
		user, generated, err := AdminUser(config.AdminConfig{Username: "admin"}, hasher)
		require.NoError(t, err)
		require.NotEmpty(t, generated)
		assert.True(t, hasher.Matches(user.PasswordHash, generated))
	})
}
