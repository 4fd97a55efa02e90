package controllers

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"secure-dashboard/config"
	"secure-dashboard/helpers"
	"secure-dashboard/models"
)

// CredentialStore looks up users by name. Implementations return
// models.ErrUserNotFound for unknown users.
type CredentialStore interface {
	FindUser(ctx context.Context, username string) (models.User, error)
}

// StaticCredentialStore holds exactly one user fixed at startup.
type StaticCredentialStore struct {
	user models.User
}

func NewStaticCredentialStore(user models.User) (*StaticCredentialStore, error) {
	if strings.TrimSpace(user.Username) == "" {
		return nil, fmt.Errorf("%w: static user needs a username", models.ErrConfiguration)
	}
	if user.PasswordHash == "" {
		return nil, fmt.Errorf("%w: static user %q has no password hash", models.ErrConfiguration, user.Username)
	}
	user.Roles = append([]string(nil), user.Roles...)
	return &StaticCredentialStore{user: user}, nil
}

func (s *StaticCredentialStore) FindUser(_ context.Context, username string) (models.User, error) {
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.user.Username)) != 1 {
		return models.User{}, models.ErrUserNotFound
	}
	user := s.user
	user.Roles = append([]string(nil), s.user.Roles...)
	return user, nil
}

// AdminUser builds the built-in account from configuration. When neither a
// password nor a hash is configured a random password is generated and
// returned so the caller can print it once.
func AdminUser(cfg config.AdminConfig, hasher *helpers.PasswordHasher) (models.User, string, error) {
	user := models.User{
		Username: cfg.Username,
		Roles:    append([]string(nil), cfg.Roles...),
	}

	var generated string
	switch {
	case cfg.PasswordHash != "":
		if err := hasher.CheckHash(cfg.PasswordHash); err != nil {
			return models.User{}, "", err
		}
		user.PasswordHash = cfg.PasswordHash
	default:
		password := cfg.Password
		if password == "" {
			generated = helpers.GenerateID(12)
			password = generated
		}
		hash, err := hasher.Hash(password)
		if err != nil {
			return models.User{}, "", fmt.Errorf("%w: hashing admin password: %v", models.ErrConfiguration, err)
		}
		user.PasswordHash = hash
	}

	return user, generated, nil
}
