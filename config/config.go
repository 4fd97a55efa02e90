// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"secure-dashboard/models"

	"golang.org/x/crypto/bcrypt"
)

// Config holds all application configuration.
type Config struct {
	Port            string
	DatabaseURL     string // optional; empty keeps the built-in single user store
	Admin           AdminConfig
	BcryptCost      int
	SessionTTL      time.Duration
	CleanupInterval time.Duration
	CSRFEnabled     bool
	CookieSecure    bool
	MaxRecordLength int
}

// AdminConfig describes the built-in account. Exactly one of Password and
// PasswordHash is normally set; when both are empty a password is generated.
type AdminConfig struct {
	Username     string
	Password     string
	PasswordHash string
	Roles        []string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", models.DefaultPort),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", models.DefaultAdminUser),
			Password:     getEnv("ADMIN_PASSWORD", ""),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			Roles:        getEnvList("ADMIN_ROLES", []string{"USER"}),
		},
		BcryptCost:      getEnvInt("BCRYPT_COST", models.DefaultBcryptCost),
		SessionTTL:      getEnvDuration("SESSION_TTL", models.SessionDuration),
		CleanupInterval: getEnvDuration("CLEANUP_INTERVAL", models.CleanupInterval),
		CSRFEnabled:     getEnvBool("CSRF_ENABLED", true),
		CookieSecure:    getEnvBool("COOKIE_SECURE", false),
		MaxRecordLength: getEnvInt("MAX_RECORD_LENGTH", models.MaxRecordLength),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: PORT cannot be empty", models.ErrConfiguration)
	}
	if strings.TrimSpace(c.Admin.Username) == "" {
		return fmt.Errorf("%w: ADMIN_USERNAME cannot be empty", models.ErrConfiguration)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("%w: BCRYPT_COST must be between %d and %d", models.ErrConfiguration, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("%w: SESSION_TTL must be > 0", models.ErrConfiguration)
	}
	if c.CleanupInterval <= 0 {
		return fmt.Errorf("%w: CLEANUP_INTERVAL must be > 0", models.ErrConfiguration)
	}
	if c.MaxRecordLength <= 0 {
		return fmt.Errorf("%w: MAX_RECORD_LENGTH must be > 0", models.ErrConfiguration)
	}
	if len(c.Admin.Password) > models.MaxPasswordBytes {
		return fmt.Errorf("%w: ADMIN_PASSWORD exceeds %d bytes", models.ErrConfiguration, models.MaxPasswordBytes)
	}
	return nil
}

// IsDevelopment returns true when CSRF protection has been switched off,
// which is only acceptable on a developer machine.
func (c *Config) IsDevelopment() bool {
	return !c.CSRFEnabled
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
