package utils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"secure-dashboard/models"

	"github.com/lib/pq"
)

// OpenDatabase connects to Postgres and verifies the connection.
func OpenDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("DB connection error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	slog.Info("Database connection established")
	return db, nil
}

// PostgresCredentialStore reads users from the users table.
type PostgresCredentialStore struct {
	db *sql.DB
}

func NewPostgresCredentialStore(db *sql.DB) *PostgresCredentialStore {
	return &PostgresCredentialStore{db: db}
}

func (s *PostgresCredentialStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			username      VARCHAR(255) PRIMARY KEY,
			password_hash TEXT NOT NULL,
			roles         TEXT[] NOT NULL DEFAULT '{}',
			created_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("users table creation error: %w", err)
	}
	return nil
}

// UpsertUser inserts user or replaces its hash and roles.
func (s *PostgresCredentialStore) UpsertUser(ctx context.Context, user models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, roles) VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash, roles = EXCLUDED.roles
	`, user.Username, user.PasswordHash, pq.Array(user.Roles))
	if err != nil {
		return fmt.Errorf("upsert user %q: %w", user.Username, err)
	}
	return nil
}

func (s *PostgresCredentialStore) FindUser(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx,
		"SELECT username, password_hash, roles FROM users WHERE username = $1", username,
	).Scan(&user.Username, &user.PasswordHash, pq.Array(&user.Roles))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
