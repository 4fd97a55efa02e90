package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"secure-dashboard/config"
	"secure-dashboard/controllers"
	"secure-dashboard/helpers"
	"secure-dashboard/middleware"
	"secure-dashboard/routes"
	"secure-dashboard/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hasher, err := helpers.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		slog.Error("Failed to build password hasher", "error", err)
		os.Exit(1)
	}

	store, closeStore, err := credentialStore(ctx, cfg, hasher)
	if err != nil {
		slog.Error("Failed to build user store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	sessions := controllers.NewSessionRegistry(cfg.SessionTTL, logger)
	hub := controllers.NewHub(sessions, logger)
	app := &controllers.App{
		Auth:        controllers.NewAuthenticator(store, hasher, sessions, logger),
		Sessions:    sessions,
		Records:     controllers.NewRecordService(cfg.MaxRecordLength),
		Hub:         hub,
		Cookie:      controllers.CookieOptions{Secure: cfg.CookieSecure},
		CSRFEnabled: cfg.CSRFEnabled,
		Logger:      logger,
	}

	if cfg.IsDevelopment() {
		slog.Warn("CSRF protection is disabled; never run like this outside development")
	}

	go hub.Run(ctx)
	controllers.StartPeriodicCleanup(ctx, cfg.CleanupInterval, sessions, hub, logger)
	slog.Info("Started periodic session cleanup", "interval", cfg.CleanupInterval, "session_ttl", cfg.SessionTTL)

	r := gin.Default()
	routes.DashboardRouter(r, app, middleware.DefaultPolicy())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Port, "bcrypt_cost", hasher.Cost(), "csrf", cfg.CSRFEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}

// credentialStore picks the Postgres users table when DATABASE_URL is set and
// the single built-in account otherwise.
func credentialStore(ctx context.Context, cfg *config.Config, hasher *helpers.PasswordHasher) (controllers.CredentialStore, func(), error) {
	if cfg.DatabaseURL == "" {
		admin, generated, err := controllers.AdminUser(cfg.Admin, hasher)
		if err != nil {
			return nil, nil, err
		}
		if generated != "" {
			slog.Warn("No admin password configured, using generated password", "user", admin.Username, "password", generated)
		}
		store, err := controllers.NewStaticCredentialStore(admin)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}

	db, err := utils.OpenDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			slog.Error("Error closing database", "error", err)
		}
	}

	store := utils.NewPostgresCredentialStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		closeDB()
		return nil, nil, err
	}

	if cfg.Admin.Password != "" || cfg.Admin.PasswordHash != "" {
		admin, _, err := controllers.AdminUser(cfg.Admin, hasher)
		if err != nil {
			closeDB()
			return nil, nil, err
		}
		if err := store.UpsertUser(ctx, admin); err != nil {
			closeDB()
			return nil, nil, err
		}
		slog.Info("Seeded admin account", "user", admin.Username)
	}

	return store, closeDB, nil
}
