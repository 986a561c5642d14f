package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/gratitudeapp/gratitude-api/internal/api/shared"
	"github.com/gratitudeapp/gratitude-api/internal/config"
	"github.com/gratitudeapp/gratitude-api/internal/platform/postgres"
	"github.com/gratitudeapp/gratitude-api/internal/service"
	"github.com/gratitudeapp/gratitude-api/internal/service/auth"
	"github.com/gratitudeapp/gratitude-api/internal/store"
)

// application holds the shared dependencies so wiring and cleanup stay
// in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore      store.UserStore
	gratitudeStore store.GratitudeStore

	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier

	gratitudeService service.GratitudeService

	responder *shared.ErrorResponder
}

// newApplication initializes every dependency from the already-loaded
// configuration, logger, and database connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_hours", cfg.Auth.TokenLifetimeHours))

	app.passwordHasher, err = auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}
	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewUserStore(db, logger)
	app.gratitudeStore = postgres.NewGratitudeStore(db, logger)

	app.gratitudeService = service.NewGratitudeService(app.gratitudeStore, logger)

	app.responder = shared.NewErrorResponder(cfg.Development(), logger)

	return app, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", slog.String("error", err.Error()))
		}
	}
}
