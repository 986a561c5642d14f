// Command seed populates the database with a demo user and a handful of
// gratitude entries so a fresh environment has data to poke at. Running
// it twice is safe: existing rows are left alone.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/gratitudeapp/gratitude-api/internal/config"
	"github.com/gratitudeapp/gratitude-api/internal/domain"
	"github.com/gratitudeapp/gratitude-api/internal/platform/logger"
	"github.com/gratitudeapp/gratitude-api/internal/platform/postgres"
	"github.com/gratitudeapp/gratitude-api/internal/service/auth"
	"github.com/gratitudeapp/gratitude-api/internal/store"
)

// seedEntry is one demo gratitude to insert.
type seedEntry struct {
	title   string
	details string
	tags    []string
}

var seedEntries = []seedEntry{
	{
		title:   "Grateful for my family",
		details: "Thankful for another evening together around the table, everyone healthy and laughing.",
		tags:    []string{"love", "health", "family"},
	},
	{
		title:   "Grateful for my home",
		details: "A warm house on a cold day is easy to take for granted. Today I did not.",
		tags:    []string{"home", "abundance"},
	},
	{
		title:   "Grateful for my work",
		details: "Shipped something small but useful, and a colleague said thanks out loud.",
		tags:    []string{"work", "abundance"},
	},
	{
		title:   "Grateful for the trip to Egypt",
		details: "Still thinking about the light over the river at sunrise. Travel resets the eyes.",
		tags:    []string{"travel"},
	},
}

const (
	demoUsername = "demo"
	demoEmail    = "demo@example.com"
	demoPassword = "Demo1234!"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	appLogger := logger.Setup(cfg.Server)

	db, err := setupDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			appLogger.Error("Failed to close database connection", slog.String("error", cerr.Error()))
		}
	}()

	ctx := context.Background()
	if err := postgres.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	users := postgres.NewUserStore(db, appLogger)
	gratitudes := postgres.NewGratitudeStore(db, appLogger)

	user, err := ensureDemoUser(ctx, cfg, users, appLogger)
	if err != nil {
		return err
	}

	for _, e := range seedEntries {
		entry, err := domain.NewGratitude(user.ID, e.title, e.details, e.tags)
		if err != nil {
			return fmt.Errorf("invalid seed entry %q: %w", e.title, err)
		}
		if err := gratitudes.Create(ctx, entry); err != nil {
			if errors.Is(err, store.ErrTitleExists) {
				appLogger.Info("Seed entry already present", slog.String("title", e.title))
				continue
			}
			return fmt.Errorf("failed to seed entry %q: %w", e.title, err)
		}
		appLogger.Info("Seeded entry", slog.String("title", e.title))
	}

	appLogger.Info("Seed completed",
		slog.String("username", demoUsername),
		slog.Int("entries", len(seedEntries)))
	return nil
}

// setupDatabase opens and verifies the database connection.
func setupDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// ensureDemoUser creates the demo user, or fetches it when a previous
// run already did.
func ensureDemoUser(
	ctx context.Context,
	cfg *config.Config,
	users store.UserStore,
	appLogger *slog.Logger,
) (*domain.User, error) {
	existing, err := users.GetByUsername(ctx, demoUsername)
	if err == nil {
		appLogger.Info("Demo user already present", slog.String("user_id", existing.ID.String()))
		return existing, nil
	}
	if !store.IsNotFound(err) {
		return nil, fmt.Errorf("failed to look up demo user: %w", err)
	}

	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	user, err := domain.NewUser(demoUsername, demoEmail, "Demo", "User")
	if err != nil {
		return nil, fmt.Errorf("invalid demo user: %w", err)
	}
	user.HashedPassword, err = hasher.Hash(demoPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}

	if err := users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create demo user: %w", err)
	}
	appLogger.Info("Demo user created", slog.String("user_id", user.ID.String()))
	return user, nil
}
