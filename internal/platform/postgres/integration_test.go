package postgres_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gratitudeapp/gratitude-api/internal/domain"
	"github.com/gratitudeapp/gratitude-api/internal/platform/postgres"
	"github.com/gratitudeapp/gratitude-api/internal/store"
)

// openIntegrationDB connects to the database named by DATABASE_URL, or
// skips the test when unset so the suite stays runnable without Postgres.
func openIntegrationDB(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("Skipping integration test. Set DATABASE_URL to run")
	}

	db, err := sql.Open("pgx", url)
	require.NoError(t, err)
	t.Cleanup(func() {
		if cerr := db.Close(); cerr != nil {
			t.Errorf("failed to close database: %v", cerr)
		}
	})

	require.NoError(t, db.PingContext(context.Background()))
	return db
}

func TestIntegration_MigrationsAndStores(t *testing.T) {
	db := openIntegrationDB(t)
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, postgres.RunMigrations(ctx, db))

	users := postgres.NewUserStore(db, log)
	gratitudes := postgres.NewGratitudeStore(db, log)

	user, err := domain.NewUser("it_user", "it_user@example.com", "Integration", "Test")
	require.NoError(t, err)
	user.HashedPassword = "$2a$04$integrationtesthashvalue0000000000000000000000000000"

	require.NoError(t, users.Create(ctx, user))
	t.Cleanup(func() {
		// Cascades to the user's entries.
		_, derr := db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", user.ID)
		assert.NoError(t, derr)
	})

	t.Run("user round trip", func(t *testing.T) {
		got, err := users.GetByUsername(ctx, "it_user")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.HashedPassword, got.HashedPassword)
	})

	t.Run("entry CRUD", func(t *testing.T) {
		entry, err := domain.NewGratitude(user.ID,
			"Integration test entry", "Written and read back through the real database.",
			[]string{"testing"})
		require.NoError(t, err)
		require.NoError(t, gratitudes.Create(ctx, entry))

		got, err := gratitudes.GetByID(ctx, user.ID, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, entry.Title, got.Title)
		assert.Equal(t, entry.Tags, got.Tags)

		newTitle := "Integration test entry, updated"
		updated, err := gratitudes.Update(ctx, user.ID, entry.ID,
			domain.GratitudePatch{Title: &newTitle})
		require.NoError(t, err)
		assert.Equal(t, newTitle, updated.Title)

		deleted, err := gratitudes.Delete(ctx, user.ID, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, entry.ID, deleted.ID)

		_, err = gratitudes.GetByID(ctx, user.ID, entry.ID)
		assert.ErrorIs(t, err, store.ErrGratitudeNotFound)
	})

	t.Run("per-owner title uniqueness enforced by schema", func(t *testing.T) {
		first, err := domain.NewGratitude(user.ID,
			"Integration duplicate title", "First of two entries with the same title.", nil)
		require.NoError(t, err)
		require.NoError(t, gratitudes.Create(ctx, first))

		second, err := domain.NewGratitude(user.ID,
			"Integration duplicate title", "Second entry, same owner and title.", nil)
		require.NoError(t, err)
		assert.ErrorIs(t, gratitudes.Create(ctx, second), store.ErrTitleExists)
	})
}
