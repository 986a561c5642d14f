package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gratitudeapp/gratitude-api/internal/apperr"
	"github.com/gratitudeapp/gratitude-api/internal/domain"
	"github.com/gratitudeapp/gratitude-api/internal/mocks"
	"github.com/gratitudeapp/gratitude-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T) (GratitudeService, *mocks.UserStore, *mocks.GratitudeStore, uuid.UUID) {
	t.Helper()

	users := mocks.NewUserStore()
	owner, err := domain.NewUser("alice1", "a@x.com", "A", "L")
	require.NoError(t, err)
	owner.HashedPassword = "$2a$10$hash"
	require.NoError(t, users.Create(context.Background(), owner))

	gratitudes := mocks.NewGratitudeStore(users)
	svc := NewGratitudeService(gratitudes, nil)
	return svc, users, gratitudes, owner.ID
}

func TestCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("persists an owned entry", func(t *testing.T) {
		t.Parallel()
		svc, _, _, owner := newFixture(t)

		entry, err := svc.Create(ctx, owner, "Grateful for health", "A long enough detail text", []string{"health"})
		require.NoError(t, err)
		assert.Equal(t, owner, entry.UserID)
		assert.NotZero(t, entry.ID)
	})

	t.Run("duplicate title for the same owner conflicts", func(t *testing.T) {
		t.Parallel()
		svc, _, _, owner := newFixture(t)

		_, err := svc.Create(ctx, owner, "Grateful for health", "A long enough detail text", nil)
		require.NoError(t, err)

		_, err = svc.Create(ctx, owner, "Grateful for health", "Another long enough text", nil)
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindConflict, appErr.Kind)
	})

	t.Run("same title under two owners succeeds", func(t *testing.T) {
		t.Parallel()
		svc, users, _, owner := newFixture(t)

		other, err := domain.NewUser("bob2", "b@x.com", "B", "N")
		require.NoError(t, err)
		other.HashedPassword = "$2a$10$hash"
		require.NoError(t, users.Create(ctx, other))

		_, err = svc.Create(ctx, owner, "Grateful for health", "A long enough detail text", nil)
		require.NoError(t, err)
		_, err = svc.Create(ctx, other.ID, "Grateful for health", "A long enough detail text", nil)
		assert.NoError(t, err)
	})

	t.Run("missing owner surfaces as not found", func(t *testing.T) {
		t.Parallel()
		svc, _, _, _ := newFixture(t)

		_, err := svc.Create(ctx, uuid.New(), "Grateful for health", "A long enough detail text", nil)
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindNotFound, appErr.Kind)
	})

	t.Run("invalid input is a validation error", func(t *testing.T) {
		t.Parallel()
		svc, _, _, owner := newFixture(t)

		_, err := svc.Create(ctx, owner, "ab", "A long enough detail text", nil)
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindValidation, appErr.Kind)
	})
}

func TestGetByID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("owner reads own entry", func(t *testing.T) {
		t.Parallel()
		svc, _, _, owner := newFixture(t)
		created, err := svc.Create(ctx, owner, "Grateful for health", "A long enough detail text", nil)
		require.NoError(t, err)

		got, err := svc.GetByID(ctx, owner, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("foreign owner sees the same empty result as a missing id", func(t *testing.T) {
		t.Parallel()
		svc, users, _, owner := newFixture(t)
		created, err := svc.Create(ctx, owner, "Grateful for health", "A long enough detail text", nil)
		require.NoError(t, err)

		stranger, err := domain.NewUser("bob2", "b@x.com", "B", "N")
		require.NoError(t, err)
		stranger.HashedPassword = "$2a$10$hash"
		require.NoError(t, users.Create(ctx, stranger))

		foreign, err := svc.GetByID(ctx, stranger.ID, created.ID)
		require.NoError(t, err)
		missing, err := svc.GetByID(ctx, owner, uuid.New())
		require.NoError(t, err)

		assert.Nil(t, foreign)
		assert.Nil(t, missing)
	})
}

func TestList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, _, owner := newFixture(t)

	first, err := svc.Create(ctx, owner, "Grateful for health", "A long enough detail text", []string{"health"})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := svc.Create(ctx, owner, "Grateful for family", "A long enough detail text", []string{"family"})
	require.NoError(t, err)

	t.Run("newest first, scoped to owner", func(t *testing.T) {
		entries, err := svc.List(ctx, owner, store.GratitudeFilter{})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, second.ID, entries[0].ID)
		assert.Equal(t, first.ID, entries[1].ID)
	})

	t.Run("tag filter narrows results", func(t *testing.T) {
		entries, err := svc.List(ctx, owner, store.GratitudeFilter{Tag: "family"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, second.ID, entries[0].ID)
	})

	t.Run("unknown owner lists nothing", func(t *testing.T) {
		entries, err := svc.List(ctx, uuid.New(), store.GratitudeFilter{})
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	title := func(s string) *string { return &s }

	t.Run("applies partial patch", func(t *testing.T) {
		t.Parallel()
		svc, _, _, owner := newFixture(t)
		created, err := svc.Create(ctx, owner, "Grateful for health", "A long enough detail text", nil)
		require.NoError(t, err)

		updated, err := svc.Update(ctx, owner, created.ID, domain.GratitudePatch{Title: title("Grateful for family")})
		require.NoError(t, err)
		assert.Equal(t, "Grateful for family", updated.Title)
		assert.Equal(t, created.Details, updated.Details)
	})

	t.Run("empty patch is rejected", func(t *testing.T) {
		t.Parallel()
		svc, _, _, owner := newFixture(t)
		created, err := svc.Create(ctx, owner, "Grateful for health", "A long enough detail text", nil)
		require.NoError(t, err)

		_, err = svc.Update(ctx, owner, created.ID, domain.GratitudePatch{})
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindValidation, appErr.Kind)
	})

	t.Run("missing or foreign entry is not found, never 500", func(t *testing.T) {
		t.Parallel()
		svc, _, _, owner := newFixture(t)

		_, err := svc.Update(ctx, owner, uuid.New(), domain.GratitudePatch{Title: title("Grateful for family")})
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindNotFound, appErr.Kind)
	})

	t.Run("title collision conflicts", func(t *testing.T) {
		t.Parallel()
		svc, _, _, owner := newFixture(t)
		_, err := svc.Create(ctx, owner, "Grateful for health", "A long enough detail text", nil)
		require.NoError(t, err)
		other, err := svc.Create(ctx, owner, "Grateful for family", "A long enough detail text", nil)
		require.NoError(t, err)

		_, err = svc.Update(ctx, owner, other.ID, domain.GratitudePatch{Title: title("Grateful for health")})
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindConflict, appErr.Kind)
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("removes the owned row", func(t *testing.T) {
		t.Parallel()
		svc, _, _, owner := newFixture(t)
		created, err := svc.Create(ctx, owner, "Grateful for health", "A long enough detail text", nil)
		require.NoError(t, err)

		deleted, err := svc.Delete(ctx, owner, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, deleted.ID)

		got, err := svc.GetByID(ctx, owner, created.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("missing or foreign entry is not found", func(t *testing.T) {
		t.Parallel()
		svc, _, _, owner := newFixture(t)

		_, err := svc.Delete(ctx, owner, uuid.New())
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperr.KindNotFound, appErr.Kind)
	})
}

func TestStoreFaultsPassThrough(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _, gratitudes, owner := newFixture(t)
	gratitudes.Err = errors.New("connection reset")

	_, err := svc.List(ctx, owner, store.GratitudeFilter{})
	require.Error(t, err)
	var appErr *apperr.Error
	assert.False(t, errors.As(err, &appErr), "unclassified store faults must reach the normalizer untouched")
}
