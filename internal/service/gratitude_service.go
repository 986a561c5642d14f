// Package service contains the application services that sit between the
// HTTP handlers and the stores.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gratitudeapp/gratitude-api/internal/apperr"
	"github.com/gratitudeapp/gratitude-api/internal/domain"
	"github.com/gratitudeapp/gratitude-api/internal/platform/logger"
	"github.com/gratitudeapp/gratitude-api/internal/store"
)

// GratitudeService exposes identity-scoped CRUD over gratitude entries.
// Every operation is implicitly filtered by the caller's identity; a
// foreign entry is indistinguishable from a missing one.
type GratitudeService interface {
	// Create persists a new entry owned by ownerID.
	Create(ctx context.Context, ownerID uuid.UUID, title, details string, tags []string) (*domain.Gratitude, error)

	// List returns all entries owned by ownerID, newest first, optionally
	// narrowed by filter.
	List(ctx context.Context, ownerID uuid.UUID, filter store.GratitudeFilter) ([]*domain.Gratitude, error)

	// GetByID returns the owned entry, or (nil, nil) when it does not
	// exist or belongs to someone else. The caller renders the empty
	// result; absence is not an error here.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Gratitude, error)

	// Update applies a partial patch to the owned entry.
	Update(ctx context.Context, ownerID, id uuid.UUID, patch domain.GratitudePatch) (*domain.Gratitude, error)

	// Delete physically removes the owned entry and returns it.
	Delete(ctx context.Context, ownerID, id uuid.UUID) (*domain.Gratitude, error)
}

// gratitudeService is the concrete GratitudeService over a GratitudeStore.
type gratitudeService struct {
	store  store.GratitudeStore
	logger *slog.Logger
}

// NewGratitudeService creates a GratitudeService.
func NewGratitudeService(st store.GratitudeStore, log *slog.Logger) GratitudeService {
	if st == nil {
		panic("store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &gratitudeService{
		store:  st,
		logger: log.With(slog.String("component", "gratitude_service")),
	}
}

// Create implements GratitudeService.Create.
func (s *gratitudeService) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	title, details string,
	tags []string,
) (*domain.Gratitude, error) {
	entry, err := domain.NewGratitude(ownerID, title, details, tags)
	if err != nil {
		return nil, apperr.Validation(err.Error()).WithCause(err)
	}

	if err := s.store.Create(ctx, entry); err != nil {
		switch {
		case errors.Is(err, store.ErrTitleExists):
			return nil, apperr.Conflict("A gratitude with this title already exists").WithCause(err)
		case errors.Is(err, store.ErrUserNotFound):
			// The owner row vanished between authentication and the
			// insert; surface as not-found per the wire contract.
			return nil, apperr.NotFound("User not found").WithCause(err)
		default:
			return nil, fmt.Errorf("create gratitude: %w", err)
		}
	}

	return entry, nil
}

// List implements GratitudeService.List.
func (s *gratitudeService) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.GratitudeFilter,
) ([]*domain.Gratitude, error) {
	entries, err := s.store.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("list gratitudes: %w", err)
	}
	return entries, nil
}

// GetByID implements GratitudeService.GetByID. Both non-existence and
// foreign ownership come back as (nil, nil); the caller cannot tell them
// apart.
func (s *gratitudeService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Gratitude, error) {
	entry, err := s.store.GetByID(ctx, ownerID, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get gratitude: %w", err)
	}
	return entry, nil
}

// Update implements GratitudeService.Update.
func (s *gratitudeService) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	patch domain.GratitudePatch,
) (*domain.Gratitude, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.Empty() {
		return nil, apperr.Validation("Must provide at least one field for updating")
	}

	entry, err := s.store.Update(ctx, ownerID, id, patch)
	if err != nil {
		switch {
		case store.IsNotFound(err):
			return nil, apperr.NotFound("Gratitude not found").WithCause(err)
		case errors.Is(err, store.ErrTitleExists):
			return nil, apperr.Conflict("A gratitude with this title already exists").WithCause(err)
		case isDomainValidation(err):
			return nil, apperr.Validation(err.Error()).WithCause(err)
		default:
			return nil, fmt.Errorf("update gratitude: %w", err)
		}
	}

	log.Debug("gratitude updated",
		slog.String("gratitude_id", id.String()),
		slog.String("user_id", ownerID.String()))
	return entry, nil
}

// Delete implements GratitudeService.Delete.
func (s *gratitudeService) Delete(ctx context.Context, ownerID, id uuid.UUID) (*domain.Gratitude, error) {
	entry, err := s.store.Delete(ctx, ownerID, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apperr.NotFound("Gratitude not found").WithCause(err)
		}
		return nil, fmt.Errorf("delete gratitude: %w", err)
	}
	return entry, nil
}

// isDomainValidation reports whether err is one of the domain invariant
// errors a patch application can produce.
func isDomainValidation(err error) bool {
	for _, sentinel := range []error{
		domain.ErrTitleLength,
		domain.ErrDetailsLength,
		domain.ErrTooManyTags,
		domain.ErrTagLength,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
