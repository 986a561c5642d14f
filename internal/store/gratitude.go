package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/gratitudeapp/gratitude-api/internal/domain"
)

// GratitudeFilter narrows ListByOwner results. The zero value matches all
// of the owner's entries.
type GratitudeFilter struct {
	// Tag, when non-empty, restricts results to entries carrying the tag.
	Tag string
}

// GratitudeStore defines the interface for gratitude entry persistence.
// Every operation is scoped by the owner's ID: entries belonging to other
// users behave as if they did not exist.
type GratitudeStore interface {
	// Create saves a new entry. Returns ErrTitleExists if the owner
	// already has an entry with the same title, and ErrUserNotFound if
	// the owner row is missing (foreign key violation).
	Create(ctx context.Context, entry *domain.Gratitude) error

	// ListByOwner returns all entries owned by ownerID matching the
	// filter, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter GratitudeFilter) ([]*domain.Gratitude, error)

	// GetByID returns the entry only if it exists and is owned by
	// ownerID; otherwise ErrGratitudeNotFound.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Gratitude, error)

	// Update applies a partial patch to the owned entry. Returns
	// ErrGratitudeNotFound if no matching owned row exists and
	// ErrTitleExists on a per-owner title collision.
	Update(ctx context.Context, ownerID, id uuid.UUID, patch domain.GratitudePatch) (*domain.Gratitude, error)

	// Delete physically removes the owned entry, returning it. Returns
	// ErrGratitudeNotFound if no matching owned row exists.
	Delete(ctx context.Context, ownerID, id uuid.UUID) (*domain.Gratitude, error)
}
