package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/gratitudeapp/gratitude-api/internal/domain"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	// Create saves a new user. The user must already carry a hashed
	// password. Returns ErrUsernameExists or ErrEmailExists when the
	// corresponding unique constraint is violated.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by their (lowercased) username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
