// Package mocks provides in-memory store implementations for tests.
package mocks

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/gratitudeapp/gratitude-api/internal/domain"
	"github.com/gratitudeapp/gratitude-api/internal/store"
)

// UserStore is an in-memory store.UserStore with the same uniqueness
// semantics as the PostgreSQL implementation.
type UserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User

	// CreateErr, when set, is returned by Create unconditionally.
	CreateErr error
}

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uuid.UUID]*domain.User)}
}

var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return store.ErrUsernameExists
		}
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}

	clone := *user
	s.users[user.ID] = &clone
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

// GetByUsername implements store.UserStore.GetByUsername.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Has reports whether a user with the ID exists. Test helper.
func (s *UserStore) Has(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[id]
	return ok
}

// GratitudeStore is an in-memory store.GratitudeStore enforcing per-owner
// title uniqueness and owner foreign keys against an optional UserStore.
type GratitudeStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*domain.Gratitude

	// Users, when set, is consulted to emulate the foreign key from
	// gratitudes to users.
	Users *UserStore

	// Err, when set, is returned by every operation. Used to exercise
	// the database-fault paths.
	Err error
}

// NewGratitudeStore creates an empty in-memory gratitude store.
func NewGratitudeStore(users *UserStore) *GratitudeStore {
	return &GratitudeStore{
		entries: make(map[uuid.UUID]*domain.Gratitude),
		Users:   users,
	}
}

var _ store.GratitudeStore = (*GratitudeStore)(nil)

// Create implements store.GratitudeStore.Create.
func (s *GratitudeStore) Create(ctx context.Context, entry *domain.Gratitude) error {
	if s.Err != nil {
		return s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Users != nil && !s.Users.Has(entry.UserID) {
		return store.ErrUserNotFound
	}

	for _, existing := range s.entries {
		if existing.UserID == entry.UserID && existing.Title == entry.Title {
			return store.ErrTitleExists
		}
	}

	clone := cloneEntry(entry)
	s.entries[entry.ID] = clone
	return nil
}

// ListByOwner implements store.GratitudeStore.ListByOwner.
func (s *GratitudeStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.GratitudeFilter,
) ([]*domain.Gratitude, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*domain.Gratitude{}
	for _, entry := range s.entries {
		if entry.UserID != ownerID {
			continue
		}
		if filter.Tag != "" && !slices.Contains(entry.Tags, filter.Tag) {
			continue
		}
		result = append(result, cloneEntry(entry))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// GetByID implements store.GratitudeStore.GetByID.
func (s *GratitudeStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Gratitude, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok || entry.UserID != ownerID {
		return nil, store.ErrGratitudeNotFound
	}
	return cloneEntry(entry), nil
}

// Update implements store.GratitudeStore.Update.
func (s *GratitudeStore) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	patch domain.GratitudePatch,
) (*domain.Gratitude, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok || entry.UserID != ownerID {
		return nil, store.ErrGratitudeNotFound
	}

	updated := cloneEntry(entry)
	if err := patch.Apply(updated); err != nil {
		return nil, err
	}

	for _, existing := range s.entries {
		if existing.ID != id && existing.UserID == ownerID && existing.Title == updated.Title {
			return nil, store.ErrTitleExists
		}
	}

	s.entries[id] = updated
	return cloneEntry(updated), nil
}

// Delete implements store.GratitudeStore.Delete.
func (s *GratitudeStore) Delete(ctx context.Context, ownerID, id uuid.UUID) (*domain.Gratitude, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok || entry.UserID != ownerID {
		return nil, store.ErrGratitudeNotFound
	}

	delete(s.entries, id)
	return entry, nil
}

func cloneEntry(entry *domain.Gratitude) *domain.Gratitude {
	clone := *entry
	clone.Tags = slices.Clone(entry.Tags)
	return &clone
}
