package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would violate a unique
	// constraint.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails a database-side
	// integrity check (foreign key, not-null, check constraint). Check the
	// wrapped error for specifics.
	ErrInvalidEntity = errors.New("invalid entity")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrGratitudeNotFound indicates the requested gratitude entry does
	// not exist or is not owned by the caller. The two cases are
	// deliberately indistinguishable.
	ErrGratitudeNotFound = fmt.Errorf("%w: gratitude", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrUsernameExists indicates a user with the given username exists.
	ErrUsernameExists = fmt.Errorf("%w: username", ErrDuplicate)

	// ErrEmailExists indicates a user with the given email exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrTitleExists indicates the owner already has an entry with the
	// given title. Titles are unique per owner.
	ErrTitleExists = fmt.Errorf("%w: title", ErrDuplicate)
)

// IsNotFound reports whether err is any kind of "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate reports whether err is any kind of "duplicate" error.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
