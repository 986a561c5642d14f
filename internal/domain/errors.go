// Package domain defines the core business entities and their invariants.
package domain

import "errors"

// Common domain validation errors.
var (
	ErrEmptyUserID     = errors.New("user ID cannot be empty")
	ErrEmptyUsername   = errors.New("username cannot be empty")
	ErrInvalidUsername = errors.New("username can only have letters, numbers and underscore")
	ErrEmptyEmail      = errors.New("email cannot be empty")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrEmptyPassword   = errors.New("password cannot be empty")

	ErrEmptyGratitudeID = errors.New("gratitude ID cannot be empty")
	ErrEmptyOwner       = errors.New("gratitude must have an owner")
	ErrTitleLength      = errors.New("title must be between 3 and 50 characters")
	ErrDetailsLength    = errors.New("details must be between 10 and 150 characters")
	ErrTooManyTags      = errors.New("gratitude cannot have more than 5 tags")
	ErrTagLength        = errors.New("tags must be between 3 and 20 characters")
)
