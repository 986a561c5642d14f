package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// usernameRe constrains usernames to letters, digits, and underscore.
var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// User is a registered identity. Username and email are unique across all
// users. The plaintext password never leaves the registration path; only
// the bcrypt hash is stored.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewUser creates a User with a fresh ID and timestamps. The caller is
// responsible for hashing the password and setting HashedPassword before
// the user is stored.
func NewUser(username, email, firstName, lastName string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Username:  strings.ToLower(username),
		Email:     strings.ToLower(email),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks the user's invariants.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Username == "" {
		return ErrEmptyUsername
	}
	if !usernameRe.MatchString(u.Username) {
		return ErrInvalidUsername
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validEmail(u.Email) {
		return ErrInvalidEmail
	}
	if u.FirstName == "" || u.LastName == "" {
		return ErrEmptyName
	}
	return nil
}

// validEmail performs a minimal structural check: a non-empty local part,
// one @, and a domain containing an interior dot. Full RFC validation is
// the job of the request schema layer.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
