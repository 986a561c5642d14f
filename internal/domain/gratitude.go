package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bounds for gratitude fields, mirrored by the request schemas.
const (
	TitleMinLen   = 3
	TitleMaxLen   = 50
	DetailsMinLen = 10
	DetailsMaxLen = 150
	TagMinLen     = 3
	TagMaxLen     = 20
	MaxTags       = 5
)

// Gratitude is a single journal entry owned by exactly one user. Titles
// are unique per owner. Every read and write of an entry is scoped by the
// owner's ID, so a foreign entry behaves as if it did not exist.
type Gratitude struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Title     string    `json:"title"`
	Details   string    `json:"details"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewGratitude creates a Gratitude owned by ownerID with a fresh ID and
// timestamps. Returns an error if any invariant is violated.
func NewGratitude(ownerID uuid.UUID, title, details string, tags []string) (*Gratitude, error) {
	if tags == nil {
		tags = []string{}
	}
	now := time.Now().UTC()
	g := &Gratitude{
		ID:        uuid.New(),
		UserID:    ownerID,
		Title:     title,
		Details:   details,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks the entry's invariants.
func (g *Gratitude) Validate() error {
	if g.ID == uuid.Nil {
		return ErrEmptyGratitudeID
	}
	if g.UserID == uuid.Nil {
		return ErrEmptyOwner
	}
	if len(g.Title) < TitleMinLen || len(g.Title) > TitleMaxLen {
		return ErrTitleLength
	}
	if len(g.Details) < DetailsMinLen || len(g.Details) > DetailsMaxLen {
		return ErrDetailsLength
	}
	if len(g.Tags) > MaxTags {
		return ErrTooManyTags
	}
	for _, tag := range g.Tags {
		if len(tag) < TagMinLen || len(tag) > TagMaxLen {
			return ErrTagLength
		}
	}
	return nil
}

// GratitudePatch is a partial update. Nil fields are left untouched.
type GratitudePatch struct {
	Title   *string
	Details *string
	Tags    *[]string
}

// Empty reports whether the patch changes nothing.
func (p GratitudePatch) Empty() bool {
	return p.Title == nil && p.Details == nil && p.Tags == nil
}

// Apply copies the patch onto g and refreshes the update timestamp.
// The result is validated before being returned.
func (p GratitudePatch) Apply(g *Gratitude) error {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Details != nil {
		g.Details = *p.Details
	}
	if p.Tags != nil {
		g.Tags = *p.Tags
	}
	g.UpdatedAt = time.Now().UTC()
	return g.Validate()
}
