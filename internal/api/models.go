package api

import (
	"regexp"
	"strings"

	"github.com/gratitudeapp/gratitude-api/internal/apperr"
	"github.com/gratitudeapp/gratitude-api/internal/domain"
)

// Envelope status strings. Every successful resource response carries
// one of these in its status field.
const (
	StatusOk            = "Ok"
	StatusCreated       = "Created"
	StatusUpdated       = "Updated"
	StatusDeleted       = "Deleted"
	StatusEntryNotFound = "Gratitude not found"
)

// GratitudeEnvelope is the uniform response shape of every resource
// operation. Data is always array-shaped, even for single-entity reads,
// and Items is its length.
type GratitudeEnvelope struct {
	Status string              `json:"status"`
	Data   []*domain.Gratitude `json:"data"`
	Items  int                 `json:"items"`
}

// NewGratitudeEnvelope builds an envelope around zero or more entries.
// A nil slice becomes an empty array on the wire.
func NewGratitudeEnvelope(status string, entries []*domain.Gratitude) GratitudeEnvelope {
	if entries == nil {
		entries = []*domain.Gratitude{}
	}
	return GratitudeEnvelope{
		Status: status,
		Data:   entries,
		Items:  len(entries),
	}
}

// AuthResponse is the body of successful register and login calls.
type AuthResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
}

// usernameRe restricts usernames to letters, digits, and underscore.
var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Password composition checks. Each rule that fails contributes its own
// detail entry, so a weak password reports every violated rule at once.
var (
	hasUpperRe   = regexp.MustCompile(`[A-Z]`)
	hasLowerRe   = regexp.MustCompile(`[a-z]`)
	hasDigitRe   = regexp.MustCompile(`[0-9]`)
	hasSpecialRe = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// Username and name length bounds.
const (
	usernameMinLen = 3
	usernameMaxLen = 20
	nameMaxLen     = 50
	passwordMinLen = 8
	passwordMaxLen = 50
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

// Normalize lowercases the username and email and trims name whitespace.
// The password is left untouched.
func (r *RegisterRequest) Normalize() {
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

// Validate checks every field and reports all violated rules, not just
// the first.
func (r *RegisterRequest) Validate() error {
	var details []apperr.FieldError

	switch {
	case len(r.Username) < usernameMinLen:
		details = append(details, apperr.FieldError{Field: "username", Message: "The username must have at least 3 characters"})
	case len(r.Username) > usernameMaxLen:
		details = append(details, apperr.FieldError{Field: "username", Message: "The username cannot exceed 20 characters"})
	case !usernameRe.MatchString(r.Username):
		details = append(details, apperr.FieldError{Field: "username", Message: "Username can only contain letters, numbers and underscore"})
	}

	if !validEmail(r.Email) {
		details = append(details, apperr.FieldError{Field: "email", Message: "Must be a valid email"})
	}

	switch {
	case r.FirstName == "":
		details = append(details, apperr.FieldError{Field: "firstName", Message: "Name is required"})
	case len(r.FirstName) > nameMaxLen:
		details = append(details, apperr.FieldError{Field: "firstName", Message: "Name cannot exceed 50 characters"})
	}
	switch {
	case r.LastName == "":
		details = append(details, apperr.FieldError{Field: "lastName", Message: "Name is required"})
	case len(r.LastName) > nameMaxLen:
		details = append(details, apperr.FieldError{Field: "lastName", Message: "Name cannot exceed 50 characters"})
	}

	details = append(details, passwordDetails(r.Password)...)

	if len(details) > 0 {
		return apperr.Validation("Validation failed", details...)
	}
	return nil
}

// passwordDetails reports every composition rule the password violates.
func passwordDetails(password string) []apperr.FieldError {
	var details []apperr.FieldError
	if len(password) < passwordMinLen {
		details = append(details, apperr.FieldError{Field: "password", Message: "The password must be at least 8 characters long"})
	}
	if len(password) > passwordMaxLen {
		details = append(details, apperr.FieldError{Field: "password", Message: "The password cannot exceed 50 characters"})
	}
	if !hasUpperRe.MatchString(password) {
		details = append(details, apperr.FieldError{Field: "password", Message: "It must contain at least one capital letter"})
	}
	if !hasLowerRe.MatchString(password) {
		details = append(details, apperr.FieldError{Field: "password", Message: "It must contain at least one lowercase letter"})
	}
	if !hasDigitRe.MatchString(password) {
		details = append(details, apperr.FieldError{Field: "password", Message: "It must contain at least one number"})
	}
	if !hasSpecialRe.MatchString(password) {
		details = append(details, apperr.FieldError{Field: "password", Message: "It must contain at least one special character"})
	}
	return details
}

// validEmail applies the same minimal shape check the identity model
// uses: non-empty local part, "@", non-empty domain with a dot.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}
	dom := email[at+1:]
	dot := strings.Index(dom, ".")
	return dot > 0 && dot < len(dom)-1 && !strings.ContainsAny(email, " \t")
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Normalize lowercases the username so lookups match stored identities.
func (r *LoginRequest) Normalize() {
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
}

// Validate requires both credentials to be present. Composition rules
// are not re-checked on login; a wrong-shape password simply fails
// verification.
func (r *LoginRequest) Validate() error {
	var details []apperr.FieldError
	if r.Username == "" {
		details = append(details, apperr.FieldError{Field: "username", Message: "Username is required"})
	}
	if r.Password == "" {
		details = append(details, apperr.FieldError{Field: "password", Message: "Password is required"})
	}
	if len(details) > 0 {
		return apperr.Validation("Validation failed", details...)
	}
	return nil
}

// CreateGratitudeRequest is the body of POST /gratitudes.
type CreateGratitudeRequest struct {
	Title   string   `json:"title"`
	Details string   `json:"details"`
	Tags    []string `json:"tags"`
}

// Normalize trims surrounding whitespace from the text fields and each
// tag.
func (r *CreateGratitudeRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Details = strings.TrimSpace(r.Details)
	for i, tag := range r.Tags {
		r.Tags[i] = strings.TrimSpace(tag)
	}
}

// Validate checks the entry fields and reports all violated rules.
func (r *CreateGratitudeRequest) Validate() error {
	details := gratitudeFieldDetails(r.Title, r.Details, r.Tags)
	if len(details) > 0 {
		return apperr.Validation("Validation failed", details...)
	}
	return nil
}

// gratitudeFieldDetails reports every violated bound across the entry
// fields, reusing the domain model's limits.
func gratitudeFieldDetails(title, entryDetails string, tags []string) []apperr.FieldError {
	var details []apperr.FieldError
	switch {
	case len(title) < domain.TitleMinLen:
		details = append(details, apperr.FieldError{Field: "title", Message: "Title must be at least 3 characters long"})
	case len(title) > domain.TitleMaxLen:
		details = append(details, apperr.FieldError{Field: "title", Message: "Title must be max 50 characters long"})
	}
	switch {
	case len(entryDetails) < domain.DetailsMinLen:
		details = append(details, apperr.FieldError{Field: "details", Message: "Details must be at least 10 characters long"})
	case len(entryDetails) > domain.DetailsMaxLen:
		details = append(details, apperr.FieldError{Field: "details", Message: "Details must be max 150 characters long"})
	}
	if len(tags) > domain.MaxTags {
		details = append(details, apperr.FieldError{Field: "tags", Message: "Tags must not have more than 5 items"})
	}
	for _, tag := range tags {
		if len(tag) < domain.TagMinLen || len(tag) > domain.TagMaxLen {
			details = append(details, apperr.FieldError{Field: "tags", Message: "Each tag must be between 3 and 20 characters long"})
			break
		}
	}
	return details
}

// UpdateGratitudeRequest is the body of PATCH /gratitudes/:id. Every
// field is optional but at least one must be present.
type UpdateGratitudeRequest struct {
	Title   *string   `json:"title,omitempty"`
	Details *string   `json:"details,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

// Normalize trims whitespace from whichever fields are present.
func (r *UpdateGratitudeRequest) Normalize() {
	if r.Title != nil {
		*r.Title = strings.TrimSpace(*r.Title)
	}
	if r.Details != nil {
		*r.Details = strings.TrimSpace(*r.Details)
	}
	if r.Tags != nil {
		for i, tag := range *r.Tags {
			(*r.Tags)[i] = strings.TrimSpace(tag)
		}
	}
}

// Validate requires at least one field and checks bounds on whichever
// fields are present.
func (r *UpdateGratitudeRequest) Validate() error {
	if r.Title == nil && r.Details == nil && r.Tags == nil {
		return apperr.Validation("Must provide at least one field for updating")
	}

	var details []apperr.FieldError
	if r.Title != nil {
		switch {
		case len(*r.Title) < domain.TitleMinLen:
			details = append(details, apperr.FieldError{Field: "title", Message: "Title must be at least 3 characters long"})
		case len(*r.Title) > domain.TitleMaxLen:
			details = append(details, apperr.FieldError{Field: "title", Message: "Title must be max 50 characters long"})
		}
	}
	if r.Details != nil {
		switch {
		case len(*r.Details) < domain.DetailsMinLen:
			details = append(details, apperr.FieldError{Field: "details", Message: "Details must be at least 10 characters long"})
		case len(*r.Details) > domain.DetailsMaxLen:
			details = append(details, apperr.FieldError{Field: "details", Message: "Details must be max 150 characters long"})
		}
	}
	if r.Tags != nil {
		if len(*r.Tags) > domain.MaxTags {
			details = append(details, apperr.FieldError{Field: "tags", Message: "Tags must not have more than 5 items"})
		}
		for _, tag := range *r.Tags {
			if len(tag) < domain.TagMinLen || len(tag) > domain.TagMaxLen {
				details = append(details, apperr.FieldError{Field: "tags", Message: "Each tag must be between 3 and 20 characters long"})
				break
			}
		}
	}
	if len(details) > 0 {
		return apperr.Validation("Validation failed", details...)
	}
	return nil
}

// Patch converts the request into a domain patch.
func (r *UpdateGratitudeRequest) Patch() domain.GratitudePatch {
	return domain.GratitudePatch{
		Title:   r.Title,
		Details: r.Details,
		Tags:    r.Tags,
	}
}
