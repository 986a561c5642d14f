package shared

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/gratitudeapp/gratitude-api/internal/apperr"
	"github.com/gratitudeapp/gratitude-api/internal/service/auth"
)

// maxBodyBytes caps request bodies. Journal entries are small, so a
// megabyte is generous.
const maxBodyBytes = 1 << 20

// DecodeJSON decodes the request body into dst, rejecting unknown
// fields and trailing garbage. Failures come back as validation errors
// so the normalizer renders them as 400s.
func DecodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return apperr.Validation("Request body is required")
		default:
			return apperr.Validation("Invalid request body").WithCause(err)
		}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return apperr.Validation("Request body must contain a single JSON object")
	}
	return nil
}

// WithBody stores a validated request body in the context.
func WithBody(ctx context.Context, body any) context.Context {
	return context.WithValue(ctx, BodyContextKey, body)
}

// BodyFromContext retrieves the validated request body of type T.
// The boolean is false when validation middleware did not run.
func BodyFromContext[T any](ctx context.Context) (T, bool) {
	body, ok := ctx.Value(BodyContextKey).(T)
	return body, ok
}

// WithGratitudeID stores a validated path id in the context.
func WithGratitudeID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, GratitudeIDContextKey, id)
}

// GratitudeIDFromContext retrieves the validated path id.
func GratitudeIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(GratitudeIDContextKey).(uuid.UUID)
	return id, ok
}

// ListFilter is the validated query surface of the list operation.
type ListFilter struct {
	Tag string
}

// WithListFilter stores a validated list filter in the context.
func WithListFilter(ctx context.Context, f ListFilter) context.Context {
	return context.WithValue(ctx, ListFilterContextKey, f)
}

// ListFilterFromContext retrieves the validated list filter.
func ListFilterFromContext(ctx context.Context) (ListFilter, bool) {
	f, ok := ctx.Value(ListFilterContextKey).(ListFilter)
	return f, ok
}

// WithUser stores the authenticated claim set in the context.
func WithUser(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}

// UserFromContext retrieves the authenticated claim set. The boolean
// is false on routes where the auth middleware did not run.
func UserFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*auth.Claims)
	return claims, ok && claims != nil
}
