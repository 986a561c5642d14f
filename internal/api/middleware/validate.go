package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gratitudeapp/gratitude-api/internal/api/shared"
	"github.com/gratitudeapp/gratitude-api/internal/apperr"
	"github.com/gratitudeapp/gratitude-api/internal/domain"
)

// requestBody is what a validated request type must implement: an
// in-place normalization pass followed by a full-field validation that
// reports every violated rule.
type requestBody[T any] interface {
	*T
	Normalize()
	Validate() error
}

// Body decodes, normalizes, and validates the request body as T, then
// stores the result in the context for the handler. Any failure
// short-circuits through the responder with full field details, so
// handlers never see an unvalidated body.
func Body[T any, PT requestBody[T]](responder *shared.ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body T
			pb := PT(&body)

			if err := shared.DecodeJSON(r, pb); err != nil {
				responder.Respond(w, r, err)
				return
			}

			pb.Normalize()
			if err := pb.Validate(); err != nil {
				responder.Respond(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(shared.WithBody(r.Context(), pb)))
		})
	}
}

// GratitudeID validates the id path parameter as a UUID and stores it
// in the context.
func GratitudeID(responder *shared.ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := chi.URLParam(r, "id")
			id, err := uuid.Parse(raw)
			if err != nil {
				responder.Respond(w, r, apperr.Validation("Invalid parameters",
					apperr.FieldError{Field: "id", Message: "Must be a valid uuid"}))
				return
			}

			next.ServeHTTP(w, r.WithContext(shared.WithGratitudeID(r.Context(), id)))
		})
	}
}

// ListQuery validates the optional tag query filter and stores the
// resulting filter in the context. An absent tag is a match-all filter.
func ListQuery(responder *shared.ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag := r.URL.Query().Get("tag")
			if tag != "" && (len(tag) < domain.TagMinLen || len(tag) > domain.TagMaxLen) {
				responder.Respond(w, r, apperr.Validation("Invalid query parameters",
					apperr.FieldError{Field: "tag", Message: "Each tag must be between 3 and 20 characters long"}))
				return
			}

			next.ServeHTTP(w, r.WithContext(shared.WithListFilter(r.Context(), shared.ListFilter{Tag: tag})))
		})
	}
}
