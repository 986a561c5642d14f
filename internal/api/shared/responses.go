package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gratitudeapp/gratitude-api/internal/apperr"
	"github.com/gratitudeapp/gratitude-api/internal/platform/logger"
	"github.com/gratitudeapp/gratitude-api/internal/redact"
	"github.com/gratitudeapp/gratitude-api/internal/service/auth"
	"github.com/gratitudeapp/gratitude-api/internal/store"
)

// ErrorResponse is the wire shape of every failed request.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Code    string              `json:"code,omitempty"`
	Details []apperr.FieldError `json:"details,omitempty"`
	Stack   string              `json:"stack,omitempty"`
}

// RespondWithJSON writes v as a JSON response with the given status.
// Encoding failures after the header is written can only be logged.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log := logger.FromContextOrDefault(r.Context(), slog.Default())
		log.Error("failed to encode response",
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path))
	}
}

// ErrorResponder is the terminal error normalizer. Every failure path
// in the pipeline funnels through Respond, which classifies the error,
// logs it, and writes the wire-format body.
type ErrorResponder struct {
	dev    bool
	logger *slog.Logger
}

// NewErrorResponder creates an ErrorResponder. dev enables stack traces
// and unredacted server-error messages in responses.
func NewErrorResponder(dev bool, log *slog.Logger) *ErrorResponder {
	if log == nil {
		log = slog.Default()
	}
	return &ErrorResponder{
		dev:    dev,
		logger: log.With(slog.String("component", "error_responder")),
	}
}

// Respond classifies err, logs it, and writes the error response.
func (e *ErrorResponder) Respond(w http.ResponseWriter, r *http.Request, err error) {
	appErr := Classify(err)
	status := appErr.StatusCode()

	log := logger.FromContextOrDefault(r.Context(), e.logger)
	attrs := []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("code", appErr.Code()),
		slog.String("error", redact.Error(err)),
	}
	if traceID := GetTraceID(r.Context()); traceID != "" {
		attrs = append(attrs, slog.String("trace_id", traceID))
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed", attrs...)
	} else {
		log.Warn("request rejected", attrs...)
	}

	resp := ErrorResponse{
		Error:   appErr.Message,
		Code:    appErr.Code(),
		Details: appErr.Details,
	}
	if status >= http.StatusInternalServerError {
		if e.dev {
			// Development keeps the original failure visible to the
			// client; production only ever shows the generic message.
			if cause := errors.Unwrap(appErr); cause != nil {
				resp.Error = cause.Error()
			}
			resp.Stack = string(debug.Stack())
		} else {
			resp.Error = "Internal server error"
			resp.Details = nil
		}
	}
	RespondWithJSON(w, r, status, resp)
}

// Classify maps an arbitrary pipeline error onto the closed taxonomy.
// Already-classified errors pass through unchanged; everything else is
// matched against the known sentinel families, and unrecognized errors
// land on InternalError.
func Classify(err error) *apperr.Error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return apperr.Validation("Validation failed", flattenValidationErrors(fieldErrs)...).WithCause(err)
	}

	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return apperr.Authentication("Authentication token required").WithCause(err)
	case errors.Is(err, auth.ErrExpiredToken):
		return apperr.Authentication("Token has expired").WithCause(err)
	case errors.Is(err, auth.ErrInvalidToken):
		return apperr.Authentication("Invalid authentication token").WithCause(err)
	}

	switch {
	case errors.Is(err, store.ErrUsernameExists):
		return apperr.Conflict("Username already exists").WithCause(err)
	case errors.Is(err, store.ErrEmailExists):
		return apperr.Conflict("Email already exists").WithCause(err)
	case errors.Is(err, store.ErrTitleExists):
		return apperr.Conflict("A gratitude with this title already exists").WithCause(err)
	case store.IsDuplicate(err):
		return apperr.Conflict("Resource already exists").WithCause(err)
	case errors.Is(err, store.ErrUserNotFound):
		return apperr.NotFound("User not found").WithCause(err)
	case errors.Is(err, store.ErrGratitudeNotFound):
		return apperr.NotFound("Gratitude not found").WithCause(err)
	case store.IsNotFound(err):
		return apperr.NotFound("Resource not found").WithCause(err)
	case errors.Is(err, store.ErrInvalidEntity):
		return apperr.Validation("Request references data that does not satisfy storage constraints").WithCause(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return apperr.Database("Database operation failed").WithCause(err)
	}

	return apperr.Internal("Internal server error").WithCause(err)
}

// flattenValidationErrors converts validator failures into per-field
// details using the struct's json names.
func flattenValidationErrors(errs validator.ValidationErrors) []apperr.FieldError {
	details := make([]apperr.FieldError, 0, len(errs))
	for _, fe := range errs {
		details = append(details, apperr.FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: validationTagMessage(fe),
		})
	}
	return details
}

// validationTagMessage renders a human-readable message for a single
// validator tag failure.
func validationTagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Must be at least %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters long", fe.Param())
	case "email":
		return "Must be a valid email address"
	case "uuid":
		return "Must be a valid UUID"
	case "alphanum":
		return "Must contain only letters and digits"
	default:
		return fmt.Sprintf("Failed validation on %q", fe.Tag())
	}
}
