package shared_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gratitudeapp/gratitude-api/internal/api/shared"
	"github.com/gratitudeapp/gratitude-api/internal/apperr"
	"github.com/gratitudeapp/gratitude-api/internal/service/auth"
	"github.com/gratitudeapp/gratitude-api/internal/store"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantKind   apperr.Kind
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "classified error passes through",
			err:        apperr.Conflict("already taken"),
			wantKind:   apperr.KindConflict,
			wantStatus: http.StatusConflict,
			wantMsg:    "already taken",
		},
		{
			name:       "wrapped classified error passes through",
			err:        fmt.Errorf("handler: %w", apperr.NotFound("gone")),
			wantKind:   apperr.KindNotFound,
			wantStatus: http.StatusNotFound,
			wantMsg:    "gone",
		},
		{
			name:       "missing token",
			err:        auth.ErrMissingToken,
			wantKind:   apperr.KindAuthentication,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Authentication token required",
		},
		{
			name:       "expired token",
			err:        fmt.Errorf("middleware: %w", auth.ErrExpiredToken),
			wantKind:   apperr.KindAuthentication,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Token has expired",
		},
		{
			name:       "invalid token",
			err:        auth.ErrInvalidToken,
			wantKind:   apperr.KindAuthentication,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Invalid authentication token",
		},
		{
			name:       "username uniqueness violation",
			err:        fmt.Errorf("store: %w", store.ErrUsernameExists),
			wantKind:   apperr.KindConflict,
			wantStatus: http.StatusConflict,
			wantMsg:    "Username already exists",
		},
		{
			name:       "title uniqueness violation",
			err:        store.ErrTitleExists,
			wantKind:   apperr.KindConflict,
			wantStatus: http.StatusConflict,
			wantMsg:    "A gratitude with this title already exists",
		},
		{
			name:       "entry not found",
			err:        store.ErrGratitudeNotFound,
			wantKind:   apperr.KindNotFound,
			wantStatus: http.StatusNotFound,
			wantMsg:    "Gratitude not found",
		},
		{
			name:       "storage constraint violation",
			err:        fmt.Errorf("store: %w", store.ErrInvalidEntity),
			wantKind:   apperr.KindValidation,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unclassified error",
			err:        errors.New("boom"),
			wantKind:   apperr.KindInternal,
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			appErr := shared.Classify(tc.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tc.wantKind, appErr.Kind)
			assert.Equal(t, tc.wantStatus, appErr.StatusCode())
			if tc.wantMsg != "" {
				assert.Equal(t, tc.wantMsg, appErr.Message)
			}
		})
	}
}

func TestClassify_ValidatorErrors(t *testing.T) {
	t.Parallel()

	type payload struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required,min=3"`
	}

	err := validator.New().Struct(payload{Email: "not-an-email", Name: "x"})
	require.Error(t, err)

	appErr := shared.Classify(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode())
	assert.Equal(t, "Validation failed", appErr.Message)

	require.Len(t, appErr.Details, 2)
	assert.Equal(t, "email", appErr.Details[0].Field)
	assert.Equal(t, "Must be a valid email address", appErr.Details[0].Message)
	assert.Equal(t, "name", appErr.Details[1].Field)
	assert.Equal(t, "Must be at least 3 characters long", appErr.Details[1].Message)
}

func TestErrorResponder_Respond(t *testing.T) {
	t.Parallel()

	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	decode := func(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
		t.Helper()
		var body shared.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		return body
	}

	t.Run("client error keeps message and details", func(t *testing.T) {
		t.Parallel()
		responder := shared.NewErrorResponder(false, discard)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/gratitudes", nil)

		responder.Respond(rec, req, apperr.Validation("Validation failed",
			apperr.FieldError{Field: "title", Message: "Title must be at least 3 characters long"}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		body := decode(t, rec)
		assert.Equal(t, "Validation failed", body.Error)
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
		require.Len(t, body.Details, 1)
		assert.Equal(t, "title", body.Details[0].Field)
		assert.Empty(t, body.Stack)
	})

	t.Run("server error is generic outside development", func(t *testing.T) {
		t.Parallel()
		responder := shared.NewErrorResponder(false, discard)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/gratitudes", nil)

		responder.Respond(rec, req, errors.New("pq: deadlock detected on relation gratitudes"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "Internal server error", body.Error)
		assert.Equal(t, "INTERNAL_ERROR", body.Code)
		assert.Empty(t, body.Stack)
		assert.NotContains(t, rec.Body.String(), "deadlock")
	})

	t.Run("server error keeps the original message in development", func(t *testing.T) {
		t.Parallel()
		responder := shared.NewErrorResponder(true, discard)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/gratitudes", nil)

		responder.Respond(rec, req, errors.New("dial tcp: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "dial tcp: connection refused", body.Error)
		assert.Equal(t, "INTERNAL_ERROR", body.Code)
		assert.NotEmpty(t, body.Stack)
	})

	t.Run("server error carries stack in development", func(t *testing.T) {
		t.Parallel()
		responder := shared.NewErrorResponder(true, discard)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/gratitudes", nil)

		responder.Respond(rec, req, apperr.Database("Database operation failed"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "Database operation failed", body.Error)
		assert.Equal(t, "DATABASE_ERROR", body.Code)
		assert.NotEmpty(t, body.Stack)
	})

	t.Run("auth sentinel becomes 401", func(t *testing.T) {
		t.Parallel()
		responder := shared.NewErrorResponder(false, discard)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/gratitudes", nil)

		responder.Respond(rec, req, auth.ErrExpiredToken)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "Token has expired", body.Error)
		assert.Equal(t, "AUTHENTICATION_ERROR", body.Code)
	})
}
