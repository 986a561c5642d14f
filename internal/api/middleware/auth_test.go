package middleware_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gratitudeapp/gratitude-api/internal/api/middleware"
	"github.com/gratitudeapp/gratitude-api/internal/api/shared"
	"github.com/gratitudeapp/gratitude-api/internal/domain"
	"github.com/gratitudeapp/gratitude-api/internal/service/auth"
)

const testSecret = "test-secret-key-thats-long-enough"

func newResponder() *shared.ErrorResponder {
	return shared.NewErrorResponder(false, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("alice1", "alice@example.com", "Alice", "Liddell")
	require.NoError(t, err)
	return user
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var body shared.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	jwtService := auth.NewTestJWTService(testSecret, 24*time.Hour, time.Now)
	authMw := middleware.NewAuthMiddleware(jwtService, newResponder())

	var capturedClaims *auth.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := shared.UserFromContext(r.Context())
		require.True(t, ok)
		capturedClaims = claims
		w.WriteHeader(http.StatusOK)
	})
	handler := authMw.Authenticate(next)

	t.Run("valid token reaches handler with claims", func(t *testing.T) {
		user := testUser(t)
		token, err := jwtService.GenerateToken(context.Background(), user)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/gratitudes", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, capturedClaims)
		assert.Equal(t, user.ID, capturedClaims.UserID)
		assert.Equal(t, user.Username, capturedClaims.Username)
	})

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/gratitudes", nil)

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, "Authentication token required", body.Error)
		assert.Equal(t, "AUTHENTICATION_ERROR", body.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/gratitudes", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Authentication token required", decodeError(t, rec).Error)
	})

	t.Run("empty bearer token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/gratitudes", nil)
		req.Header.Set("Authorization", "Bearer ")

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Authentication token required", decodeError(t, rec).Error)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/gratitudes", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid authentication token", decodeError(t, rec).Error)
	})

	t.Run("expired token", func(t *testing.T) {
		past := func() time.Time { return time.Now().Add(-48 * time.Hour) }
		expiredIssuer := auth.NewTestJWTService(testSecret, 24*time.Hour, past)
		token, err := expiredIssuer.GenerateToken(context.Background(), testUser(t))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/gratitudes", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Token has expired", decodeError(t, rec).Error)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		otherIssuer := auth.NewTestJWTService("another-secret-thats-long-enough", 24*time.Hour, time.Now)
		token, err := otherIssuer.GenerateToken(context.Background(), testUser(t))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/gratitudes", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid authentication token", decodeError(t, rec).Error)
	})
}
