package middleware

import (
	"net/http"
	"strings"

	"github.com/gratitudeapp/gratitude-api/internal/api/shared"
	"github.com/gratitudeapp/gratitude-api/internal/service/auth"
)

// AuthMiddleware authenticates requests by validating the bearer token
// and attaching the verified claim set to the request context.
type AuthMiddleware struct {
	jwtService auth.JWTService
	responder  *shared.ErrorResponder
}

// NewAuthMiddleware creates an AuthMiddleware. Panics on nil dependencies
// since the router cannot function without them.
func NewAuthMiddleware(jwtService auth.JWTService, responder *shared.ErrorResponder) *AuthMiddleware {
	if jwtService == nil {
		panic("jwtService cannot be nil")
	}
	if responder == nil {
		panic("responder cannot be nil")
	}
	return &AuthMiddleware{jwtService: jwtService, responder: responder}
}

// Authenticate wraps next, rejecting requests without a valid bearer
// token. The expired/invalid distinction is surfaced to the client only
// through the message; both are 401s.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r)
		if err != nil {
			m.responder.Respond(w, r, err)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			m.responder.Respond(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithUser(r.Context(), claims)))
	})
}

// extractBearerToken pulls the token out of the Authorization header.
// A missing header, a non-Bearer scheme, and an empty token all read as
// "no credentials supplied" rather than bad credentials.
func extractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", auth.ErrMissingToken
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", auth.ErrMissingToken
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", auth.ErrMissingToken
	}
	return token, nil
}
