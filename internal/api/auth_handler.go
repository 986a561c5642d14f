// Package api contains the HTTP handlers and request/response models.
// Handlers run at the end of the pipeline: bodies and parameters arrive
// already validated, and every failure is delegated to the shared error
// responder rather than formatted in place.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gratitudeapp/gratitude-api/internal/api/shared"
	"github.com/gratitudeapp/gratitude-api/internal/apperr"
	"github.com/gratitudeapp/gratitude-api/internal/domain"
	"github.com/gratitudeapp/gratitude-api/internal/platform/logger"
	"github.com/gratitudeapp/gratitude-api/internal/service/auth"
	"github.com/gratitudeapp/gratitude-api/internal/store"
)

// invalidCredentialsMessage is shared by unknown-username and
// wrong-password failures so the response carries no enumeration signal.
const invalidCredentialsMessage = "Invalid username or password"

// AuthHandler serves registration and login.
type AuthHandler struct {
	users      store.UserStore
	hasher     auth.PasswordHasher
	verifier   auth.PasswordVerifier
	jwtService auth.JWTService
	responder  *shared.ErrorResponder
	logger     *slog.Logger
}

// NewAuthHandler creates an AuthHandler. Panics on nil dependencies.
func NewAuthHandler(
	users store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	jwtService auth.JWTService,
	responder *shared.ErrorResponder,
	log *slog.Logger,
) *AuthHandler {
	if users == nil {
		panic("users cannot be nil")
	}
	if hasher == nil {
		panic("hasher cannot be nil")
	}
	if verifier == nil {
		panic("verifier cannot be nil")
	}
	if jwtService == nil {
		panic("jwtService cannot be nil")
	}
	if responder == nil {
		panic("responder cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		users:      users,
		hasher:     hasher,
		verifier:   verifier,
		jwtService: jwtService,
		responder:  responder,
		logger:     log.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /auth/register. The body has already been
// validated by the pipeline.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	req, ok := shared.BodyFromContext[*RegisterRequest](ctx)
	if !ok {
		h.responder.Respond(w, r, apperr.Internal("request body missing from context"))
		return
	}

	user, err := domain.NewUser(req.Username, req.Email, req.FirstName, req.LastName)
	if err != nil {
		h.responder.Respond(w, r, apperr.Validation(err.Error()).WithCause(err))
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.responder.Respond(w, r, err)
		return
	}
	user.HashedPassword = hashed

	if err := h.users.Create(ctx, user); err != nil {
		h.responder.Respond(w, r, err)
		return
	}

	token, err := h.jwtService.GenerateToken(ctx, user)
	if err != nil {
		h.responder.Respond(w, r, err)
		return
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		Message: "User created",
		User:    user,
		Token:   token,
	})
}

// Login handles POST /auth/login. Unknown usernames and wrong passwords
// produce byte-identical 401 responses.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	req, ok := shared.BodyFromContext[*LoginRequest](ctx)
	if !ok {
		h.responder.Respond(w, r, apperr.Internal("request body missing from context"))
		return
	}

	user, err := h.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if store.IsNotFound(err) {
			log.Warn("login attempt for unknown username",
				slog.String("username", req.Username))
			h.responder.Respond(w, r, apperr.Authentication(invalidCredentialsMessage).WithCause(err))
			return
		}
		h.responder.Respond(w, r, err)
		return
	}

	if err := h.verifier.Compare(user.HashedPassword, req.Password); err != nil {
		log.Warn("login attempt with wrong password",
			slog.String("user_id", user.ID.String()))
		h.responder.Respond(w, r, apperr.Authentication(invalidCredentialsMessage).WithCause(err))
		return
	}

	token, err := h.jwtService.GenerateToken(ctx, user)
	if err != nil {
		h.responder.Respond(w, r, err)
		return
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		Message: "Login successful",
		User:    user,
		Token:   token,
	})
}
