package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gratitudeapp/gratitude-api/internal/domain"
)

// JWTService defines operations for issuing and verifying bearer tokens.
type JWTService interface {
	// GenerateToken creates a signed token carrying the user's identity
	// claim set, valid for the configured lifetime from the time of call.
	GenerateToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateToken verifies the token and extracts its claims. Returns
	// ErrExpiredToken if the token has expired and ErrInvalidToken for
	// every other failure; no library-internal error ever escapes.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the identity claim set embedded in a signed token. It is
// sufficient to reconstruct the caller's identity without a server-side
// session.
type Claims struct {
	UserID   uuid.UUID `json:"uid"`
	Email    string    `json:"email"`
	Username string    `json:"username"`

	// Standard registered claims, populated by the implementation.
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
