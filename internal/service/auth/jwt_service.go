package auth

import (
	"context"
	"time"
)

// JWTService issues and checks game tokens. A game token proves that the
// caller created the game it names; it is handed out once when the game is
// created and presented as a Bearer token on every later call.
type JWTService interface {
	// GenerateToken creates a signed token bound to gameID.
	GenerateToken(ctx context.Context, gameID string) (string, error)

	// ValidateToken checks the signature and lifetime of tokenString and
	// returns its claims. Errors are ErrInvalidToken, ErrExpiredToken or
	// ErrTokenNotYetValid.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for game tokens.
type Claims struct {
	// GameID is the game the token was issued for.
	GameID string `json:"gid,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// Authorizes reports whether the claims grant access to gameID.
func (c *Claims) Authorizes(gameID string) bool {
	return c != nil && c.GameID != "" && c.GameID == gameID
}
