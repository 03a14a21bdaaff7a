package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/scry-match/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	// GenerateTokenFn allows test cases to mock the GenerateToken behavior
	GenerateTokenFn func(ctx context.Context, gameID string) (string, error)

	// ValidateTokenFn allows test cases to mock the ValidateToken behavior
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token       string
	Err         error
	ValidateErr error
	Claims      *auth.Claims
}

var _ auth.JWTService = (*MockJWTService)(nil)

// NewMockJWTServiceForGame returns a mock that issues "token-<gameID>" and
// accepts any token as belonging to gameID.
func NewMockJWTServiceForGame(gameID string) *MockJWTService {
	now := time.Now()
	return &MockJWTService{
		GenerateTokenFn: func(_ context.Context, id string) (string, error) {
			return "token-" + id, nil
		},
		Claims: &auth.Claims{
			GameID:    gameID,
			Subject:   gameID,
			IssuedAt:  now,
			ExpiresAt: now.Add(time.Hour),
		},
	}
}

// GenerateToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateToken(ctx context.Context, gameID string) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, gameID)
	}
	return m.Token, m.Err
}

// ValidateToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}
