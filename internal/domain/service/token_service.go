package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token type constants
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the payload carried by issued tokens
type Claims struct {
	AccountID uuid.UUID `json:"account_id"`
	Roles     []string  `json:"roles"`
	Type      string    `json:"type"`
	jwt.RegisteredClaims
}

// TokenService defines the token issuing and validation operations
type TokenService interface {
	// GenerateTokens issues an access and refresh token pair for an account
	GenerateTokens(ctx context.Context, accountID uuid.UUID, roles []string) (accessToken, refreshToken string, err error)

	// ValidateToken parses and verifies a token, returning its claims
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// HashToken produces the digest under which a refresh token is persisted
	HashToken(token string) string

	// GetRefreshTokenDuration returns the configured refresh token lifetime
	GetRefreshTokenDuration() time.Duration
}
