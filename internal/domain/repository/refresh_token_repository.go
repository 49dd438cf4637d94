package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"passport/internal/domain/entity"
)

// Refresh token related errors
var (
	// ErrRefreshTokenNotFound means the refresh token does not exist
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	// ErrRefreshTokenExpired means the refresh token has expired
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// RefreshTokenRepository defines the persistence operations for refresh tokens
type RefreshTokenRepository interface {
	// CreateRefreshToken stores a new refresh token record
	CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error

	// FindRefreshTokenByHash finds a token record by its hashed value.
	// Returns ErrRefreshTokenExpired when the record exists but is past its
	// expiry time.
	FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// DeleteRefreshTokenByHash removes a single token record by its hashed value
	DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error

	// DeleteRefreshTokensByAccountID revokes every session of an account
	DeleteRefreshTokensByAccountID(ctx context.Context, accountID uuid.UUID) error

	// DeleteExpiredRefreshTokens removes all records that expired before now
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)

	// CountActiveSessionsByAccountID counts the unexpired tokens of an account
	CountActiveSessionsByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error)
}
