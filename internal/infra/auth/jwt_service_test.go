package auth

import (
	"testing"
	"time"

	"passport/config"
	"passport/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testJWTConfig() *config.Config {
	return &config.Config{
		SecretKey: config.SecretKeyConfig{
			Access:  "test_access_secret_key_very_long_for_testing",
			Refresh: "test_refresh_secret_key_very_long_for_testing",
		},
	}
}

func TestJWTService_GenerateAndValidateTokens(t *testing.T) {
	jwtService, err := NewJWTService(testJWTConfig())
	assert.NoError(t, err)
	assert.NotNil(t, jwtService)

	accountID := uuid.New()
	roles := []string{"user", "admin"}

	accessToken, refreshToken, err := jwtService.GenerateTokens(t.Context(), accountID, roles)
	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	// Validate access token
	accessClaims, err := jwtService.ValidateToken(t.Context(), accessToken)
	assert.NoError(t, err)
	assert.NotNil(t, accessClaims)
	assert.Equal(t, accountID, accessClaims.AccountID)
	assert.Equal(t, roles, accessClaims.Roles)
	assert.Equal(t, service.TokenTypeAccess, accessClaims.Type)

	// Validate refresh token
	refreshClaims, err := jwtService.ValidateToken(t.Context(), refreshToken)
	assert.NoError(t, err)
	assert.NotNil(t, refreshClaims)
	assert.Equal(t, accountID, refreshClaims.AccountID)
	assert.Nil(t, refreshClaims.Roles) // Refresh tokens don't carry roles
	assert.Equal(t, service.TokenTypeRefresh, refreshClaims.Type)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(testJWTConfig())
	assert.NoError(t, err)

	claims, err := jwtService.ValidateToken(t.Context(), "clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "failed to parse token structure")
}

func TestJWTService_WrongSecret(t *testing.T) {
	jwtService, err := NewJWTService(testJWTConfig())
	assert.NoError(t, err)

	otherService, err := NewJWTService(&config.Config{
		SecretKey: config.SecretKeyConfig{
			Access:  "another_access_secret_entirely_for_testing",
			Refresh: "another_refresh_secret_entirely_for_testing",
		},
	})
	assert.NoError(t, err)

	accessToken, _, err := jwtService.GenerateTokens(t.Context(), uuid.New(), []string{"user"})
	assert.NoError(t, err)

	// A token signed with one secret must not validate under another
	claims, err := otherService.ValidateToken(t.Context(), accessToken)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_EmptySecrets(t *testing.T) {
	jwtService, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "jwt secrets must be provided")
}

func TestJWTService_ConfiguredTTL(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Auth.AccessTokenTTL = time.Minute * 5
	cfg.Auth.RefreshTokenTTL = time.Hour * 24

	jwtService, err := NewJWTService(cfg)
	assert.NoError(t, err)
	assert.Equal(t, time.Hour*24, jwtService.GetRefreshTokenDuration())
}

func TestJWTService_GetRefreshTokenDuration(t *testing.T) {
	jwtService, err := NewJWTService(testJWTConfig())
	assert.NoError(t, err)

	// Defaults apply when the config leaves the TTLs unset
	assert.Equal(t, time.Hour*24*7, jwtService.GetRefreshTokenDuration())
}

func TestJWTService_HashToken(t *testing.T) {
	jwtService, err := NewJWTService(testJWTConfig())
	assert.NoError(t, err)

	hash := jwtService.HashToken("some-refresh-token")
	assert.Len(t, hash, 64) // hex-encoded SHA-256
	assert.NotEqual(t, "some-refresh-token", hash)

	// Deterministic, so lookups by hash work
	assert.Equal(t, hash, jwtService.HashToken("some-refresh-token"))
	assert.NotEqual(t, hash, jwtService.HashToken("another-token"))
}
