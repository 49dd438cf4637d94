// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"passport/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
// Role is deliberately absent: public registration always creates a
// standard account, elevation is an admin operation.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshTokenInput carries the refresh token being redeemed.
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput carries the refresh token of the session being ended.
type LogoutInput struct {
	RefreshToken string
}

// --- Output DTOs ---

// PublicAccount is the outward representation of an account.
// The password hash never crosses this boundary.
type PublicAccount struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewPublicAccount maps a domain entity to its outward representation.
func NewPublicAccount(account *entity.Account) *PublicAccount {
	if account == nil {
		return nil
	}

	return &PublicAccount{
		ID:        account.ID,
		Name:      account.Name,
		Email:     account.Email,
		Role:      account.Role.String(),
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}

// RegisterOutput returns the newly created account's public information.
type RegisterOutput struct {
	Account *PublicAccount
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	Account      *PublicAccount
}

// RefreshTokenOutput returns the newly issued access token.
type RefreshTokenOutput struct {
	AccessToken string
}

// AuthUsecase defines the interface for authentication-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*RefreshTokenOutput, error)
	Logout(ctx context.Context, input *LogoutInput) error
}
