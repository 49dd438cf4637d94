package usecase

import (
	"context"

	"github.com/google/uuid"
)

// UpdateProfileInput defines the data an account may change about itself.
// Email and role are immutable through this path.
type UpdateProfileInput struct {
	AccountID uuid.UUID
	Name      string
}

// ChangePasswordInput carries a password change request.
type ChangePasswordInput struct {
	AccountID       uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ProfileUsecase defines the interface for self-service account operations.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, accountID uuid.UUID) (*PublicAccount, error)
	UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*PublicAccount, error)
	ChangePassword(ctx context.Context, input *ChangePasswordInput) error
}
