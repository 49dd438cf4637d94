package usecase

import (
	"context"

	"github.com/google/uuid"
)

// AdminUpdateAccountInput defines the fields an administrator may change on
// any account. Nil pointers leave the field untouched.
type AdminUpdateAccountInput struct {
	ActorID   uuid.UUID
	AccountID uuid.UUID
	Name      *string
	Role      *string
}

// AdminUsecase defines the interface for administrative account operations.
// Every operation re-checks the actor's role against the store so a stale
// or forged role claim is never enough on its own.
type AdminUsecase interface {
	ListAccounts(ctx context.Context, actorID uuid.UUID) ([]*PublicAccount, error)
	UpdateAccount(ctx context.Context, input *AdminUpdateAccountInput) (*PublicAccount, error)
	DeleteAccount(ctx context.Context, actorID, accountID uuid.UUID) error
}
