package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"passport/internal/domain/entity"
)

// Repository layer error definitions
var (
	// ErrAccountNotFound means the account does not exist
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateEmail means the email is already taken by another account
	ErrDuplicateEmail = errors.New("email already exists")
)

// AccountRepository defines the persistence operations for accounts
type AccountRepository interface {
	// Create creates a new account. Returns ErrDuplicateEmail when the email
	// collides with an existing account.
	Create(ctx context.Context, account *entity.Account) error

	// FindByID finds an account by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByEmail finds an account by email
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// ExistsByEmail reports whether an account with the email already exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// List returns all accounts ordered by creation time
	List(ctx context.Context) ([]*entity.Account, error)

	// Update updates an account's mutable fields
	Update(ctx context.Context, account *entity.Account) error

	// Delete removes an account by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// AcquireSessionLock locks the account row for the duration of the
	// surrounding transaction, serializing session-limit checks.
	AcquireSessionLock(ctx context.Context, id uuid.UUID) error
}
