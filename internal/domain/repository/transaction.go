package repository

import "context"

// RepositoryFactory provides repositories bound to the same transaction
type RepositoryFactory interface {
	// AccountRepo returns the transaction-scoped account repository
	AccountRepo() AccountRepository
	// RefreshTokenRepo returns the transaction-scoped refresh token repository
	RefreshTokenRepo() RefreshTokenRepository
}

// TransactionManager manages database transactions
type TransactionManager interface {
	// Execute runs fn inside a transaction. The transaction commits when fn
	// returns nil and rolls back when fn returns an error or panics.
	Execute(ctx context.Context, fn func(factory RepositoryFactory) error) error
}
