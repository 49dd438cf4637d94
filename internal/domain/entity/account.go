// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the core entity in the system, representing a registered user.
// The identifier is assigned by the persistence layer at creation time and
// never changes afterwards; the email is immutable once the account exists.
type Account struct {
	ID           uuid.UUID // The globally unique identifier for the account.
	Name         string    // The account holder's display name.
	Email        string    // The login identifier, unique across all accounts.
	PasswordHash string    // The bcrypt-hashed credential. Never the raw password and never serialized outward.
	Role         Role      // The account's role, one of the closed Role set.
	CreatedAt    time.Time // Timestamp of when the account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to the account.
}

// IsAdmin reports whether the account currently holds the admin role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}
