// Package model defines the GORM table mappings for the persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"passport/internal/domain/entity"
)

// AccountModel mirrors the 'accounts' table. The unique index on email makes
// the database the final arbiter of email uniqueness, regardless of any
// check the application performs first.
type AccountModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'user'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	RefreshTokens []RefreshTokenModel `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}

// ToEntity converts the persistence model to the domain entity.
func (m *AccountModel) ToEntity() *entity.Account {
	return &entity.Account{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         entity.Role(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// AccountModelFromEntity converts the domain entity to the persistence model.
func AccountModelFromEntity(account *entity.Account) *AccountModel {
	return &AccountModel{
		ID:           account.ID,
		Name:         account.Name,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		Role:         account.Role.String(),
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
}
