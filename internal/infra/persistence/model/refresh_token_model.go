package model

import (
	"time"

	"github.com/google/uuid"

	"passport/internal/domain/entity"
)

// RefreshTokenModel mirrors the 'refresh_tokens' table. Only the SHA-256
// digest of a token is stored, never the token itself.
type RefreshTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}

// ToEntity converts the persistence model to the domain entity.
func (m *RefreshTokenModel) ToEntity() *entity.RefreshToken {
	return &entity.RefreshToken{
		ID:        m.ID,
		AccountID: m.AccountID,
		TokenHash: m.TokenHash,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}

// RefreshTokenModelFromEntity converts the domain entity to the persistence model.
func RefreshTokenModelFromEntity(token *entity.RefreshToken) *RefreshTokenModel {
	return &RefreshTokenModel{
		ID:        token.ID,
		AccountID: token.AccountID,
		TokenHash: token.TokenHash,
		ExpiresAt: token.ExpiresAt,
		CreatedAt: token.CreatedAt,
	}
}
