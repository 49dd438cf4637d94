package postgres

import (
	"context"
	"time"

	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// refreshTokenRepository implements the repository.RefreshTokenRepository interface.
type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository is the constructor for refreshTokenRepository.
func NewRefreshTokenRepository(db *gorm.DB) repository.RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// CreateRefreshToken persists a new refresh token, representing an active session.
func (repo *refreshTokenRepository) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.CreatedAt = time.Now()

	tokenM := model.RefreshTokenModelFromEntity(token)
	if err := repo.db.WithContext(ctx).Create(tokenM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrRefreshTokenInvalid.WrapMessage("refresh token already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrAccountNotFound.WrapMessage("invalid account reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create refresh token")
	}

	return nil
}

// FindRefreshTokenByHash retrieves a refresh token record by its stored hash.
func (repo *refreshTokenRepository) FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	var tokenM model.RefreshTokenModel
	err := repo.db.WithContext(ctx).First(&tokenM, "token_hash = ?", tokenHash).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRefreshTokenNotFound
		}

		return nil, errors.WithStack(err)
	}

	token := tokenM.ToEntity()

	// An expired record is as good as absent, but the caller may want to
	// distinguish the two for logging.
	if token.ExpiresAt.Before(time.Now()) {
		return nil, repository.ErrRefreshTokenExpired
	}

	return token, nil
}

// DeleteRefreshTokenByHash deletes a refresh token by its hash, ending that session.
func (repo *refreshTokenRepository) DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error {
	result := repo.db.WithContext(ctx).
		Delete(&model.RefreshTokenModel{}, "token_hash = ?", tokenHash)
	if result.Error != nil {
		return errors.WithStack(result.Error)
	}

	// If no rows were affected, it means the token was not found.
	if result.RowsAffected == 0 {
		return repository.ErrRefreshTokenNotFound
	}

	return nil
}

// DeleteRefreshTokensByAccountID removes every refresh token of an account.
func (repo *refreshTokenRepository) DeleteRefreshTokensByAccountID(ctx context.Context, accountID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Delete(&model.RefreshTokenModel{}, "account_id = ?", accountID).Error
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// DeleteExpiredRefreshTokens removes all refresh tokens expired before now.
func (repo *refreshTokenRepository) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).
		Delete(&model.RefreshTokenModel{}, "expires_at < ?", now)
	if result.Error != nil {
		return 0, errors.WithStack(result.Error)
	}

	return result.RowsAffected, nil
}

// CountActiveSessionsByAccountID returns the number of non-expired sessions of an account.
func (repo *refreshTokenRepository) CountActiveSessionsByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("account_id = ? AND expires_at > ?", accountID, time.Now()).
		Count(&count).Error
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}
