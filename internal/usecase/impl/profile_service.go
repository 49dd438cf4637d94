package impl

import (
	"context"
	"log/slog"

	"passport/config"
	deliverycontext "passport/internal/delivery/context"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/domain/service"
	"passport/internal/domain/validation"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	txManager      repository.TransactionManager
	accountRepo    repository.AccountRepository
	hasher         service.PasswordHasher
	passwordPolicy validation.Policy
	logger         *slog.Logger
}

// ProfileServiceParams holds dependencies for profileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	Config      *config.Config
	Logger      *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	policy := validation.DefaultPolicy()
	if params.Config != nil && params.Config.PasswordPolicy.MinLength > 0 {
		policy = params.Config.PasswordPolicy
	}

	return &profileService{
		txManager:      params.TxManager,
		accountRepo:    params.AccountRepo,
		hasher:         params.Hasher,
		passwordPolicy: policy,
		logger:         params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile retrieves an account's own public information.
func (srv *profileService) GetProfile(ctx context.Context, accountID uuid.UUID) (*usecase.PublicAccount, error) {
	srv.log(ctx).Debug("Getting profile", slog.Any("accountID", accountID))

	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound.WrapMessage("failed to get profile")
		}

		return nil, errors.Wrap(err, "failed to get profile")
	}

	return usecase.NewPublicAccount(account), nil
}

// UpdateProfile updates the fields an account may change about itself.
func (srv *profileService) UpdateProfile(ctx context.Context, input *usecase.UpdateProfileInput) (*usecase.PublicAccount, error) {
	srv.log(ctx).Info("Updating profile", slog.Any("accountID", input.AccountID))

	if violations := validation.ProfileName(input.Name); len(violations) > 0 {
		return nil, domainerrors.NewValidationError(violations...)
	}

	var updated *usecase.PublicAccount
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		account, err := accountRepo.FindByID(ctx, input.AccountID)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrAccountNotFound.WrapMessage("failed to update profile")
			}

			return errors.Wrap(err, "failed to find account")
		}

		account.Name = input.Name

		if err := accountRepo.Update(ctx, account); err != nil {
			return errors.Wrap(err, "failed to update account")
		}

		updated = usecase.NewPublicAccount(account)

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update profile", slog.Any("accountID", input.AccountID), slog.Any("error", err))

		return nil, err
	}

	return updated, nil
}

// ChangePassword verifies the current password before setting a new one, and
// revokes every session of the account afterwards.
func (srv *profileService) ChangePassword(ctx context.Context, input *usecase.ChangePasswordInput) error {
	srv.log(ctx).Info("Changing password", slog.Any("accountID", input.AccountID))

	// The new password must satisfy the same policy as registration.
	if violations := validation.PasswordStrength(input.NewPassword, srv.passwordPolicy); len(violations) > 0 {
		return domainerrors.NewValidationError(violations...)
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()
		refreshRepo := repoFactory.RefreshTokenRepo()

		account, err := accountRepo.FindByID(ctx, input.AccountID)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrAccountNotFound.WrapMessage("failed to change password")
			}

			return errors.Wrap(err, "failed to find account")
		}

		if !srv.hasher.Check(input.CurrentPassword, account.PasswordHash) {
			return domainerrors.ErrCurrentPasswordIncorrect.WrapMessage("failed to change password")
		}

		newHash, err := srv.hasher.Hash(input.NewPassword)
		if err != nil {
			return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash new password")
		}

		account.PasswordHash = newHash
		if err := accountRepo.Update(ctx, account); err != nil {
			return errors.Wrap(err, "failed to update account password")
		}

		// Stolen sessions must not survive a password change.
		if err := refreshRepo.DeleteRefreshTokensByAccountID(ctx, input.AccountID); err != nil {
			return errors.Wrap(err, "failed to revoke sessions after password change")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to change password", slog.Any("accountID", input.AccountID), slog.Any("error", err))

		return err
	}

	srv.log(ctx).Info("Password changed", slog.Any("accountID", input.AccountID))

	return nil
}
