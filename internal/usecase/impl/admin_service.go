package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "passport/internal/delivery/context"
	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// adminService implements the AdminUsecase interface.
type adminService struct {
	txManager   repository.TransactionManager
	accountRepo repository.AccountRepository
	logger      *slog.Logger
}

// AdminServiceParams holds dependencies for adminService, injected by Fx.
type AdminServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	Logger      *slog.Logger
}

// NewAdminService is the constructor for adminService.
func NewAdminService(params AdminServiceParams) usecase.AdminUsecase {
	return &adminService{
		txManager:   params.TxManager,
		accountRepo: params.AccountRepo,
		logger:      params.Logger,
	}
}

func (srv *adminService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// requireAdmin loads the actor from the given repository and fails closed:
// any lookup error, including not-found, denies access.
func requireAdmin(ctx context.Context, accountRepo repository.AccountRepository, actorID uuid.UUID) error {
	actor, err := accountRepo.FindByID(ctx, actorID)
	if err != nil {
		return domainerrors.ErrAdminRequired.WrapMessage("failed to verify admin role")
	}
	if !actor.IsAdmin() {
		return domainerrors.ErrAdminRequired.WrapMessage("admin role required")
	}

	return nil
}

// ListAccounts returns every account's public information.
func (srv *adminService) ListAccounts(ctx context.Context, actorID uuid.UUID) ([]*usecase.PublicAccount, error) {
	srv.log(ctx).Debug("Listing accounts", slog.Any("actorID", actorID))

	if err := requireAdmin(ctx, srv.accountRepo, actorID); err != nil {
		return nil, err
	}

	accounts, err := srv.accountRepo.List(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list accounts", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list accounts")
	}

	result := make([]*usecase.PublicAccount, 0, len(accounts))
	for _, account := range accounts {
		result = append(result, usecase.NewPublicAccount(account))
	}

	return result, nil
}

// UpdateAccount applies an administrative update to any account.
func (srv *adminService) UpdateAccount(ctx context.Context, input *usecase.AdminUpdateAccountInput) (*usecase.PublicAccount, error) {
	srv.log(ctx).Info("Admin updating account", slog.Any("actorID", input.ActorID), slog.Any("accountID", input.AccountID))

	if violations := validateAdminUpdate(input); len(violations) > 0 {
		return nil, domainerrors.NewValidationError(violations...)
	}

	var updated *usecase.PublicAccount
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		// Re-check the actor inside the transaction so a concurrent
		// demotion cannot slip through.
		if err := requireAdmin(ctx, accountRepo, input.ActorID); err != nil {
			return err
		}

		account, err := accountRepo.FindByID(ctx, input.AccountID)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrAccountNotFound.WrapMessage("failed to update account")
			}

			return errors.Wrap(err, "failed to find account")
		}

		if input.Name != nil {
			account.Name = strings.TrimSpace(*input.Name)
		}
		if input.Role != nil {
			account.Role = entity.Role(*input.Role)
		}

		if err := accountRepo.Update(ctx, account); err != nil {
			return errors.Wrap(err, "failed to update account")
		}

		updated = usecase.NewPublicAccount(account)

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Admin update failed", slog.Any("accountID", input.AccountID), slog.Any("error", err))

		return nil, err
	}

	return updated, nil
}

// validateAdminUpdate collects every violated rule of an admin update.
func validateAdminUpdate(input *usecase.AdminUpdateAccountInput) []string {
	var violations []string

	if input.Name == nil && input.Role == nil {
		violations = append(violations, "At least one of name or role must be provided")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		violations = append(violations, "Name is required")
	}
	if input.Role != nil && !entity.Role(*input.Role).IsValid() {
		violations = append(violations, "Role must be one of: user, admin")
	}

	return violations
}

// DeleteAccount removes an account and all of its sessions.
func (srv *adminService) DeleteAccount(ctx context.Context, actorID, accountID uuid.UUID) error {
	srv.log(ctx).Info("Admin deleting account", slog.Any("actorID", actorID), slog.Any("accountID", accountID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()
		refreshRepo := repoFactory.RefreshTokenRepo()

		if err := requireAdmin(ctx, accountRepo, actorID); err != nil {
			return err
		}

		// Revoke sessions first so the account cannot act between the
		// two deletes.
		if err := refreshRepo.DeleteRefreshTokensByAccountID(ctx, accountID); err != nil {
			return errors.Wrap(err, "failed to revoke sessions of deleted account")
		}

		if err := accountRepo.Delete(ctx, accountID); err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrAccountNotFound.WrapMessage("failed to delete account")
			}

			return errors.Wrap(err, "failed to delete account")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Admin delete failed", slog.Any("accountID", accountID), slog.Any("error", err))

		return err
	}

	srv.log(ctx).Info("Account deleted", slog.Any("accountID", accountID))

	return nil
}
