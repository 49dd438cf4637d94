// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"passport/config"
	deliverycontext "passport/internal/delivery/context"
	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/domain/service"
	"passport/internal/domain/validation"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager         repository.TransactionManager
	accountRepo       repository.AccountRepository
	refreshTokenRepo  repository.RefreshTokenRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	passwordPolicy    validation.Policy
	maxActiveSessions int
	logger            *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	AccountRepo      repository.AccountRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Config           *config.Config
	Logger           *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	policy := validation.DefaultPolicy()
	maxActiveSessions := 0
	if params.Config != nil {
		if params.Config.PasswordPolicy.MinLength > 0 {
			policy = params.Config.PasswordPolicy
		}
		maxActiveSessions = params.Config.Auth.MaxActiveSessions
	}

	return &authService{
		txManager:         params.TxManager,
		accountRepo:       params.AccountRepo,
		refreshTokenRepo:  params.RefreshTokenRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		passwordPolicy:    policy,
		maxActiveSessions: maxActiveSessions,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete account registration process.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	// Collect every violated rule before reporting, so the caller can fix
	// them all in one round trip.
	if violations := validation.Registration(input.Name, input.Email, input.Password, srv.passwordPolicy); len(violations) > 0 {
		srv.log(ctx).Warn("Registration validation failed", slog.String("email", input.Email), slog.Int("violations", len(violations)))

		return nil, domainerrors.NewValidationError(violations...)
	}

	// Fast-path duplicate check for a friendly error. The unique index on
	// email remains the real guard against races.
	exists, err := srv.accountRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		srv.log(ctx).Error("Failed to check email existence", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to check email existence during registration")
	}
	if exists {
		return nil, domainerrors.ErrEmailAlreadyRegistered.WrapMessage("registration failed")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password during registration")
	}

	newAccount := &entity.Account{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         entity.RoleUser,
	}

	if err := srv.accountRepo.Create(ctx, newAccount); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Lost the race against a concurrent registration.
			return nil, domainerrors.ErrEmailAlreadyRegistered.WrapMessage("registration failed")
		}
		srv.log(ctx).Error("Failed to create account", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create account during registration")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("accountID", newAccount.ID))

	// Return the created record directly instead of re-reading it, so a
	// concurrent delete cannot turn a successful insert into a not-found.
	return &usecase.RegisterOutput{Account: usecase.NewPublicAccount(newAccount)}, nil
}

// Login orchestrates the account login process.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	if input.Email == "" || input.Password == "" {
		return nil, domainerrors.ErrCredentialsRequired.WrapMessage("login failed")
	}

	account, err := srv.accountRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

		if errors.Is(err, repository.ErrAccountNotFound) {
			// Same error as a wrong password so callers cannot probe for
			// registered emails.
			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to find account during login")
	}

	// Check password outside any transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	accessToken, refreshTokenString, err := srv.tokenService.GenerateTokens(ctx, account.ID, entity.Roles{account.Role}.ToStrings())
	if err != nil {
		srv.log(ctx).Error("Failed to generate tokens", slog.Any("accountID", account.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	if err := srv.persistLoginRefreshToken(ctx, account.ID, refreshTokenString); err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Logged in successfully", slog.Any("accountID", account.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		Account:      usecase.NewPublicAccount(account),
	}, nil
}

func (srv *authService) persistLoginRefreshToken(ctx context.Context, accountID uuid.UUID, refreshTokenString string) error {
	if srv.maxActiveSessions > 0 {
		// When the session limit is enabled, keep lock/count/insert in one
		// short transaction.
		if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			return srv.storeRefreshToken(ctx, repoFactory, accountID, refreshTokenString)
		}); err != nil {
			return errors.Wrap(err, "failed to execute login session transaction")
		}

		return nil
	}

	// No session limit: direct insert avoids unnecessary transaction overhead.
	if err := srv.storeRefreshTokenWithRepo(ctx, srv.refreshTokenRepo, accountID, refreshTokenString); err != nil {
		return errors.Wrap(err, "failed to create refresh token during login")
	}

	return nil
}

func (srv *authService) storeRefreshToken(ctx context.Context, repoFactory repository.RepositoryFactory, accountID uuid.UUID, refreshTokenString string) error {
	accountRepo := repoFactory.AccountRepo()
	refreshRepo := repoFactory.RefreshTokenRepo()

	if srv.maxActiveSessions > 0 {
		if err := accountRepo.AcquireSessionLock(ctx, accountID); err != nil {
			return errors.Wrap(err, "failed to lock account row for session limit check")
		}

		activeSessions, err := refreshRepo.CountActiveSessionsByAccountID(ctx, accountID)
		if err != nil {
			return errors.Wrap(err, "failed to count active sessions")
		}
		if activeSessions >= int64(srv.maxActiveSessions) {
			return domainerrors.ErrSessionLimitExceeded.WrapMessage("active session limit exceeded")
		}
	}

	return srv.storeRefreshTokenWithRepo(ctx, refreshRepo, accountID, refreshTokenString)
}

func (srv *authService) storeRefreshTokenWithRepo(ctx context.Context, refreshRepo repository.RefreshTokenRepository, accountID uuid.UUID, refreshTokenString string) error {
	newRefreshToken := &entity.RefreshToken{
		AccountID: accountID,
		TokenHash: srv.tokenService.HashToken(refreshTokenString),
		ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
	}

	if err := refreshRepo.CreateRefreshToken(ctx, newRefreshToken); err != nil {
		return errors.Wrap(err, "failed to store refresh token")
	}

	return nil
}

// RefreshToken issues a new access token from a valid refresh token.
// The refresh token itself remains unchanged.
func (srv *authService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	srv.log(ctx).Info("Attempting to refresh access token")

	claims, err := srv.tokenService.ValidateToken(ctx, input.RefreshToken)
	if err != nil {
		return nil, domainerrors.ErrRefreshTokenInvalid.WrapMessage("invalid refresh token")
	}
	if claims.Type != service.TokenTypeRefresh {
		// An access token must never be redeemable as a refresh token.
		return nil, domainerrors.ErrRefreshTokenInvalid.WrapMessage("token is not a refresh token")
	}

	// Verify the session still exists in the database; logout and admin
	// revocation both remove the record.
	tokenHash := srv.tokenService.HashToken(input.RefreshToken)
	if _, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, tokenHash); err != nil {
		srv.log(ctx).Warn("Refresh token not found or expired", slog.Any("error", err))

		return nil, domainerrors.ErrRefreshTokenInvalid.WrapMessage("refresh token not found or expired")
	}

	// Roles come from the store, not the old token, so demotions take
	// effect on the next refresh.
	account, err := srv.accountRepo.FindByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid.WrapMessage("account no longer exists")
		}

		return nil, errors.Wrap(err, "failed to find account during token refresh")
	}

	newAccessToken, _, err := srv.tokenService.GenerateTokens(ctx, account.ID, entity.Roles{account.Role}.ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate new access token")
	}

	return &usecase.RefreshTokenOutput{AccessToken: newAccessToken}, nil
}

// Logout invalidates a session by deleting its refresh token.
func (srv *authService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	srv.log(ctx).Info("Attempting to log out")

	if _, err := srv.tokenService.ValidateToken(ctx, input.RefreshToken); err != nil {
		// Even if the token is invalid, proceed to delete it from the database.
		srv.log(ctx).Warn("Logout with invalid token", slog.Any("error", err))
	}

	tokenHash := srv.tokenService.HashToken(input.RefreshToken)
	if err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, tokenHash); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			// Logging out an already-ended session is not an error.
			srv.log(ctx).Debug("Logout for unknown session")

			return nil
		}
		srv.log(ctx).Error("Failed to delete refresh token", slog.Any("error", err))

		return errors.Wrap(err, "failed to delete refresh token")
	}
	srv.log(ctx).Info("Successfully logged out")

	return nil
}
