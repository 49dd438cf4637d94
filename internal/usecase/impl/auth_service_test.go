package impl

import (
	"context"
	"testing"
	"time"

	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/domain/service"
	mockRepo "passport/internal/mocks/repository"
	mockSvc "passport/internal/mocks/service"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service          usecase.AuthUsecase
	txManager        *mockRepo.MockTransactionManager
	accountRepo      *mockRepo.MockAccountRepository
	refreshTokenRepo *mockRepo.MockRefreshTokenRepository
	hasher           *mockSvc.MockPasswordHasher
	tokenService     *mockSvc.MockTokenService
}

func createTestAuthService(t *testing.T, maxActiveSessions int) authServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	accountRepo := mockRepo.NewMockAccountRepository(t)
	refreshTokenRepo := mockRepo.NewMockRefreshTokenRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)

	svc := NewAuthService(AuthServiceParams{
		TxManager:        txManager,
		AccountRepo:      accountRepo,
		RefreshTokenRepo: refreshTokenRepo,
		Hasher:           hasher,
		TokenService:     tokenService,
		Config:           newTestConfig(maxActiveSessions),
		Logger:           newDiscardLogger(),
	})

	return authServiceFixtures{
		service:          svc,
		txManager:        txManager,
		accountRepo:      accountRepo,
		refreshTokenRepo: refreshTokenRepo,
		hasher:           hasher,
		tokenService:     tokenService,
	}
}

func testAccount(role entity.Role) *entity.Account {
	return &entity.Account{
		ID:           uuid.New(),
		Name:         "Test Account",
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	fx := createTestAuthService(t, 0)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Test Account",
		Email:    "test@example.com",
		Password: "Password123!",
	}

	fx.accountRepo.EXPECT().ExistsByEmail(ctx, input.Email).Return(false, nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)
	fx.accountRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Account")).
		Run(func(ctx context.Context, account *entity.Account) {
			account.ID = uuid.New()
		}).
		Return(nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, input.Email, output.Account.Email)
	assert.Equal(t, entity.RoleUser.String(), output.Account.Role)
	assert.NotEqual(t, uuid.Nil, output.Account.ID)
}

func TestAuthService_Register_ReportsAllViolations(t *testing.T) {
	fx := createTestAuthService(t, 0)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "",
		Email:    "not-an-email",
		Password: "short",
	}

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)

	var validationErr *domainerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Violations(), "Name is required")
	assert.Contains(t, validationErr.Violations(), "Email format is invalid")
	assert.Contains(t, validationErr.Violations(), "Password must be at least 8 characters long")
	assert.Contains(t, validationErr.Violations(), "Password must contain at least one uppercase letter")
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAuthService(t, 0)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Test Account",
		Email:    "taken@example.com",
		Password: "Password123!",
	}

	fx.accountRepo.EXPECT().ExistsByEmail(ctx, input.Email).Return(true, nil)

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailAlreadyRegistered))
}

func TestAuthService_Register_DuplicateEmailRace(t *testing.T) {
	fx := createTestAuthService(t, 0)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Test Account",
		Email:    "taken@example.com",
		Password: "Password123!",
	}

	fx.accountRepo.EXPECT().ExistsByEmail(ctx, input.Email).Return(false, nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)
	fx.accountRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Account")).
		Return(repository.ErrDuplicateEmail)

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrEmailAlreadyRegistered))
}

func TestAuthService_Login_Success(t *testing.T) {
	fx := createTestAuthService(t, 0)

	ctx := context.Background()
	account := testAccount(entity.RoleUser)
	input := &usecase.LoginInput{
		Email:    account.Email,
		Password: "Password123!",
	}

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(account, nil)
	fx.hasher.EXPECT().Check(input.Password, account.PasswordHash).Return(true)
	fx.tokenService.EXPECT().
		GenerateTokens(ctx, account.ID, []string{"user"}).
		Return("access_token", "refresh_token", nil)
	fx.tokenService.EXPECT().HashToken("refresh_token").Return("refresh_token_hash")
	fx.tokenService.EXPECT().GetRefreshTokenDuration().Return(time.Hour)
	fx.refreshTokenRepo.EXPECT().
		CreateRefreshToken(ctx, mock.AnythingOfType("*entity.RefreshToken")).
		Run(func(ctx context.Context, token *entity.RefreshToken) {
			assert.Equal(t, account.ID, token.AccountID)
			assert.Equal(t, "refresh_token_hash", token.TokenHash)
		}).
		Return(nil)

	output, err := fx.service.Login(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "access_token", output.AccessToken)
	assert.Equal(t, "refresh_token", output.RefreshToken)
	assert.Equal(t, account.Email, output.Account.Email)
}

func TestAuthService_Login_MissingCredentials(t *testing.T) {
	fx := createTestAuthService(t, 0)

	ctx := context.Background()

	output, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "", Password: ""})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrCredentialsRequired))
}

func TestAuthService_Login_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	ctx := context.Background()
	account := testAccount(entity.RoleUser)

	unknownFx := createTestAuthService(t, 0)
	unknownFx.accountRepo.EXPECT().
		FindByEmail(ctx, "unknown@example.com").
		Return(nil, repository.ErrAccountNotFound)

	_, unknownErr := unknownFx.service.Login(ctx, &usecase.LoginInput{
		Email:    "unknown@example.com",
		Password: "Password123!",
	})

	wrongFx := createTestAuthService(t, 0)
	wrongFx.accountRepo.EXPECT().FindByEmail(ctx, account.Email).Return(account, nil)
	wrongFx.hasher.EXPECT().Check("WrongPassword1!", account.PasswordHash).Return(false)

	_, wrongErr := wrongFx.service.Login(ctx, &usecase.LoginInput{
		Email:    account.Email,
		Password: "WrongPassword1!",
	})

	// Both failure modes must be indistinguishable to the caller.
	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.True(t, errors.Is(unknownErr, domainerrors.ErrInvalidCredentials))
	assert.True(t, errors.Is(wrongErr, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Login_SessionLimitExceeded(t *testing.T) {
	fx := createTestAuthService(t, 2)

	ctx := context.Background()
	account := testAccount(entity.RoleUser)
	input := &usecase.LoginInput{
		Email:    account.Email,
		Password: "Password123!",
	}

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(account, nil)
	fx.hasher.EXPECT().Check(input.Password, account.PasswordHash).Return(true)
	fx.tokenService.EXPECT().
		GenerateTokens(ctx, account.ID, []string{"user"}).
		Return("access_token", "refresh_token", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)
			mockRefreshRepo := mockRepo.NewMockRefreshTokenRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)
			mockFactory.EXPECT().RefreshTokenRepo().Return(mockRefreshRepo)

			mockAccountRepo.EXPECT().AcquireSessionLock(ctx, account.ID).Return(nil)
			mockRefreshRepo.EXPECT().
				CountActiveSessionsByAccountID(ctx, account.ID).
				Return(int64(2), nil)

			return fn(mockFactory)
		})

	output, err := fx.service.Login(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrSessionLimitExceeded))
}

func TestAuthService_Login_SessionLimitNotReached(t *testing.T) {
	fx := createTestAuthService(t, 5)

	ctx := context.Background()
	account := testAccount(entity.RoleUser)
	input := &usecase.LoginInput{
		Email:    account.Email,
		Password: "Password123!",
	}

	fx.accountRepo.EXPECT().FindByEmail(ctx, input.Email).Return(account, nil)
	fx.hasher.EXPECT().Check(input.Password, account.PasswordHash).Return(true)
	fx.tokenService.EXPECT().
		GenerateTokens(ctx, account.ID, []string{"user"}).
		Return("access_token", "refresh_token", nil)
	fx.tokenService.EXPECT().HashToken("refresh_token").Return("refresh_token_hash")
	fx.tokenService.EXPECT().GetRefreshTokenDuration().Return(time.Hour)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)
			mockRefreshRepo := mockRepo.NewMockRefreshTokenRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)
			mockFactory.EXPECT().RefreshTokenRepo().Return(mockRefreshRepo)

			mockAccountRepo.EXPECT().AcquireSessionLock(ctx, account.ID).Return(nil)
			mockRefreshRepo.EXPECT().
				CountActiveSessionsByAccountID(ctx, account.ID).
				Return(int64(1), nil)
			mockRefreshRepo.EXPECT().
				CreateRefreshToken(ctx, mock.AnythingOfType("*entity.RefreshToken")).
				Return(nil)

			return fn(mockFactory)
		})

	output, err := fx.service.Login(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "access_token", output.AccessToken)
}

func TestAuthService_RefreshToken_Success(t *testing.T) {
	fx := createTestAuthService(t, 0)

	ctx := context.Background()
	account := testAccount(entity.RoleAdmin)
	input := &usecase.RefreshTokenInput{RefreshToken: "refresh_token"}

	fx.tokenService.EXPECT().
		ValidateToken(ctx, input.RefreshToken).
		Return(&service.Claims{
			AccountID: account.ID,
			Type:      service.TokenTypeRefresh,
		}, nil)
	fx.tokenService.EXPECT().HashToken(input.RefreshToken).Return("refresh_token_hash")
	fx.refreshTokenRepo.EXPECT().
		FindRefreshTokenByHash(ctx, "refresh_token_hash").
		Return(&entity.RefreshToken{
			ID:        uuid.New(),
			AccountID: account.ID,
			TokenHash: "refresh_token_hash",
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil)
	fx.accountRepo.EXPECT().FindByID(ctx, account.ID).Return(account, nil)
	fx.tokenService.EXPECT().
		GenerateTokens(ctx, account.ID, []string{"admin"}).
		Return("new_access_token", "unused_refresh", nil)

	output, err := fx.service.RefreshToken(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, "new_access_token", output.AccessToken)
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	fx := createTestAuthService(t, 0)

	ctx := context.Background()
	input := &usecase.RefreshTokenInput{RefreshToken: "access_token"}

	fx.tokenService.EXPECT().
		ValidateToken(ctx, input.RefreshToken).
		Return(&service.Claims{
			AccountID: uuid.New(),
			Type:      service.TokenTypeAccess,
		}, nil)

	output, err := fx.service.RefreshToken(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestAuthService_RefreshToken_RevokedSession(t *testing.T) {
	fx := createTestAuthService(t, 0)

	ctx := context.Background()
	input := &usecase.RefreshTokenInput{RefreshToken: "refresh_token"}

	fx.tokenService.EXPECT().
		ValidateToken(ctx, input.RefreshToken).
		Return(&service.Claims{
			AccountID: uuid.New(),
			Type:      service.TokenTypeRefresh,
		}, nil)
	fx.tokenService.EXPECT().HashToken(input.RefreshToken).Return("refresh_token_hash")
	fx.refreshTokenRepo.EXPECT().
		FindRefreshTokenByHash(ctx, "refresh_token_hash").
		Return(nil, repository.ErrRefreshTokenNotFound)

	output, err := fx.service.RefreshToken(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestAuthService_Logout_Success(t *testing.T) {
	fx := createTestAuthService(t, 0)

	ctx := context.Background()
	input := &usecase.LogoutInput{RefreshToken: "refresh_token"}

	fx.tokenService.EXPECT().
		ValidateToken(ctx, input.RefreshToken).
		Return(&service.Claims{Type: service.TokenTypeRefresh}, nil)
	fx.tokenService.EXPECT().HashToken(input.RefreshToken).Return("refresh_token_hash")
	fx.refreshTokenRepo.EXPECT().
		DeleteRefreshTokenByHash(ctx, "refresh_token_hash").
		Return(nil)

	err := fx.service.Logout(ctx, input)

	require.NoError(t, err)
}

func TestAuthService_Logout_UnknownSessionIsIdempotent(t *testing.T) {
	fx := createTestAuthService(t, 0)

	ctx := context.Background()
	input := &usecase.LogoutInput{RefreshToken: "stale_token"}

	fx.tokenService.EXPECT().
		ValidateToken(ctx, input.RefreshToken).
		Return(nil, errors.New("token is expired"))
	fx.tokenService.EXPECT().HashToken(input.RefreshToken).Return("stale_token_hash")
	fx.refreshTokenRepo.EXPECT().
		DeleteRefreshTokenByHash(ctx, "stale_token_hash").
		Return(repository.ErrRefreshTokenNotFound)

	err := fx.service.Logout(ctx, input)

	require.NoError(t, err)
}
