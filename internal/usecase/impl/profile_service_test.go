package impl

import (
	"context"
	"testing"

	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	mockRepo "passport/internal/mocks/repository"
	mockSvc "passport/internal/mocks/service"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// profileServiceFixtures holds all test dependencies for profile service tests.
type profileServiceFixtures struct {
	service     usecase.ProfileUsecase
	txManager   *mockRepo.MockTransactionManager
	accountRepo *mockRepo.MockAccountRepository
	hasher      *mockSvc.MockPasswordHasher
}

func createTestProfileService(t *testing.T) profileServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	accountRepo := mockRepo.NewMockAccountRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)

	svc := NewProfileService(ProfileServiceParams{
		TxManager:   txManager,
		AccountRepo: accountRepo,
		Hasher:      hasher,
		Config:      newTestConfig(0),
		Logger:      newDiscardLogger(),
	})

	return profileServiceFixtures{
		service:     svc,
		txManager:   txManager,
		accountRepo: accountRepo,
		hasher:      hasher,
	}
}

func TestProfileService_GetProfile_Success(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	account := testAccount(entity.RoleUser)

	fx.accountRepo.EXPECT().FindByID(ctx, account.ID).Return(account, nil)

	profile, err := fx.service.GetProfile(ctx, account.ID)

	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, account.Email, profile.Email)
	assert.Equal(t, account.Name, profile.Name)
}

func TestProfileService_GetProfile_NotFound(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	accountID := uuid.New()

	fx.accountRepo.EXPECT().FindByID(ctx, accountID).Return(nil, repository.ErrAccountNotFound)

	profile, err := fx.service.GetProfile(ctx, accountID)

	require.Error(t, err)
	assert.Nil(t, profile)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestProfileService_UpdateProfile_Success(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	account := testAccount(entity.RoleUser)
	input := &usecase.UpdateProfileInput{
		AccountID: account.ID,
		Name:      "Renamed Account",
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)

			mockAccountRepo.EXPECT().FindByID(ctx, account.ID).Return(account, nil)
			mockAccountRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.Account")).
				Run(func(ctx context.Context, updated *entity.Account) {
					assert.Equal(t, "Renamed Account", updated.Name)
				}).
				Return(nil)

			return fn(mockFactory)
		})

	profile, err := fx.service.UpdateProfile(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Renamed Account", profile.Name)
}

func TestProfileService_UpdateProfile_EmptyName(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	input := &usecase.UpdateProfileInput{
		AccountID: uuid.New(),
		Name:      "   ",
	}

	profile, err := fx.service.UpdateProfile(ctx, input)

	require.Error(t, err)
	assert.Nil(t, profile)

	var validationErr *domainerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Violations(), "Name is required")
}

func TestProfileService_ChangePassword_Success(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	account := testAccount(entity.RoleUser)
	input := &usecase.ChangePasswordInput{
		AccountID:       account.ID,
		CurrentPassword: "OldPassword1!",
		NewPassword:     "NewPassword1!",
	}

	fx.hasher.EXPECT().Check(input.CurrentPassword, account.PasswordHash).Return(true)
	fx.hasher.EXPECT().Hash(input.NewPassword).Return("new_hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)
			mockRefreshRepo := mockRepo.NewMockRefreshTokenRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)
			mockFactory.EXPECT().RefreshTokenRepo().Return(mockRefreshRepo)

			mockAccountRepo.EXPECT().FindByID(ctx, account.ID).Return(account, nil)
			mockAccountRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.Account")).
				Run(func(ctx context.Context, updated *entity.Account) {
					assert.Equal(t, "new_hashed_password", updated.PasswordHash)
				}).
				Return(nil)
			mockRefreshRepo.EXPECT().
				DeleteRefreshTokensByAccountID(ctx, account.ID).
				Return(nil)

			return fn(mockFactory)
		})

	err := fx.service.ChangePassword(ctx, input)

	require.NoError(t, err)
}

func TestProfileService_ChangePassword_WeakNewPassword(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	input := &usecase.ChangePasswordInput{
		AccountID:       uuid.New(),
		CurrentPassword: "OldPassword1!",
		NewPassword:     "weak",
	}

	err := fx.service.ChangePassword(ctx, input)

	require.Error(t, err)

	var validationErr *domainerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Violations(), "Password must be at least 8 characters long")
	assert.Contains(t, validationErr.Violations(), "Password must contain at least one number")
}

func TestProfileService_ChangePassword_WrongCurrentPassword(t *testing.T) {
	fx := createTestProfileService(t)

	ctx := context.Background()
	account := testAccount(entity.RoleUser)
	input := &usecase.ChangePasswordInput{
		AccountID:       account.ID,
		CurrentPassword: "WrongPassword1!",
		NewPassword:     "NewPassword1!",
	}

	fx.hasher.EXPECT().Check(input.CurrentPassword, account.PasswordHash).Return(false)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockAccountRepo := mockRepo.NewMockAccountRepository(t)

			mockFactory.EXPECT().AccountRepo().Return(mockAccountRepo)
			mockFactory.EXPECT().RefreshTokenRepo().Return(mockRepo.NewMockRefreshTokenRepository(t))

			mockAccountRepo.EXPECT().FindByID(ctx, account.ID).Return(account, nil)

			return fn(mockFactory)
		})

	err := fx.service.ChangePassword(ctx, input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrCurrentPasswordIncorrect))
}
