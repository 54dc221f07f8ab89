package impl

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type userServiceFixtures struct {
	service          usecase.UserUsecase
	userRepo         *mockUserRepository
	refreshTokenRepo *mockRefreshTokenRepository
	hasher           *mockPasswordHasher
	tokenService     *mockTokenService
}

func createTestUserService(t *testing.T) userServiceFixtures {
	t.Helper()

	userRepo := new(mockUserRepository)
	refreshTokenRepo := new(mockRefreshTokenRepository)
	hasher := new(mockPasswordHasher)
	tokenService := new(mockTokenService)

	txManager := &mockTransactionManager{
		factory: &mockRepositoryFactory{
			userRepo:         userRepo,
			refreshTokenRepo: refreshTokenRepo,
		},
	}

	svc := NewUserService(UserServiceParams{
		TxManager:        txManager,
		UserRepo:         userRepo,
		RefreshTokenRepo: refreshTokenRepo,
		Hasher:           hasher,
		TokenService:     tokenService,
		Logger:           newDiscardLogger(),
	})

	return userServiceFixtures{
		service:          svc,
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		hasher:           hasher,
		tokenService:     tokenService,
	}
}

func TestUserService_Register_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "Password123!",
	}

	fx.hasher.On("Hash", input.Password).Return("hashed_password", nil)
	fx.userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.User).ID = uuid.New()
		}).
		Return(nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, input.Email, output.User.Email)
	assert.Equal(t, "hashed_password", output.User.PasswordHash)
	assert.NotEqual(t, uuid.Nil, output.User.ID)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Test User",
		Email:    "taken@example.com",
		Password: "Password123!",
	}

	fx.hasher.On("Hash", input.Password).Return("hashed_password", nil)
	fx.userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
		Return(domainerrors.ErrUserAlreadyExists)

	_, err := fx.service.Register(ctx, input)

	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_Register_HashFailure(t *testing.T) {
	fx := createTestUserService(t)

	fx.hasher.On("Hash", "pw").Return("", errors.New("cost out of range"))

	_, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Name:     "X",
		Email:    "x@example.com",
		Password: "pw",
	})

	assert.ErrorIs(t, err, domainerrors.ErrPasswordHashFailed)
	fx.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Login_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	user := &entity.User{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: "stored_hash",
	}

	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fx.hasher.On("Verify", "stored_hash", "Password123!").Return(nil)
	fx.tokenService.On("GenerateTokens", user.ID).Return("access", "refresh", nil)
	fx.tokenService.On("RefreshTokenDuration").Return(7 * 24 * time.Hour)
	fx.refreshTokenRepo.On("CreateRefreshToken", ctx, mock.MatchedBy(func(token *entity.RefreshToken) bool {
		return token.UserID == user.ID && token.TokenHash != "refresh" && token.ExpiresAt.After(time.Now())
	})).Return(nil)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    user.Email,
		Password: "Password123!",
	})

	require.NoError(t, err)
	assert.Equal(t, "access", output.AccessToken)
	assert.Equal(t, "refresh", output.RefreshToken)
	fx.refreshTokenRepo.AssertExpectations(t)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	fx.userRepo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, repository.ErrUserNotFound)

	_, err := fx.service.Login(ctx, &usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	// Unknown account and wrong password are indistinguishable to the caller.
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "test@example.com", PasswordHash: "stored_hash"}

	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fx.hasher.On("Verify", "stored_hash", "wrong").Return(errors.New("mismatch"))

	_, err := fx.service.Login(ctx, &usecase.LoginInput{Email: user.Email, Password: "wrong"})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	fx.tokenService.AssertNotCalled(t, "GenerateTokens", mock.Anything)
}

func TestUserService_RefreshToken_RotatesSession(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	userID := uuid.New()
	oldToken := &entity.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: hashToken("old_refresh"),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	fx.tokenService.On("ValidateRefreshToken", "old_refresh").Return(userID, nil)
	fx.refreshTokenRepo.On("FindRefreshTokenByHash", ctx, hashToken("old_refresh")).Return(oldToken, nil)
	fx.tokenService.On("GenerateTokens", userID).Return("new_access", "new_refresh", nil)
	fx.tokenService.On("RefreshTokenDuration").Return(7 * 24 * time.Hour)
	fx.refreshTokenRepo.On("CreateRefreshToken", ctx, mock.MatchedBy(func(token *entity.RefreshToken) bool {
		return token.TokenHash == hashToken("new_refresh")
	})).Return(nil)
	fx.refreshTokenRepo.On("DeleteRefreshToken", ctx, oldToken.ID).Return(nil)

	output, err := fx.service.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: "old_refresh"})

	require.NoError(t, err)
	assert.Equal(t, "new_access", output.AccessToken)
	assert.Equal(t, "new_refresh", output.RefreshToken)
	fx.refreshTokenRepo.AssertExpectations(t)
}

func TestUserService_RefreshToken_InvalidToken(t *testing.T) {
	fx := createTestUserService(t)

	fx.tokenService.On("ValidateRefreshToken", "garbage").Return(uuid.Nil, errors.New("bad token"))

	_, err := fx.service.RefreshToken(context.Background(), &usecase.RefreshTokenInput{RefreshToken: "garbage"})

	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestUserService_RefreshToken_SessionMissing(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	fx.tokenService.On("ValidateRefreshToken", "revoked").Return(userID, nil)
	fx.refreshTokenRepo.On("FindRefreshTokenByHash", ctx, hashToken("revoked")).
		Return(nil, repository.ErrRefreshTokenNotFound)

	_, err := fx.service.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: "revoked"})

	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestUserService_RefreshToken_SubjectMismatch(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	stolen := &entity.RefreshToken{
		ID:        uuid.New(),
		UserID:    uuid.New(), // belongs to someone else
		TokenHash: hashToken("stolen"),
	}

	fx.tokenService.On("ValidateRefreshToken", "stolen").Return(uuid.New(), nil)
	fx.refreshTokenRepo.On("FindRefreshTokenByHash", ctx, hashToken("stolen")).Return(stolen, nil)

	_, err := fx.service.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: "stolen"})

	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
	fx.tokenService.AssertNotCalled(t, "GenerateTokens", mock.Anything)
}

func TestUserService_GetProfile(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Email: "me@example.com"}

	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	profile, err := fx.service.GetProfile(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, user.Email, profile.Email)
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()
	userID := uuid.New()

	fx.userRepo.On("FindByID", ctx, userID).Return(nil, repository.ErrUserNotFound)

	_, err := fx.service.GetProfile(ctx, userID)

	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}
