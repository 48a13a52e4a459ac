package impl

import (
	"context"
	"sync"
	"testing"

	"gatehouse/internal/domain/entity"
	domainerrors "gatehouse/internal/domain/errors"
	"gatehouse/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authServiceFixtures struct {
	service      usecase.AuthUsecase
	userRepo     *fakeUserRepository
	tokenService *fakeTokenService
}

func createTestAuthService() authServiceFixtures {
	userRepo := newFakeUserRepository()
	tokenService := newFakeTokenService()

	service := NewAuthService(AuthServiceParams{
		UserRepo:     userRepo,
		Hasher:       fakePasswordHasher{},
		TokenService: tokenService,
		Logger:       newDiscardLogger(),
	})

	return authServiceFixtures{
		service:      service,
		userRepo:     userRepo,
		tokenService: tokenService,
	}
}

func seedUser(repo *fakeUserRepository, email, password string) *entity.User {
	user := &entity.User{
		Email:    email,
		Name:     "Seeded User",
		Role:     entity.RoleCustomer,
		IsActive: true,
	}
	if password != "" {
		user.PasswordHash = "hashed:" + password
	}

	return repo.add(user)
}

func TestAuthService_Register_Success(t *testing.T) {
	fx := createTestAuthService()
	ctx := context.Background()

	output, err := fx.service.Register(ctx, usecase.RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "Password123!",
	})

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEmpty(t, output.RefreshToken)
	require.NotNil(t, output.User)
	assert.Equal(t, "test@example.com", output.User.Email)
	assert.Equal(t, entity.RoleCustomer, output.User.Role)

	stored := fx.userRepo.get(output.User.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "hashed:Password123!", stored.PasswordHash)
	assert.Equal(t, fx.tokenService.HashToken(output.RefreshToken), stored.RefreshTokenHash)
	assert.True(t, stored.IsActive)
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	fx := createTestAuthService()
	ctx := context.Background()

	output, err := fx.service.Register(ctx, usecase.RegisterInput{
		Name:     "Test User",
		Email:    "  Mixed.Case@Example.COM ",
		Password: "Password123!",
	})

	require.NoError(t, err)
	assert.Equal(t, "mixed.case@example.com", output.User.Email)

	// Login with a differently cased address reaches the same account.
	_, err = fx.service.Login(ctx, usecase.LoginInput{
		Email:    "MIXED.CASE@example.com",
		Password: "Password123!",
	})
	require.NoError(t, err)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAuthService()
	ctx := context.Background()
	seedUser(fx.userRepo, "taken@example.com", "Password123!")

	output, err := fx.service.Register(ctx, usecase.RegisterInput{
		Name:     "Another",
		Email:    "taken@example.com",
		Password: "Other123!",
	})

	require.ErrorIs(t, err, domainerrors.ErrEmailAlreadyRegistered)
	assert.Nil(t, output)
}

func TestAuthService_Login_Success(t *testing.T) {
	fx := createTestAuthService()
	ctx := context.Background()
	user := seedUser(fx.userRepo, "login@example.com", "Password123!")

	output, err := fx.service.Login(ctx, usecase.LoginInput{
		Email:    "login@example.com",
		Password: "Password123!",
	})

	require.NoError(t, err)
	assert.Equal(t, user.ID, output.User.ID)
	assert.NotEmpty(t, output.AccessToken)

	stored := fx.userRepo.get(user.ID)
	assert.Equal(t, fx.tokenService.HashToken(output.RefreshToken), stored.RefreshTokenHash)
}

func TestAuthService_Login_InvalidCredentialsIndistinguishable(t *testing.T) {
	fx := createTestAuthService()
	ctx := context.Background()
	seedUser(fx.userRepo, "known@example.com", "Password123!")

	_, unknownEmailErr := fx.service.Login(ctx, usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "Password123!",
	})
	_, wrongPasswordErr := fx.service.Login(ctx, usecase.LoginInput{
		Email:    "known@example.com",
		Password: "wrong",
	})

	require.ErrorIs(t, unknownEmailErr, domainerrors.ErrInvalidCredentials)
	require.ErrorIs(t, wrongPasswordErr, domainerrors.ErrInvalidCredentials)

	// An attacker comparing responses must not learn which emails exist.
	assert.Equal(t, unknownEmailErr.Error(), wrongPasswordErr.Error())
}

func TestAuthService_Login_SocialOnlyAccount(t *testing.T) {
	fx := createTestAuthService()
	ctx := context.Background()

	fx.userRepo.add(&entity.User{
		Email:    "social@example.com",
		Role:     entity.RoleCustomer,
		GoogleID: "google-sub-1",
		IsActive: true,
	})

	_, err := fx.service.Login(ctx, usecase.LoginInput{
		Email:    "social@example.com",
		Password: "anything",
	})

	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Login_DeletedAccount(t *testing.T) {
	fx := createTestAuthService()
	ctx := context.Background()

	fx.userRepo.add(&entity.User{
		Email:        "deleted@example.com",
		PasswordHash: "hashed:Password123!",
		Role:         entity.RoleCustomer,
		IsActive:     true,
		IsDeleted:    true,
	})

	_, err := fx.service.Login(ctx, usecase.LoginInput{
		Email:    "deleted@example.com",
		Password: "Password123!",
	})

	require.ErrorIs(t, err, domainerrors.ErrAccountDeleted)
}

func TestAuthService_Login_DeactivatedAccount(t *testing.T) {
	fx := createTestAuthService()
	ctx := context.Background()

	fx.userRepo.add(&entity.User{
		Email:        "inactive@example.com",
		PasswordHash: "hashed:Password123!",
		Role:         entity.RoleCustomer,
		IsActive:     false,
	})

	_, err := fx.service.Login(ctx, usecase.LoginInput{
		Email:    "inactive@example.com",
		Password: "Password123!",
	})

	require.ErrorIs(t, err, domainerrors.ErrAccountDeactivated)
}

func TestAuthService_Login_ReplacesExistingSession(t *testing.T) {
	fx := createTestAuthService()
	ctx := context.Background()
	seedUser(fx.userRepo, "single@example.com", "Password123!")

	first, err := fx.service.Login(ctx, usecase.LoginInput{Email: "single@example.com", Password: "Password123!"})
	require.NoError(t, err)

	second, err := fx.service.Login(ctx, usecase.LoginInput{Email: "single@example.com", Password: "Password123!"})
	require.NoError(t, err)

	// The earlier session's refresh token no longer matches the stored digest.
	_, err = fx.service.Refresh(ctx, usecase.RefreshInput{Token: first.RefreshToken})
	require.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	_, err = fx.service.Refresh(ctx, usecase.RefreshInput{Token: second.RefreshToken})
	require.NoError(t, err)
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	fx := createTestAuthService()
	ctx := context.Background()
	seedUser(fx.userRepo, "rotate@example.com", "Password123!")

	login, err := fx.service.Login(ctx, usecase.LoginInput{Email: "rotate@example.com", Password: "Password123!"})
	require.NoError(t, err)

	rotated, err := fx.service.Refresh(ctx, usecase.RefreshInput{Token: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)

	// A refresh token is single-use: replaying it after rotation fails.
	_, err = fx.service.Refresh(ctx, usecase.RefreshInput{Token: login.RefreshToken})
	require.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	// The rotated token works exactly once as well.
	_, err = fx.service.Refresh(ctx, usecase.RefreshInput{Token: rotated.RefreshToken})
	require.NoError(t, err)
}

// Two racing refreshes of the same token resolve last-write-wins: both may
// pass validation before either rotation lands, but only the rotation whose
// hash ends up on the user row stays usable.
func TestAuthService_Refresh_ConcurrentLastWriteWins(t *testing.T) {
	fx := createTestAuthService()
	ctx := context.Background()
	user := seedUser(fx.userRepo, "race@example.com", "Password123!")

	login, err := fx.service.Login(ctx, usecase.LoginInput{Email: "race@example.com", Password: "Password123!"})
	require.NoError(t, err)

	outputs := make([]*usecase.RefreshOutput, 2)
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i := range outputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outputs[i], errs[i] = fx.service.Refresh(ctx, usecase.RefreshInput{Token: login.RefreshToken})
		}(i)
	}
	wg.Wait()

	stored := fx.userRepo.get(user.ID)
	require.NotNil(t, stored)

	survivors := 0
	for i := range outputs {
		if errs[i] != nil {
			// A loser that validated after the winner's rotation landed is
			// rejected as a stale token.
			require.ErrorIs(t, errs[i], domainerrors.ErrRefreshTokenInvalid)

			continue
		}

		require.NotNil(t, outputs[i])
		if fx.tokenService.HashToken(outputs[i].RefreshToken) == stored.RefreshTokenHash {
			survivors++
		}
	}

	// Exactly one issued refresh token matches the stored hash, so exactly
	// one session survives the race.
	require.Equal(t, 1, survivors)

	// The original token was rotated away regardless of who won.
	_, err = fx.service.Refresh(ctx, usecase.RefreshInput{Token: login.RefreshToken})
	require.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	fx := createTestAuthService()
	ctx := context.Background()
	seedUser(fx.userRepo, "crosstype@example.com", "Password123!")

	login, err := fx.service.Login(ctx, usecase.LoginInput{Email: "crosstype@example.com", Password: "Password123!"})
	require.NoError(t, err)

	_, err = fx.service.Refresh(ctx, usecase.RefreshInput{Token: login.AccessToken})
	require.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestAuthService_Refresh_GarbageToken(t *testing.T) {
	fx := createTestAuthService()

	_, err := fx.service.Refresh(context.Background(), usecase.RefreshInput{Token: "not-a-token"})
	require.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestAuthService_Refresh_DeactivatedAccount(t *testing.T) {
	fx := createTestAuthService()
	ctx := context.Background()
	user := seedUser(fx.userRepo, "frozen@example.com", "Password123!")

	login, err := fx.service.Login(ctx, usecase.LoginInput{Email: "frozen@example.com", Password: "Password123!"})
	require.NoError(t, err)

	// Deactivate after the session was opened.
	fx.userRepo.mu.Lock()
	fx.userRepo.users[user.ID].IsActive = false
	fx.userRepo.mu.Unlock()

	_, err = fx.service.Refresh(ctx, usecase.RefreshInput{Token: login.RefreshToken})
	require.ErrorIs(t, err, domainerrors.ErrAccountDeactivated)
}

func TestAuthService_Logout_RevokesSession(t *testing.T) {
	fx := createTestAuthService()
	ctx := context.Background()
	user := seedUser(fx.userRepo, "logout@example.com", "Password123!")

	login, err := fx.service.Login(ctx, usecase.LoginInput{Email: "logout@example.com", Password: "Password123!"})
	require.NoError(t, err)

	require.NoError(t, fx.service.Logout(ctx, user.ID))

	stored := fx.userRepo.get(user.ID)
	assert.Empty(t, stored.RefreshTokenHash)

	_, err = fx.service.Refresh(ctx, usecase.RefreshInput{Token: login.RefreshToken})
	require.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	fx := createTestAuthService()
	ctx := context.Background()
	user := seedUser(fx.userRepo, "twice@example.com", "Password123!")

	require.NoError(t, fx.service.Logout(ctx, user.ID))
	require.NoError(t, fx.service.Logout(ctx, user.ID))

	// Unknown users are treated the same as already-logged-out ones.
	require.NoError(t, fx.service.Logout(ctx, uuid.New()))
}
