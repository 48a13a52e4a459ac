// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "gatehouse/internal/delivery/context"
	"gatehouse/internal/domain/entity"
	domainerrors "gatehouse/internal/domain/errors"
	"gatehouse/internal/domain/repository"
	"gatehouse/internal/domain/service"
	"gatehouse/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new customer account and opens its first session.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthOutput, error) {
	email := normalizeEmail(input.Email)

	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	if _, err := srv.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, domainerrors.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to check existing email")
	}

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	user := &entity.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         strings.TrimSpace(input.Name),
		Role:         entity.RoleCustomer,
		IsActive:     true,
	}

	// Concurrent registrations of the same email race past the lookup above.
	// The unique constraint on users.email decides the winner.
	if err := srv.userRepo.Create(ctx, user); err != nil {
		srv.log(ctx).Error("Failed to create user", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", user.ID))

	return srv.openSession(ctx, user)
}

// Login authenticates a credential pair and opens a new session, replacing
// any previously active one.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	email := normalizeEmail(input.Email)

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same error as a wrong password so callers cannot tell
			// which addresses are registered.
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !user.HasPassword() || !srv.hasher.Check(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	if err := checkAccountState(user); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Login succeeded", slog.Any("userID", user.ID))

	return srv.openSession(ctx, user)
}

// Refresh rotates a valid refresh token: the presented token is retired and
// a fresh pair is issued. A token that no longer matches the stored digest
// has already been rotated or revoked and is rejected.
func (srv *authService) Refresh(ctx context.Context, input usecase.RefreshInput) (*usecase.RefreshOutput, error) {
	if _, err := srv.tokenService.ValidateRefreshToken(input.Token); err != nil {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	tokenHash := srv.tokenService.HashToken(input.Token)

	user, err := srv.userRepo.FindByRefreshTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}

		return nil, errors.Wrap(err, "failed to find session by refresh token")
	}

	if err := checkAccountState(user); err != nil {
		return nil, err
	}

	output, err := srv.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Refresh token rotated", slog.Any("userID", user.ID))

	return &usecase.RefreshOutput{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
	}, nil
}

// Logout revokes the user's active session. Logging out an already
// logged-out or unknown user is not an error.
func (srv *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	err := srv.userRepo.UpdateRefreshTokenHash(ctx, userID, nil)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return errors.Wrap(err, "failed to revoke session")
	}

	srv.log(ctx).Info("Logout completed", slog.Any("userID", userID))

	return nil
}

// openSession issues a token pair for the user and persists the refresh
// token digest, overwriting whatever session was active before.
func (srv *authService) openSession(ctx context.Context, user *entity.User) (*usecase.AuthOutput, error) {
	return openSession(ctx, srv.userRepo, srv.tokenService, user)
}

// openSession is shared by credential and social sign-in flows.
func openSession(ctx context.Context, userRepo repository.UserRepository, tokenService service.TokenService, user *entity.User) (*usecase.AuthOutput, error) {
	accessToken, refreshToken, err := tokenService.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate token pair")
	}

	tokenHash := tokenService.HashToken(refreshToken)
	if err := userRepo.UpdateRefreshTokenHash(ctx, user.ID, &tokenHash); err != nil {
		return nil, errors.Wrap(err, "failed to store refresh token")
	}

	return &usecase.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         usecase.NewUserOutput(user),
	}, nil
}

// checkAccountState rejects users that may no longer authenticate.
func checkAccountState(user *entity.User) error {
	if user.IsDeleted {
		return domainerrors.ErrAccountDeleted
	}
	if !user.IsActive {
		return domainerrors.ErrAccountDeactivated
	}

	return nil
}

// normalizeEmail canonicalizes an address for lookups and storage.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
