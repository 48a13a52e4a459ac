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

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// socialService implements the SocialAuthUsecase interface.
type socialService struct {
	userRepo          repository.UserRepository
	tokenService      service.TokenService
	googleAuthService service.OAuthAuthService
	logger            *slog.Logger
}

// SocialServiceParams holds dependencies for socialService, injected by Fx.
type SocialServiceParams struct {
	fx.In

	UserRepo          repository.UserRepository
	TokenService      service.TokenService
	GoogleAuthService service.OAuthAuthService
	Logger            *slog.Logger
}

// NewSocialService is the constructor for socialService.
func NewSocialService(params SocialServiceParams) usecase.SocialAuthUsecase {
	return &socialService{
		userRepo:          params.UserRepo,
		tokenService:      params.TokenService,
		googleAuthService: params.GoogleAuthService,
		logger:            params.Logger,
	}
}

func (srv *socialService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AuthenticateGoogle signs a user in with a Google identity. The caller
// supplies either an authorization code to exchange or an ID token obtained
// client-side. Accounts are matched by Google ID first, then linked by
// verified email, and created from the Google profile as a last resort.
func (srv *socialService) AuthenticateGoogle(ctx context.Context, input usecase.GoogleAuthInput) (*usecase.AuthOutput, error) {
	idToken, err := srv.resolveIDToken(ctx, input)
	if err != nil {
		return nil, err
	}

	oauthUser, err := srv.googleAuthService.VerifyIDToken(ctx, idToken)
	if err != nil {
		srv.log(ctx).Warn("Google ID token rejected", slog.Any("error", err))

		return nil, err
	}

	if oauthUser.ID == "" || oauthUser.Email == "" {
		return nil, domainerrors.ErrOAuthPayloadInvalid
	}

	user, err := srv.resolveAccount(ctx, oauthUser)
	if err != nil {
		return nil, err
	}

	if err := checkAccountState(user); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Google sign-in succeeded", slog.Any("userID", user.ID))

	return openSession(ctx, srv.userRepo, srv.tokenService, user)
}

func (srv *socialService) resolveIDToken(ctx context.Context, input usecase.GoogleAuthInput) (string, error) {
	if input.Code != "" {
		idToken, err := srv.googleAuthService.ExchangeCode(ctx, input.Code, input.RedirectURI)
		if err != nil {
			return "", err
		}

		return idToken, nil
	}

	if input.Token == "" {
		return "", domainerrors.ErrOAuthPayloadInvalid.WrapMessage("either an authorization code or an id token is required")
	}

	return input.Token, nil
}

// resolveAccount locates or provisions the local account for a verified
// Google identity.
func (srv *socialService) resolveAccount(ctx context.Context, oauthUser *service.OAuthUser) (*entity.User, error) {
	user, err := srv.userRepo.FindByGoogleID(ctx, oauthUser.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to find user by google id")
	}

	email := normalizeEmail(oauthUser.Email)

	existing, err := srv.userRepo.FindByEmail(ctx, email)
	if err == nil {
		// An account registered with this email already exists. Linking
		// keeps its credentials intact so password login keeps working.
		linked, linkErr := srv.userRepo.LinkGoogleAccount(ctx, existing.ID, oauthUser.ID, oauthUser.AvatarURL)
		if linkErr != nil {
			return nil, errors.Wrap(linkErr, "failed to link google account")
		}

		srv.log(ctx).Info("Linked google identity to existing account", slog.Any("userID", existing.ID))

		return linked, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to find user by email")
	}

	newUser := &entity.User{
		Email:    email,
		Name:     displayNameFor(oauthUser, email),
		Role:     entity.RoleCustomer,
		GoogleID: oauthUser.ID,
		ImageURL: oauthUser.AvatarURL,
		IsActive: true,
	}

	if err := srv.userRepo.Create(ctx, newUser); err != nil {
		return nil, errors.Wrap(err, "failed to create user from google profile")
	}

	srv.log(ctx).Info("Provisioned account from google profile", slog.Any("userID", newUser.ID))

	return newUser, nil
}

// displayNameFor prefers the profile name and falls back to the email
// local part when Google supplies none.
func displayNameFor(oauthUser *service.OAuthUser, email string) string {
	if name := strings.TrimSpace(oauthUser.Name); name != "" {
		return name
	}

	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}

	return email
}
