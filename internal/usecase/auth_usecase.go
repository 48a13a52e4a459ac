// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshInput carries the refresh token presented for rotation.
type RefreshInput struct {
	Token string
}

// GoogleAuthInput defines the data for a Google sign-in. Either Code (an
// authorization code to exchange) or Token (an ID token obtained client-side)
// must be set.
type GoogleAuthInput struct {
	Code        string
	RedirectURI string
	Token       string
}

// --- Output DTOs ---

// AuthOutput returns the generated token pair after a successful
// registration, login, or social sign-in.
type AuthOutput struct {
	AccessToken  string
	RefreshToken string
	User         *UserOutput
}

// RefreshOutput returns the rotated token pair.
type RefreshOutput struct {
	AccessToken  string
	RefreshToken string
}

// AuthUsecase defines the interface for credential-based authentication.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input LoginInput) (*AuthOutput, error)
	Refresh(ctx context.Context, input RefreshInput) (*RefreshOutput, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

// SocialAuthUsecase defines the interface for federated sign-in flows.
type SocialAuthUsecase interface {
	AuthenticateGoogle(ctx context.Context, input GoogleAuthInput) (*AuthOutput, error)
}
