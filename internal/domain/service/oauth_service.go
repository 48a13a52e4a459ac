package service

import "context"

// OAuthUser represents the verified identity returned by an OAuth provider.
type OAuthUser struct {
	ID            string // Provider-specific subject ID (Google's 'sub' claim)
	Email         string // User's email address
	Name          string // User's display name
	AvatarURL     string // URL to user's profile picture
	EmailVerified bool   // Whether the email is verified by the provider
}

// OAuthAuthService defines the operations the social-auth flow needs from an
// OAuth provider. Two entry points match the two client variants: a raw ID
// token (Google Sign-In on the web client) or an authorization code that must
// first be exchanged at the provider's token endpoint.
type OAuthAuthService interface {
	// VerifyIDToken verifies an OAuth ID token and returns the user identity.
	VerifyIDToken(ctx context.Context, idToken string) (*OAuthUser, error)

	// ExchangeCode exchanges an authorization code for an ID token at the
	// provider's token endpoint. Network failures surface as provider errors.
	ExchangeCode(ctx context.Context, code, redirectURI string) (string, error)
}
