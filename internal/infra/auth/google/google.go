// Package google verifies Google sign-in credentials. It supports the two
// client variants: a raw ID token from Google Sign-In, and an authorization
// code that is first exchanged at Google's token endpoint.
package google

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gatehouse/config"
	domainerrors "gatehouse/internal/domain/errors"
	"gatehouse/internal/domain/service"

	"github.com/pkg/errors"
)

const googleTokenURL = "https://oauth2.googleapis.com/token"

// idTokenClaims represents the claims in a Google ID token.
type idTokenClaims struct {
	Iss           string `json:"iss"`            // Issuer
	Sub           string `json:"sub"`            // Subject (user ID)
	Aud           string `json:"aud"`            // Audience (client ID)
	Exp           int64  `json:"exp"`            // Expiration time
	Iat           int64  `json:"iat"`            // Issued at
	Email         string `json:"email"`          // User's email
	EmailVerified bool   `json:"email_verified"` // Email verification status
	Name          string `json:"name"`           // User's full name
	Picture       string `json:"picture"`        // User's profile picture
}

// AuthService implements service.OAuthAuthService for Google.
type AuthService struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client
	logger       *slog.Logger
	now          func() time.Time
}

// NewAuthService creates a new Google AuthService.
func NewAuthService(cfg *config.Config, logger *slog.Logger) service.OAuthAuthService {
	svc := &AuthService{
		tokenURL:   googleTokenURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		now:        time.Now,
	}
	if cfg.GoogleOAuth != nil {
		svc.clientID = cfg.GoogleOAuth.ClientID
		svc.clientSecret = cfg.GoogleOAuth.ClientSecret
	}

	return svc
}

// VerifyIDToken implements service.OAuthAuthService.
func (s *AuthService) VerifyIDToken(ctx context.Context, idToken string) (*service.OAuthUser, error) {
	claims, err := s.parseIDToken(idToken)
	if err != nil {
		s.logger.Warn("Failed to parse Google ID token", slog.Any("error", err))

		return nil, domainerrors.ErrOAuthFailed.WrapMessage("invalid ID token: " + err.Error())
	}

	if err := s.verifyTokenClaims(claims); err != nil {
		s.logger.Warn("Google ID token verification failed", slog.Any("error", err))

		return nil, domainerrors.ErrOAuthFailed.WrapMessage("token verification failed: " + err.Error())
	}

	s.logger.Debug("Google ID token verified",
		slog.String("subject", claims.Sub),
		slog.String("email", claims.Email))

	return &service.OAuthUser{
		ID:            claims.Sub,
		Email:         claims.Email,
		Name:          claims.Name,
		AvatarURL:     claims.Picture,
		EmailVerified: claims.EmailVerified,
	}, nil
}

// ExchangeCode exchanges an authorization code for an ID token at Google's
// token endpoint. Transport failures and provider 5xx responses surface as
// the retryable provider error; everything else is a verification failure.
func (s *AuthService) ExchangeCode(ctx context.Context, code, redirectURI string) (string, error) {
	data := url.Values{}
	data.Set("client_id", s.clientID)
	data.Set("client_secret", s.clientSecret)
	data.Set("code", code)
	data.Set("grant_type", "authorization_code")
	data.Set("redirect_uri", redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "failed to create token exchange request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", domainerrors.ErrProviderUnavailable.WrapMessage(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return "", domainerrors.ErrProviderUnavailable.WrapMessage("token endpoint returned " + resp.Status)
	}
	// Google answers 4xx for a rejected or replayed code. That is a bad
	// credential, not a provider outage.
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return "", domainerrors.ErrOAuthFailed.WrapMessage(
			fmt.Sprintf("token exchange failed with status %d: %s", resp.StatusCode, string(body)))
	}

	var tokenResponse struct {
		IDToken     string `json:"id_token"`
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return "", domainerrors.ErrOAuthFailed.WrapMessage("failed to decode token response: " + err.Error())
	}

	if tokenResponse.IDToken == "" {
		return "", domainerrors.ErrOAuthFailed.WrapMessage("no ID token received from provider")
	}

	return tokenResponse.IDToken, nil
}

// parseIDToken decodes the JWT payload and extracts claims.
func (s *AuthService) parseIDToken(token string) (*idTokenClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, errors.New("invalid JWT format")
	}

	decoded, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode token payload")
	}

	var claims idTokenClaims
	if err := json.Unmarshal(decoded, &claims); err != nil {
		return nil, errors.Wrap(err, "failed to parse token claims")
	}

	return &claims, nil
}

// verifyTokenClaims checks issuer, audience, expiry and email verification.
func (s *AuthService) verifyTokenClaims(claims *idTokenClaims) error {
	if claims.Iss != "https://accounts.google.com" && claims.Iss != "accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", claims.Iss)
	}

	if claims.Aud != s.clientID {
		return errors.Errorf("invalid audience: expected %s, got %s", s.clientID, claims.Aud)
	}

	if claims.Exp < s.now().Unix() {
		return errors.New("token expired")
	}

	if !claims.EmailVerified {
		return errors.New("email not verified")
	}

	return nil
}
