package google

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gatehouse/config"
	domainerrors "gatehouse/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T, clientID string) *AuthService {
	t.Helper()

	cfg := &config.Config{
		GoogleOAuth: &config.GoogleOAuthConfig{
			ClientID:     clientID,
			ClientSecret: "test_client_secret",
		},
	}

	svc, ok := NewAuthService(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))).(*AuthService)
	require.True(t, ok)

	return svc
}

// buildIDToken assembles an unsigned JWT with the given claims. Signature
// verification is out of scope for claim validation tests.
func buildIDToken(t *testing.T, claims idTokenClaims) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".signature"
}

func validClaims(clientID string) idTokenClaims {
	return idTokenClaims{
		Iss:           "https://accounts.google.com",
		Sub:           "google-subject-123",
		Aud:           clientID,
		Exp:           time.Now().Add(time.Hour).Unix(),
		Iat:           time.Now().Unix(),
		Email:         "ann@example.com",
		EmailVerified: true,
		Name:          "Ann Example",
		Picture:       "https://example.com/ann.png",
	}
}

func TestAuthService_VerifyIDToken_Success(t *testing.T) {
	svc := newTestAuthService(t, "test_client_id")
	token := buildIDToken(t, validClaims("test_client_id"))

	user, err := svc.VerifyIDToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "google-subject-123", user.ID)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, "Ann Example", user.Name)
	assert.Equal(t, "https://example.com/ann.png", user.AvatarURL)
	assert.True(t, user.EmailVerified)
}

func TestAuthService_VerifyIDToken_RejectsBadClaims(t *testing.T) {
	svc := newTestAuthService(t, "test_client_id")

	tests := []struct {
		name   string
		mutate func(*idTokenClaims)
	}{
		{"wrong issuer", func(c *idTokenClaims) { c.Iss = "https://evil.example.com" }},
		{"wrong audience", func(c *idTokenClaims) { c.Aud = "another_client_id" }},
		{"expired", func(c *idTokenClaims) { c.Exp = time.Now().Add(-time.Hour).Unix() }},
		{"unverified email", func(c *idTokenClaims) { c.EmailVerified = false }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := validClaims("test_client_id")
			tt.mutate(&claims)

			user, err := svc.VerifyIDToken(context.Background(), buildIDToken(t, claims))
			require.ErrorIs(t, err, domainerrors.ErrOAuthFailed)
			assert.Nil(t, user)
		})
	}
}

func TestAuthService_VerifyIDToken_RejectsMalformedToken(t *testing.T) {
	svc := newTestAuthService(t, "test_client_id")

	user, err := svc.VerifyIDToken(context.Background(), "not-a-jwt")
	require.ErrorIs(t, err, domainerrors.ErrOAuthFailed)
	assert.Nil(t, user)

	user, err = svc.VerifyIDToken(context.Background(), "a.!!!notbase64!!!.c")
	require.ErrorIs(t, err, domainerrors.ErrOAuthFailed)
	assert.Nil(t, user)
}

// An unverifiable credential must surface as an application error that the
// HTTP boundary renders as 401, never as an internal failure.
func TestAuthService_VerifyIDToken_FailureMapsToUnauthorized(t *testing.T) {
	svc := newTestAuthService(t, "test_client_id")

	_, err := svc.VerifyIDToken(context.Background(), "not-a-jwt")
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode())
}

func newExchangeTestService(t *testing.T, handler http.HandlerFunc) (*AuthService, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := newTestAuthService(t, "test_client_id")
	svc.tokenURL = server.URL

	return svc, server
}

func TestAuthService_ExchangeCode_Success(t *testing.T) {
	svc, _ := newExchangeTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "auth-code", r.PostForm.Get("code"))
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id_token":"the-id-token","access_token":"x","token_type":"Bearer","expires_in":3600}`))
	})

	idToken, err := svc.ExchangeCode(context.Background(), "auth-code", "https://app.example.com/callback")
	require.NoError(t, err)
	assert.Equal(t, "the-id-token", idToken)
}

// Google rejects a bad or replayed authorization code with a 4xx. That is a
// bad credential and must come back as the 401-class OAuth failure.
func TestAuthService_ExchangeCode_RejectedCodeIsUnauthorized(t *testing.T) {
	svc, _ := newExchangeTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	})

	_, err := svc.ExchangeCode(context.Background(), "stale-code", "https://app.example.com/callback")
	require.ErrorIs(t, err, domainerrors.ErrOAuthFailed)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode())
}

func TestAuthService_ExchangeCode_ProviderErrorIsUnavailable(t *testing.T) {
	svc, _ := newExchangeTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := svc.ExchangeCode(context.Background(), "auth-code", "https://app.example.com/callback")
	require.ErrorIs(t, err, domainerrors.ErrProviderUnavailable)
}

func TestAuthService_ExchangeCode_TransportErrorIsUnavailable(t *testing.T) {
	svc, server := newExchangeTestService(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := svc.ExchangeCode(context.Background(), "auth-code", "https://app.example.com/callback")
	require.ErrorIs(t, err, domainerrors.ErrProviderUnavailable)
}

func TestAuthService_ExchangeCode_MissingIDToken(t *testing.T) {
	svc, _ := newExchangeTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"x","token_type":"Bearer"}`))
	})

	_, err := svc.ExchangeCode(context.Background(), "auth-code", "https://app.example.com/callback")
	require.ErrorIs(t, err, domainerrors.ErrOAuthFailed)
}
