package service

import (
	"time"

	"gatehouse/internal/domain/entity"

	"github.com/google/uuid"
)

// Token type claims. Embedded in every JWT so an access token can never be
// replayed against the refresh endpoint and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the decoded, validated content of one of our own JWTs.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   entity.Role
	Type   string
}

// TokenService defines the interface for minting and validating the
// access/refresh token pair. Access and refresh tokens are signed with
// distinct secrets so a leak of one cannot forge the other.
type TokenService interface {
	// GenerateTokenPair creates a new access token and refresh token for a user.
	GenerateTokenPair(userID uuid.UUID, email string, role entity.Role) (accessToken string, refreshToken string, err error)

	// ValidateAccessToken verifies signature, expiry, audience, issuer and
	// the "access" type claim.
	ValidateAccessToken(tokenString string) (*Claims, error)

	// ValidateRefreshToken verifies signature, expiry, audience, issuer and
	// the "refresh" type claim against the refresh secret.
	ValidateRefreshToken(tokenString string) (*Claims, error)

	// HashToken returns the SHA-256 hex digest of a token. Only this digest
	// is ever persisted for refresh tokens; the raw token stays with the client.
	HashToken(tokenString string) string

	// RefreshTokenDuration returns the configured refresh token lifetime.
	RefreshTokenDuration() time.Duration
}
