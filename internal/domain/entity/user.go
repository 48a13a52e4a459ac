// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity record of the system. A single row carries both
// the credential material (password hash for local accounts, google_id for
// linked Google accounts) and the session state: the SHA-256 hash of the one
// currently valid refresh token. The raw refresh token is never persisted.
type User struct {
	ID               uuid.UUID // The unique identifier for the user, generated by the database.
	Email            string    // The user's login identifier. Always stored lowercased and trimmed.
	PasswordHash     string    // The bcrypt hash of the password. Empty for Google-only accounts.
	Name             string    // The user's display name.
	Role             Role      // The user's role, used for route authorization.
	GoogleID         string    // Google's 'sub' claim when a Google account is linked. Empty otherwise.
	ImageURL         string    // Avatar URL from the OAuth provider, if any.
	RefreshTokenHash string    // SHA-256 hex digest of the current refresh token. Empty when logged out.
	IsActive         bool      // Deactivated users fail every authentication path.
	IsDeleted        bool      // Soft-delete flag. Deleted users fail every authentication path.
	CreatedAt        time.Time // Timestamp of when this account was created.
	UpdatedAt        time.Time // Timestamp of the last modification to this account.
}

// HasPassword reports whether the user has a local credential. Google-only
// accounts have none until the user sets a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// CanAuthenticate reports whether the account may pass any authentication
// path at all. Both soft-lifecycle flags are checked.
func (u *User) CanAuthenticate() bool {
	return u.IsActive && !u.IsDeleted
}
