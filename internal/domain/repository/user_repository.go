// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"gatehouse/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository is the user directory: the single source of truth for
// identity records and the only serialization point for refresh-token state.
// Concurrent writes to the refresh-token hash are last-write-wins; the
// application layer accepts that for the single-active-session model.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their (normalized) email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByGoogleID retrieves the user linked to the given Google subject ID.
	FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error)

	// FindByRefreshTokenHash retrieves the user whose stored refresh-token
	// hash matches. A miss means the presented token was rotated or revoked.
	FindByRefreshTokenHash(ctx context.Context, tokenHash string) (*entity.User, error)

	// Create persists a new user entity. Works for both local accounts
	// (password hash set) and social-only accounts (google_id set).
	Create(ctx context.Context, user *entity.User) error

	// LinkGoogleAccount attaches a Google identity to an existing account.
	// It never touches the password hash.
	LinkGoogleAccount(ctx context.Context, userID uuid.UUID, googleID, imageURL string) (*entity.User, error)

	// UpdateRefreshTokenHash overwrites the stored refresh-token hash.
	// A nil hash clears it (logout).
	UpdateRefreshTokenHash(ctx context.Context, userID uuid.UUID, tokenHash *string) error

	// List returns all users in creation order. Admin listing only.
	List(ctx context.Context) ([]*entity.User, error)
}
