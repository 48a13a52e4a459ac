// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"time"

	"gatehouse/internal/domain/entity"

	"github.com/google/uuid"
)

// UserOutput is the sanitized view of a user returned to clients.
// It never carries password or token material.
type UserOutput struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      entity.Role `json:"role"`
	ImageURL  string      `json:"imageUrl,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewUserOutput maps a domain user to its client-facing representation.
func NewUserOutput(user *entity.User) *UserOutput {
	if user == nil {
		return nil
	}

	return &UserOutput{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		ImageURL:  user.ImageURL,
		CreatedAt: user.CreatedAt,
	}
}

// UserUsecase defines the interface for user query operations.
type UserUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserOutput, error)
	ListUsers(ctx context.Context) ([]*UserOutput, error)
}
