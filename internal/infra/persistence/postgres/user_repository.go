// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"gatehouse/internal/domain/entity"
	domainerrors "gatehouse/internal/domain/errors"
	"gatehouse/internal/domain/repository"
	"gatehouse/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return repo.findOne(ctx, "id = ?", id)
}

// FindByEmail retrieves a single user by their email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(ctx, "email = ?", email)
}

// FindByGoogleID retrieves the user linked to the given Google account identifier.
func (repo *userRepository) FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	return repo.findOne(ctx, "google_id = ?", googleID)
}

// FindByRefreshTokenHash retrieves the user whose current session matches the
// given refresh token digest.
func (repo *userRepository) FindByRefreshTokenHash(ctx context.Context, tokenHash string) (*entity.User, error) {
	return repo.findOne(ctx, "refresh_token_hash = ?", tokenHash)
}

func (repo *userRepository) findOne(ctx context.Context, cond string, arg any) (*entity.User, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).Where(cond, arg).First(&userM).Error; err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		// Otherwise, surface the storage failure.
		return nil, domainerrors.NewStorageUnavailableError(err, "failed to query user")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user entity to the database.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	// Map the pure domain entity to a GORM persistence model.
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return mapUserUniqueViolation(err)
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewStorageUnavailableError(err, "failed to create user")
	}

	// Update the user entity with the generated ID and timestamps
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// mapUserUniqueViolation picks the domain error for a unique violation on the
// users table. The google_id index trips when a Google account is already
// linked elsewhere, which is an OAuth conflict, not an email one. An email
// violation, or a translated error with no constraint detail, maps to the
// registration conflict.
func mapUserUniqueViolation(err error) error {
	if uniqueViolationOnColumn(err, "google_id") {
		return domainerrors.ErrOAuthFailed.WrapMessage("google account already linked to another user")
	}

	return domainerrors.ErrEmailAlreadyRegistered
}

// LinkGoogleAccount attaches a Google identity to an existing user row and
// returns the refreshed entity. The password hash is left untouched.
func (repo *userRepository) LinkGoogleAccount(ctx context.Context, userID uuid.UUID, googleID, imageURL string) (*entity.User, error) {
	updates := map[string]any{
		"google_id": googleID,
	}
	if imageURL != "" {
		updates["image_url"] = imageURL
	}

	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", userID).
		Updates(updates)

	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return nil, domainerrors.ErrOAuthFailed.WrapMessage("google account already linked to another user")
		}

		return nil, domainerrors.NewStorageUnavailableError(result.Error, "failed to link google account")
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrUserNotFound
	}

	return repo.FindByID(ctx, userID)
}

// UpdateRefreshTokenHash overwrites the stored refresh token digest for the
// user. A nil tokenHash clears the session (logout).
func (repo *userRepository) UpdateRefreshTokenHash(ctx context.Context, userID uuid.UUID, tokenHash *string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", userID).
		Update("refresh_token_hash", tokenHash)

	if result.Error != nil {
		return domainerrors.NewStorageUnavailableError(result.Error, "failed to update refresh token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// List returns all users ordered by creation time.
func (repo *userRepository) List(ctx context.Context) ([]*entity.User, error) {
	var models []*model.UserModel

	if err := repo.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, domainerrors.NewStorageUnavailableError(err, "failed to list users")
	}

	users := make([]*entity.User, 0, len(models))
	for _, m := range models {
		users = append(users, toUserDomain(m))
	}

	return users, nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:               data.ID,
		Email:            data.Email,
		PasswordHash:     derefString(data.PasswordHash),
		Name:             data.Name,
		Role:             entity.RoleFromString(data.Role),
		GoogleID:         derefString(data.GoogleID),
		ImageURL:         derefString(data.ImageURL),
		RefreshTokenHash: derefString(data.RefreshTokenHash),
		IsActive:         data.IsActive,
		IsDeleted:        data.IsDeleted,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:               data.ID,
		Email:            data.Email,
		PasswordHash:     nilIfEmpty(data.PasswordHash),
		Name:             data.Name,
		Role:             data.Role.String(),
		GoogleID:         nilIfEmpty(data.GoogleID),
		ImageURL:         nilIfEmpty(data.ImageURL),
		RefreshTokenHash: nilIfEmpty(data.RefreshTokenHash),
		IsActive:         data.IsActive,
		IsDeleted:        data.IsDeleted,
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
