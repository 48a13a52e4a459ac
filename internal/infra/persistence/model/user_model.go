package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// It is an exported type so it can be used by the GORM Gen tool from other packages.
//
// The refresh_token_hash column holds the SHA-256 digest of the single
// currently valid refresh token. One live session per user: rotation
// overwrites the column, logout nulls it.
type UserModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email            string    `gorm:"type:varchar(255);unique;not null"`
	PasswordHash     *string   `gorm:"type:varchar(255)"`
	Name             string    `gorm:"type:varchar(100)"`
	Role             string    `gorm:"type:varchar(20);not null;default:customer"`
	GoogleID         *string   `gorm:"type:varchar(255);uniqueIndex"`
	ImageURL         *string   `gorm:"type:text"`
	RefreshTokenHash *string   `gorm:"type:varchar(64);index"`
	IsActive         bool      `gorm:"not null;default:true"`
	IsDeleted        bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
