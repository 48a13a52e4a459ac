package postgres

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Helper functions for PostgreSQL error checking
func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "duplicate key") ||
		strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "23505") // PostgreSQL unique_violation error code
}

// uniqueViolationOnColumn reports whether the unique violation names the given
// column or an index on it. Postgres includes the constraint name in the
// message, so "idx_users_google_id" trips for column "google_id". GORM's
// translated ErrDuplicatedKey drops that detail, in which case this is false
// and the caller falls back to its default mapping.
func uniqueViolationOnColumn(err error, column string) bool {
	return strings.Contains(strings.ToLower(err.Error()), column)
}

func isNotNullConstraintViolation(err error) bool {
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "null value") ||
		strings.Contains(errMsg, "not null") ||
		strings.Contains(errMsg, "23502") // PostgreSQL not_null_violation error code
}
