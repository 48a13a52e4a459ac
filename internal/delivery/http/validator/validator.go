// Package validator adapts go-playground/validator to echo's Validator
// interface so request DTOs are checked at the binding boundary.
package validator

import (
	"fmt"
	"strings"

	domainerrors "gatehouse/internal/domain/errors"

	validatorlib "github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// RequestValidator wraps a validator instance for echo.
type RequestValidator struct {
	validate *validatorlib.Validate
}

// New builds the validator used by the HTTP server.
func New() *RequestValidator {
	return &RequestValidator{
		validate: validatorlib.New(validatorlib.WithRequiredStructEnabled()),
	}
}

// Validate implements echo.Validator. Validation failures are reported as
// the domain's validation error with per-field details.
func (v *RequestValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrs validatorlib.ValidationErrors
	if ok := errors.As(err, &validationErrs); !ok {
		return domainerrors.ErrValidationFailed
	}

	details := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		details = append(details, describeFieldError(fieldErr))
	}

	return domainerrors.ErrValidationFailed.WithDetails(strings.Join(details, "; "))
}

func describeFieldError(fieldErr validatorlib.FieldError) string {
	field := fieldErr.Field()

	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fieldErr.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fieldErr.Param())
	default:
		return fmt.Sprintf("%s failed validation on %s", field, fieldErr.Tag())
	}
}
