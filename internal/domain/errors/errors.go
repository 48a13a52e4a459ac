// Package errors defines the application error taxonomy. Every business
// failure carries an HTTP status, a stable business code and a user-facing
// message, so the delivery layer can map errors without inspecting internals.
package errors

import (
	"net/http"

	"gatehouse/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// Is matches errors sharing the same business error code, so a copy
// produced by WithDetails still compares equal to its predefined origin.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)

	return ok && t.errorCode == e.errorCode
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Registration and credential errors.
	//
	// ErrInvalidCredentials is shared by the unknown-email and wrong-password
	// paths on purpose: the two failures must be indistinguishable to the
	// caller so accounts cannot be enumerated.
	ErrEmailAlreadyRegistered = NewBaseError(
		http.StatusConflict,
		"EMAIL_ALREADY_REGISTERED",
		"A user with this email already exists",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Invalid email or password",
		"",
	)

	ErrAccountDeleted = NewBaseError(
		http.StatusUnauthorized,
		"ACCOUNT_DELETED",
		"User account is deleted",
		"",
	)

	ErrAccountDeactivated = NewBaseError(
		http.StatusUnauthorized,
		"ACCOUNT_DEACTIVATED",
		"User account is deactivated",
		"",
	)

	// Token errors. Signature, expiry, audience, issuer and type failures all
	// collapse into one class; expired-vs-forged is never disclosed.
	ErrInvalidToken = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_TOKEN",
		"Invalid or expired token",
		"",
	)

	ErrRefreshTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_TOKEN_INVALID",
		"Invalid or expired refresh token",
		"",
	)

	ErrMissingToken = NewBaseError(
		http.StatusUnauthorized,
		"MISSING_TOKEN",
		"Authorization token is missing",
		"",
	)

	// OAuth-related errors
	ErrOAuthFailed = NewBaseError(
		http.StatusUnauthorized,
		"OAUTH_FAILED",
		"Failed to authenticate with the OAuth provider",
		"",
	)

	ErrOAuthPayloadInvalid = NewBaseError(
		http.StatusUnauthorized,
		"OAUTH_PAYLOAD_INVALID",
		"Invalid provider token payload",
		"",
	)

	ErrProviderUnavailable = NewBaseError(
		http.StatusBadGateway,
		"PROVIDER_UNAVAILABLE",
		"OAuth provider is unreachable",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	// Authorization errors
	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"Access denied",
		"",
	)

	// General errors
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"User not found",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// StorageUnavailableError represents a failure of the user store. It maps to
// a retryable 503 so clients know the request itself was not at fault.
type StorageUnavailableError struct {
	err     error
	details string
}

// NewStorageUnavailableError wraps a storage-layer failure.
func NewStorageUnavailableError(err error, details string) AppError {
	return &StorageUnavailableError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *StorageUnavailableError) Error() string {
	return errors.Wrap(e.err, "user store unavailable").Error()
}

// Unwrap exposes the underlying storage error for errors.Is/As.
func (e *StorageUnavailableError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *StorageUnavailableError) HTTPCode() int {
	return http.StatusServiceUnavailable
}

// ErrorCode returns the business error code
func (e *StorageUnavailableError) ErrorCode() string {
	return "STORAGE_UNAVAILABLE"
}

// Message returns the user-friendly error message
func (e *StorageUnavailableError) Message() string {
	return "Storage is temporarily unavailable"
}

// Details returns detailed error information
func (e *StorageUnavailableError) Details() string {
	return e.details
}
