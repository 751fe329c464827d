package apperrors

import "errors"

// Common errors
var (
	ErrResourceNotFound = errors.New("resource not found")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrPermissionDenied   = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
)

// Student directory errors
var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Access-token protocol errors
var (
	// ErrInvalidAccessToken is returned when a token matches no student row.
	ErrInvalidAccessToken = errors.New("invalid access token")
	// ErrAccessTokenUsed is returned when a token matches but was already consumed.
	ErrAccessTokenUsed = errors.New("access token already used")
	// ErrEmailMismatch is returned when the supplied email does not match the
	// student record during redemption. The token stays redeemable.
	ErrEmailMismatch = errors.New("email does not match our records")
)

// Resource catalog errors
var (
	ErrFolderNotFound = errors.New("folder not found")
	ErrFileNotFound   = errors.New("file not found")
)

// CustomError wraps a sentinel error with a human-readable message
type CustomError struct {
	Err     error
	Message string
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation failure with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}
