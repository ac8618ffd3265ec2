package apperrors

import "errors"

// Base error kinds. Every error a service returns to a controller either is
// one of these or wraps one of them.
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Capacity errors
	ErrCapacityExceeded = errors.New("capacity exceeded")
)

// User errors
var (
	ErrUserNotFound       error = NewCustomError(ErrResourceNotFound, "user not found")
	ErrEmailAlreadyExists error = NewCustomError(ErrConflict, "user with this email already exists")
)

// Class errors
var (
	ErrClassNotFound error = NewCustomError(ErrResourceNotFound, "class not found")
	ErrClassFull     error = NewCustomError(ErrCapacityExceeded, "class is full")
)

// Enrollment errors
var (
	ErrEnrollmentNotFound error = NewCustomError(ErrResourceNotFound, "enrollment not found")
	ErrAlreadyEnrolled    error = NewCustomError(ErrConflict, "already enrolled in this class")
)

// NewValidationError creates a new custom error for invalid input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// PublicMessage returns the client-facing message carried by err, or
// fallback when err carries none.
func PublicMessage(err error, fallback string) string {
	var custom *CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return fallback
}
