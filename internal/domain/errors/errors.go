package errors

import (
	"fmt"
	"net/http"

	"bmeh/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// Kind classifies the errors the user service can return.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindMissingField
	KindDuplicateResource
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindMissingField:
		return "MissingField"
	case KindDuplicateResource:
		return "DuplicateResource"
	default:
		return "Unknown"
	}
}

// KindOf reports which user service error kind err carries, looking through wrapping.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var missing *MissingFieldError
	if errors.As(err, &missing) {
		return KindMissingField
	}

	var duplicate *DuplicateResourceError
	if errors.As(err, &duplicate) {
		return KindDuplicateResource
	}

	if errors.Is(err, ErrUserNotFound) {
		return KindNotFound
	}

	return KindUnknown
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

// Predefined error types
var (
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"User not found",
		"",
	)

	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"Password processing failed",
		"",
	)

	// ErrPasswordTooLong is returned when a password exceeds bcrypt's 72 byte input limit.
	ErrPasswordTooLong = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_TOO_LONG",
		"Password must be at most 72 bytes",
		"password",
	)
)

// MissingFieldError is returned when a field required to create a user is blank or absent.
type MissingFieldError struct {
	Field   string
	message string
}

// NewMissingFieldError creates a MissingFieldError for the given field.
func NewMissingFieldError(field, message string) *MissingFieldError {
	return &MissingFieldError{Field: field, message: message}
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q: %s", e.Field, e.message)
}

func (e *MissingFieldError) HTTPCode() int     { return http.StatusBadRequest }
func (e *MissingFieldError) ErrorCode() string { return "MISSING_REQUIRED_FIELD" }
func (e *MissingFieldError) Message() string   { return e.message }
func (e *MissingFieldError) Details() string   { return e.Field }

// DuplicateResourceError is returned when a unique user attribute (email, cpf) is already taken.
type DuplicateResourceError struct {
	Field   string
	message string
}

// NewDuplicateResourceError creates a DuplicateResourceError for the given field.
func NewDuplicateResourceError(field, message string) *DuplicateResourceError {
	return &DuplicateResourceError{Field: field, message: message}
}

func (e *DuplicateResourceError) Error() string {
	return fmt.Sprintf("duplicate %s: %s", e.Field, e.message)
}

func (e *DuplicateResourceError) HTTPCode() int     { return http.StatusConflict }
func (e *DuplicateResourceError) ErrorCode() string { return "DUPLICATE_RESOURCE" }
func (e *DuplicateResourceError) Message() string   { return e.message }
func (e *DuplicateResourceError) Details() string   { return e.Field }

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap exposes the underlying driver error.
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
