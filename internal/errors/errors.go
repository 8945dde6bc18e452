package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Authorization errors
	ErrCodeForbidden = "FORBIDDEN"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeConstraintViolation = "CONSTRAINT_VIOLATION"

	// Service errors
	ErrCodeStorageFailure = "STORAGE_FAILURE"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// Kind classifies a domain error so the boundary can map it to a stable status.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindConflict
	KindConstraintViolation
	KindStorageFailure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFound"
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	case KindConflict:
		return "Conflict"
	case KindConstraintViolation:
		return "ConstraintViolation"
	case KindStorageFailure:
		return "StorageFailure"
	default:
		return "Unknown"
	}
}

// Error is a domain error raised by the services.
type Error struct {
	Kind    Kind
	Op      string
	Entity  string
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindStorageFailure {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports malformed or missing input for a single field.
func Validation(field, reason string) *Error {
	return &Error{
		Kind:    KindValidation,
		Field:   field,
		Message: fmt.Sprintf("%s: %s", field, reason),
	}
}

// NotFound reports that a referenced entity does not exist.
func NotFound(entity string, key any) *Error {
	return &Error{
		Kind:    KindNotFound,
		Entity:  entity,
		Message: fmt.Sprintf("%s %v not found", entity, key),
	}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Conflict(entity, message string) *Error {
	return &Error{Kind: KindConflict, Entity: entity, Message: message}
}

// ConstraintViolation reports a referential-integrity conflict.
func ConstraintViolation(op, entity, message string, err error) *Error {
	return &Error{
		Kind:    KindConstraintViolation,
		Op:      op,
		Entity:  entity,
		Message: message,
		Err:     err,
	}
}

// StorageFailure wraps a store or file-system error with the operation context.
// The cause is kept for logging and never sent to clients.
func StorageFailure(op, entity string, err error) *Error {
	return &Error{
		Kind:    KindStorageFailure,
		Op:      op,
		Entity:  entity,
		Message: fmt.Sprintf("failed to %s %s", op, entity),
		Err:     err,
	}
}

// KindOf returns the kind of the first domain error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// APIError represents a standardized API error response
type APIError struct {
	Success bool        `json:"success"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Respond maps a domain error onto the error envelope. Errors without a kind
// become a generic 500.
func Respond(c *gin.Context, err error) {
	var e *Error
	if !stderrors.As(err, &e) {
		_ = c.Error(err)
		InternalError(c, "")
		return
	}

	switch e.Kind {
	case KindValidation:
		details := map[string]string{}
		if e.Field != "" {
			details["field"] = e.Field
		}
		RespondWithError(c, http.StatusBadRequest, NewAPIErrorWithDetails(ErrCodeInvalidInput, e.Message, details))
	case KindNotFound:
		RespondNotFound(c, e.Message)
	case KindUnauthorized:
		RespondUnauthorized(c, e.Message)
	case KindForbidden:
		RespondForbidden(c, e.Message)
	case KindConflict:
		RespondConflict(c, e.Message)
	case KindConstraintViolation:
		RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeConstraintViolation, e.Message))
	case KindStorageFailure:
		_ = c.Error(err)
		RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeStorageFailure, e.Message))
	default:
		_ = c.Error(err)
		InternalError(c, "")
	}
}

// Helper functions for common error responses

// RespondUnauthorized sends a 401 response
func RespondUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// InvalidCredentials sends a 401 response for a failed login
func InvalidCredentials(c *gin.Context) {
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeInvalidCredentials, "Invalid email or password"))
}

// RespondForbidden sends a 403 response
func RespondForbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// RespondNotFound sends a 404 response
func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// RespondConflict sends a 409 response
func RespondConflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeConflict, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}
