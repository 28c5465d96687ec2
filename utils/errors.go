package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AppError represents an application error carrying the HTTP status to answer with
type AppError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails attaches extra data rendered under data.error
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new AppError
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// BadRequestError creates a 400 Bad Request error
func BadRequestError(message string, err error) *AppError {
	return NewAppError(http.StatusBadRequest, message, err)
}

// UnauthorizedError creates a 401 Unauthorized error
func UnauthorizedError(message string, err error) *AppError {
	return NewAppError(http.StatusUnauthorized, message, err)
}

// ForbiddenError creates a 403 Forbidden error
func ForbiddenError(message string, err error) *AppError {
	return NewAppError(http.StatusForbidden, message, err)
}

// NotFoundError creates a 404 Not Found error
func NotFoundError(message string, err error) *AppError {
	return NewAppError(http.StatusNotFound, message, err)
}

// ConflictError creates a 409 Conflict error
func ConflictError(message string, err error) *AppError {
	return NewAppError(http.StatusConflict, message, err)
}

// InternalError creates a 500 error
func InternalError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, err)
}

// ServiceUnavailableError creates a 503 Service Unavailable error
func ServiceUnavailableError(message string, err error) *AppError {
	return NewAppError(http.StatusServiceUnavailable, message, err)
}

// GetAppError returns the AppError in err's chain, if any
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsNotFoundError checks for a 404 AppError or gorm's record-not-found
func IsNotFoundError(err error) bool {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true
	}
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code == http.StatusNotFound
	}
	return false
}

// RespondError writes the envelope matching err. Unknown errors become 500s.
func RespondError(c *gin.Context, err error) {
	if appErr := GetAppError(err); appErr != nil {
		if appErr.Code >= http.StatusInternalServerError {
			LogError("%s: %v", appErr.Message, appErr.Err)
		}
		Error(c, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "Resource not found")
		return
	}
	LogError("Unhandled error: %v", err)
	InternalServerError(c, "Internal server error", err.Error())
}
