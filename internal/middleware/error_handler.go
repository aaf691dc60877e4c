package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrorEnvelope represents a standard error response
type ErrorEnvelope struct {
	Success bool         `json:"success"`
	Error   ErrorDetails `json:"error"`
}

// ErrorDetails contains the error information
type ErrorDetails struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Field     string                 `json:"field,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	TraceID   string                 `json:"trace_id"`
}

// CustomError represents a custom application error
type CustomError struct {
	Code       string
	Message    string
	Field      string
	StatusCode int
	Details    map[string]interface{}
}

func (e CustomError) Error() string {
	return e.Message
}

// Common error codes
const (
	// Authorization errors
	ErrCodeRoleNotFound   = "ROLE_NOT_FOUND"
	ErrCodeFirmNotFound   = "FIRM_NOT_FOUND"
	ErrCodeFirmSuspended  = "FIRM_SUSPENDED"
	ErrCodeFirmTerminated = "FIRM_TERMINATED"

	// General errors
	ErrCodeInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeConflict         = "CONFLICT"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeDatabaseError    = "DATABASE_ERROR"
)

// ErrorHandler is a middleware that handles errors in a consistent way
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	entry := logger.WithField("component", "error-handler")
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			handleError(c, err.Err, entry)
		}
	}
}

// handleError processes the error and sends the envelope response. Unknown
// errors are never echoed to the client; the raw error goes to the log only.
func handleError(c *gin.Context, err error, logger *logrus.Entry) {
	var response ErrorEnvelope
	var statusCode int

	traceID, exists := c.Get("trace_id")
	if !exists {
		traceID = uuid.New().String()
	}

	if customErr, ok := err.(CustomError); ok {
		statusCode = customErr.StatusCode
		response = ErrorEnvelope{
			Success: false,
			Error: ErrorDetails{
				Code:      customErr.Code,
				Message:   customErr.Message,
				Field:     customErr.Field,
				Details:   customErr.Details,
				Timestamp: time.Now().UTC(),
				TraceID:   traceID.(string),
			},
		}
	} else {
		statusCode = http.StatusInternalServerError
		response = ErrorEnvelope{
			Success: false,
			Error: ErrorDetails{
				Code:      ErrCodeInternalServer,
				Message:   "An unexpected error occurred",
				Timestamp: time.Now().UTC(),
				TraceID:   traceID.(string),
			},
		}
	}

	logger.WithFields(logrus.Fields{
		"trace_id": response.Error.TraceID,
		"code":     response.Error.Code,
		"path":     c.Request.URL.Path,
		"method":   c.Request.Method,
	}).WithError(err).Error("Request failed")

	c.JSON(statusCode, response)
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string, details map[string]interface{}) CustomError {
	return CustomError{
		Code:       ErrCodeBadRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// NewValidationError creates a new validation error for a specific field
func NewValidationError(field, reason string) CustomError {
	return CustomError{
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		Field:      field,
		StatusCode: http.StatusBadRequest,
		Details: map[string]interface{}{
			"field":  field,
			"reason": reason,
		},
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string) CustomError {
	return CustomError{
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) CustomError {
	return CustomError{
		Code:       ErrCodeUnauthorized,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) CustomError {
	return CustomError{
		Code:       ErrCodeForbidden,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, field string) CustomError {
	return CustomError{
		Code:       ErrCodeConflict,
		Message:    message,
		Field:      field,
		StatusCode: http.StatusConflict,
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(message string) CustomError {
	return CustomError{
		Code:       ErrCodeDatabaseError,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}
