package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a structured error code
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigMissing ErrorCode = "CONFIG_MISSING"
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Storage errors
	ErrCodeDatabaseQuery ErrorCode = "DATABASE_QUERY"

	// Resource errors
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"

	// Validation errors
	ErrCodeValidation   ErrorCode = "VALIDATION"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Upstream service errors
	ErrCodeUpstreamTransport ErrorCode = "UPSTREAM_TRANSPORT"
	ErrCodeUpstreamRejected  ErrorCode = "UPSTREAM_REJECTED"
	ErrCodeGenerationTimeout ErrorCode = "GENERATION_TIMEOUT"
	ErrCodeRateLimited       ErrorCode = "RATE_LIMITED"

	// Internal errors
	ErrCodeInternal    ErrorCode = "INTERNAL"
	ErrCodeProcessing  ErrorCode = "PROCESSING"
	ErrCodeServiceDown ErrorCode = "SERVICE_DOWN"
)

// AppError represents a structured application error
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  map[string]interface{} `json:"details,omitempty"`
	Cause    error                  `json:"-"`
	HTTPCode int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// GetHTTPCode returns the appropriate HTTP status code
func (e *AppError) GetHTTPCode() int {
	if e.HTTPCode != 0 {
		return e.HTTPCode
	}
	return getDefaultHTTPCode(e.Code)
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(cause error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Cause:    cause,
		HTTPCode: getDefaultHTTPCode(code),
	}
}

func getDefaultHTTPCode(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidTransition:
		return http.StatusConflict
	case ErrCodeValidation, ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeGenerationTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUpstreamTransport, ErrCodeUpstreamRejected:
		return http.StatusBadGateway
	case ErrCodeServiceDown:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors

// NotFound creates a not found error
func NotFound(resource string, id interface{}) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

// InvalidTransition reports a status change the record's lifecycle does not allow
func InvalidTransition(resource string, from, to string) *AppError {
	return New(ErrCodeInvalidTransition, fmt.Sprintf("cannot move %s from %s to %s", resource, from, to)).
		WithDetail("from", from).
		WithDetail("to", to)
}

// ValidationError creates a validation error
func ValidationError(field string, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// InvalidInput rejects a value outside an enumerated set
func InvalidInput(field string, value interface{}, allowed []string) *AppError {
	return New(ErrCodeInvalidInput, fmt.Sprintf("invalid %s %v", field, value)).
		WithDetail("field", field).
		WithDetail("allowed", allowed)
}

// UpstreamTransport wraps a network or HTTP failure calling an external API
func UpstreamTransport(service string, cause error) *AppError {
	return Wrap(cause, ErrCodeUpstreamTransport, fmt.Sprintf("request to %s failed", service)).
		WithDetail("service", service)
}

// UpstreamRejected reports an external API answering with a non-success result
func UpstreamRejected(service string, status int, message string) *AppError {
	return New(ErrCodeUpstreamRejected, fmt.Sprintf("%s rejected the request: %s", service, message)).
		WithDetail("service", service).
		WithDetail("status", status)
}

// GenerationTimeout reports a poll loop that ran out of attempts
func GenerationTimeout(service string, attempts int, jobID string) *AppError {
	return New(ErrCodeGenerationTimeout, fmt.Sprintf("%s job %s did not finish after %d attempts", service, jobID, attempts)).
		WithDetail("service", service).
		WithDetail("attempts", attempts).
		WithDetail("job_id", jobID)
}

// ConfigurationMissing reports an absent credential
func ConfigurationMissing(key string) *AppError {
	return New(ErrCodeConfigMissing, fmt.Sprintf("configuration '%s' is not set", key)).
		WithDetail("key", key)
}

// DatabaseError creates a database error
func DatabaseError(operation string, cause error) *AppError {
	return Wrap(cause, ErrCodeDatabaseQuery, fmt.Sprintf("database %s failed", operation)).
		WithDetail("operation", operation)
}

// Is checks if any error in the chain carries the given code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// GetHTTPCode extracts the HTTP status code from an error
func GetHTTPCode(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.GetHTTPCode()
	}
	return http.StatusInternalServerError
}

// IsRetryable reports whether the failure is transient
func IsRetryable(err error) bool {
	switch GetCode(err) {
	case ErrCodeUpstreamTransport, ErrCodeRateLimited, ErrCodeServiceDown:
		return true
	case ErrCodeUpstreamRejected:
		var appErr *AppError
		if stderrors.As(err, &appErr) {
			if status, ok := appErr.Details["status"].(int); ok {
				return status >= 500
			}
		}
	}
	return false
}
