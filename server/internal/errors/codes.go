package errors

import (
	"fmt"
)

// ErrorCode classifies a service failure for consistent HTTP mapping and
// logging.
type ErrorCode string

const (
	// ErrCodeUnauthorized indicates authentication failure.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeNotFound indicates the requested entity does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeRateLimitExceeded indicates the caller exceeded a request quota.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeFeatureDisabled indicates the feature is switched off for this
	// instance.
	ErrCodeFeatureDisabled ErrorCode = "FEATURE_DISABLED"
	// ErrCodeCooldownActive indicates a cached failure is still within its
	// cooldown window.
	ErrCodeCooldownActive ErrorCode = "COOLDOWN_ACTIVE"
	// ErrCodeSearchFailed indicates the upstream image search failed.
	ErrCodeSearchFailed ErrorCode = "SEARCH_FAILED"
	// ErrCodeUploadFailed indicates fetching or storing an image failed.
	ErrCodeUploadFailed ErrorCode = "UPLOAD_FAILED"
	// ErrCodeNoImage indicates the search completed without a usable
	// candidate.
	ErrCodeNoImage ErrorCode = "NO_IMAGE"
	// ErrCodeInternal indicates an unexpected server-side failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// ServiceError is a structured error carrying a stable code.
type ServiceError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// Convenience constructors for common error types.

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *ServiceError {
	return &ServiceError{Code: ErrCodeUnauthorized, Message: msg}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *ServiceError {
	return &ServiceError{Code: ErrCodeInvalidArgument, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *ServiceError {
	return &ServiceError{Code: ErrCodeNotFound, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *ServiceError {
	return &ServiceError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// FeatureDisabled creates a feature disabled error.
func FeatureDisabled(feature string) *ServiceError {
	return &ServiceError{
		Code:    ErrCodeFeatureDisabled,
		Message: fmt.Sprintf("feature disabled: %s", feature),
	}
}

// Wrap wraps an existing error with a code and message.
func Wrap(cause error, code ErrorCode, msg string) *ServiceError {
	return &ServiceError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if serviceErr, ok := err.(*ServiceError); ok {
		return serviceErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not a ServiceError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if serviceErr, ok := err.(*ServiceError); ok {
		return serviceErr.Code
	}
	return defaultCode
}
