// Package errors provides standardized error handling for the HTTP API.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidJSON      ErrorCode = "INVALID_JSON"

	ErrCodeDuplicateUser       ErrorCode = "DUPLICATE_USER"
	ErrCodeAuthenticationError ErrorCode = "AUTHENTICATION_ERROR"
	ErrCodeInvalidCredentials  ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeTokenMissing        ErrorCode = "TOKEN_MISSING"
	ErrCodeTokenInvalid        ErrorCode = "TOKEN_INVALID"
	ErrCodeTokenExpired        ErrorCode = "TOKEN_EXPIRED"
	ErrCodeTokenRevoked        ErrorCode = "TOKEN_REVOKED"
	ErrCodeResourceNotFound    ErrorCode = "RESOURCE_NOT_FOUND"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseQueryFailed      ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeCacheOperationFailed     ErrorCode = "CACHE_OPERATION_FAILED"

	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeSearchQueryFailed             ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchIndexFailed             ErrorCode = "SEARCH_INDEX_FAILED"

	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeLLMTimeout         ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMRequestFailed   ErrorCode = "LLM_REQUEST_FAILED"

	ErrCodeModelNotLoaded   ErrorCode = "MODEL_NOT_LOADED"
	ErrCodePredictionFailed ErrorCode = "PREDICTION_FAILED"
	ErrCodeDatasetFailed    ErrorCode = "DATASET_UNAVAILABLE"
	ErrCodeExportFailed     ErrorCode = "EXPORT_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeExternalService        ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout                ErrorCode = "TIMEOUT_ERROR"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key to the error's metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationError creates a non-retryable input error. The message is
// returned to clients verbatim.
func NewValidationError(message, details string) *StandardError {
	return newError(ErrCodeValidationFailed, message, details, false)
}

func NewInvalidJSONError(err error) *StandardError {
	return newError(ErrCodeInvalidJSON, "Invalid JSON body", err.Error(), false)
}

func NewDuplicateUserError(email string) *StandardError {
	return newError(ErrCodeDuplicateUser, "User already exists", fmt.Sprintf("email: %s", email), false)
}

// NewAuthenticationError is the generic 401. message is client facing.
func NewAuthenticationError(message, details string) *StandardError {
	return newError(ErrCodeAuthenticationError, message, details, false)
}

func NewInvalidCredentialsError() *StandardError {
	return newError(ErrCodeInvalidCredentials, "Invalid email or password", "", false)
}

func NewTokenMissingError() *StandardError {
	return newError(ErrCodeTokenMissing, "Token is missing", "", false)
}

func NewTokenInvalidError(message string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return newError(ErrCodeTokenInvalid, message, details, false)
}

func NewTokenExpiredError() *StandardError {
	return newError(ErrCodeTokenExpired, "Token has expired", "", false)
}

func NewTokenRevokedError() *StandardError {
	return newError(ErrCodeTokenRevoked, "Token has been revoked", "", false)
}

func NewResourceNotFoundError(message, details string) *StandardError {
	return newError(ErrCodeResourceNotFound, message, details, false)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

func NewDatabaseQueryFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeDatabaseQueryFailed, "Database query failed",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true)
}

func NewCacheOperationFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeCacheOperationFailed, "Cache operation failed",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeElasticsearchConnectionFailed, "Elasticsearch connection error", err.Error(), true)
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Failed to load prediction history",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

func NewSearchIndexFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchIndexFailed, "Failed to store document",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

// NewServiceUnavailableError is returned when an optional collaborator
// (usually the LLM) is not configured.
func NewServiceUnavailableError(message string) *StandardError {
	return newError(ErrCodeServiceUnavailable, message, "", false)
}

func NewLLMTimeoutError(timeout time.Duration) *StandardError {
	return newError(ErrCodeLLMTimeout, "LLM request timeout",
		fmt.Sprintf("LLM call exceeded %s timeout", timeout), true)
}

func NewLLMRequestFailedError(err error) *StandardError {
	return newError(ErrCodeLLMRequestFailed, "LLM request failed", err.Error(), true)
}

func NewModelNotLoadedError(details string) *StandardError {
	return newError(ErrCodeModelNotLoaded, "Prediction model is not loaded", details, false)
}

func NewPredictionFailedError(err error) *StandardError {
	return newError(ErrCodePredictionFailed, "Prediction failed", err.Error(), false)
}

func NewDatasetUnavailableError(err error) *StandardError {
	return newError(ErrCodeDatasetFailed, "Dataset is unavailable", err.Error(), false)
}

func NewExportFailedError(err error) *StandardError {
	return newError(ErrCodeExportFailed, "Failed to build export", err.Error(), false)
}

func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()), true)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Internal server error", err.Error(), false)
}

// ==========================
// 3. HTTP Mapping
// ==========================

var httpStatusMapping = map[ErrorCode]int{
	ErrCodeValidationFailed:              http.StatusBadRequest,
	ErrCodeInvalidJSON:                   http.StatusBadRequest,
	ErrCodeDuplicateUser:                 http.StatusConflict,
	ErrCodeAuthenticationError:           http.StatusUnauthorized,
	ErrCodeInvalidCredentials:            http.StatusUnauthorized,
	ErrCodeTokenMissing:                  http.StatusUnauthorized,
	ErrCodeTokenInvalid:                  http.StatusUnauthorized,
	ErrCodeTokenExpired:                  http.StatusUnauthorized,
	ErrCodeTokenRevoked:                  http.StatusUnauthorized,
	ErrCodeResourceNotFound:              http.StatusNotFound,
	ErrCodeDatabaseConnectionFailed:      http.StatusServiceUnavailable,
	ErrCodeElasticsearchConnectionFailed: http.StatusServiceUnavailable,
	ErrCodeServiceUnavailable:            http.StatusServiceUnavailable,
	ErrCodeModelNotLoaded:                http.StatusServiceUnavailable,
	ErrCodeDatasetFailed:                 http.StatusServiceUnavailable,
	ErrCodeLLMTimeout:                    http.StatusGatewayTimeout,
	ErrCodeTimeout:                       http.StatusGatewayTimeout,
	ErrCodeLLMRequestFailed:              http.StatusBadGateway,
	ErrCodeExternalService:               http.StatusBadGateway,
	ErrCodePredictionFailed:              http.StatusBadRequest,
}

// HTTPStatus returns the response status for an error code. Unmapped codes are 500.
func HTTPStatus(code ErrorCode) int {
	if status, ok := httpStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Resolve normalizes any error into a StandardError, unwrapping wrapped chains.
func Resolve(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// ==========================
// 4. Utility Functions
// ==========================

// GetRetryCount returns how many times a caller may retry an operation that failed with code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseQueryFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeSearchIndexFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeLLMRequestFailed:
		return 3

	case ErrCodeCacheOperationFailed:
		return 2

	case ErrCodeLLMTimeout:
		return 1

	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "TOKEN") || strings.Contains(codeStr, "AUTH") ||
		strings.Contains(codeStr, "CREDENTIALS") || strings.Contains(codeStr, "USER"):
		return "AUTH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "CACHE"):
		return "DATABASE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "LLM"):
		return "AI"
	case strings.Contains(codeStr, "MODEL") || strings.Contains(codeStr, "PREDICTION") ||
		strings.Contains(codeStr, "DATASET"):
		return "MODEL"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
