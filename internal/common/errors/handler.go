// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorHandler writes StandardErrors as JSON responses with consistent logging.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// ErrorResponse is the error envelope returned to API clients.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   string    `json:"error"`
	Code    ErrorCode `json:"code"`
	Details string    `json:"details,omitempty"`
}

// HandleRequestError resolves err, logs it and writes the response.
// Client errors (4xx) are logged at warn, the rest at error.
func (h *ErrorHandler) HandleRequestError(w http.ResponseWriter, r *http.Request, requestID string, err error) {
	stdErr := Resolve(err)
	status := HTTPStatus(stdErr.Code)

	h.logError(r, requestID, status, stdErr)

	resp := ErrorResponse{
		Success: false,
		Error:   stdErr.Message,
		Code:    stdErr.Code,
	}
	// Internal details stay in the logs.
	if status < http.StatusInternalServerError {
		resp.Details = stdErr.Details
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *ErrorHandler) logError(r *http.Request, requestID string, status int, stdErr *StandardError) {
	fields := map[string]interface{}{
		"requestId":     requestID,
		"method":        r.Method,
		"path":          r.URL.Path,
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", fields)
		return
	}
	h.logger.Warn("Request rejected", fields)
}
