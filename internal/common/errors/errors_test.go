package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	warns  []string
	errors []string
}

func (l *recordingLogger) Warn(msg string, _ map[string]interface{})  { l.warns = append(l.warns, msg) }
func (l *recordingLogger) Error(msg string, _ map[string]interface{}) { l.errors = append(l.errors, msg) }

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeValidationFailed, http.StatusBadRequest},
		{ErrCodeDuplicateUser, http.StatusConflict},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		{ErrCodeLLMRequestFailed, http.StatusBadGateway},
		{ErrCodeLLMTimeout, http.StatusGatewayTimeout},
		{ErrCodeDatabaseQueryFailed, http.StatusInternalServerError},
		{ErrorCode("SOMETHING_NEW"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestResolve(t *testing.T) {
	assert.Nil(t, Resolve(nil))

	dup := NewDuplicateUserError("a@b.c")
	wrapped := fmt.Errorf("signup: %w", dup)
	assert.Same(t, dup, Resolve(wrapped))

	plain := Resolve(stderrors.New("disk on fire"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "disk on fire", plain.Details)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "AUTH", GetErrorCategory(ErrCodeTokenRevoked))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeCacheOperationFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchQueryFailed))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeLLMTimeout))
	assert.Equal(t, "MODEL", GetErrorCategory(ErrCodeModelNotLoaded))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeValidationFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestRetryCounts(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeLLMRequestFailed))
	assert.Equal(t, 1, GetRetryCount(ErrCodeLLMTimeout))
	assert.False(t, IsRetryableErrorCode(ErrCodeValidationFailed))
}

func TestErrorHandler_HandleRequestError(t *testing.T) {
	t.Run("client error keeps details and logs warn", func(t *testing.T) {
		log := &recordingLogger{}
		h := NewErrorHandler(log)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", nil)

		h.HandleRequestError(rec, req, "req-1", NewValidationError("Password must be at least 6 characters", "len=3"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "Password must be at least 6 characters", body.Error)
		assert.Equal(t, "len=3", body.Details)
		assert.Len(t, log.warns, 1)
		assert.Empty(t, log.errors)
	})

	t.Run("server error hides details", func(t *testing.T) {
		log := &recordingLogger{}
		h := NewErrorHandler(log)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/statistics", nil)

		h.HandleRequestError(rec, req, "req-2", stderrors.New("secret path /etc/x"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Internal server error", body.Error)
		assert.Empty(t, body.Details)
		assert.Len(t, log.errors, 1)
	})
}
