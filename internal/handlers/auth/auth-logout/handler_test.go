package authlogout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medcost-service/internal/common/auth"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/models"
)

// ==========================
// Mock Service Implementation
// ==========================

type MockService struct {
	mock.Mock
}

func (m *MockService) Execute(ctx context.Context, input *Input) (*Output, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Output), args.Error(1)
}

type failingRevoker struct{}

func (failingRevoker) Revoke(context.Context, string, time.Duration) error {
	return fmt.Errorf("connection refused")
}

var fixedNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, revoker Revoker) *Service {
	t.Helper()
	s := NewService(ServiceDependencies{Revocations: revoker, Logger: logger.NewTestLogger(t)}, DefaultConfig())
	s.now = func() time.Time { return fixedNow }
	return s
}

// ==========================
// Handler Creation Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	tests := []struct {
		name    string
		opts    HandlerOptions
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid configuration",
			opts:    HandlerOptions{CustomConfig: DefaultConfig(), Logger: logger.NewNoOpLogger()},
			wantErr: false,
		},
		{
			name:    "invalid timeout",
			opts:    HandlerOptions{CustomConfig: &Config{Enabled: true, Timeout: -1 * time.Second}},
			wantErr: true,
			errMsg:  "timeout must be positive",
		},
		{
			name:    "default logger created when not provided",
			opts:    HandlerOptions{},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, err := NewHandler(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, handler)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, handler.config)
			assert.NotNil(t, handler.Logger)
			assert.NotNil(t, handler.service)
		})
	}
}

// ==========================
// Service Tests
// ==========================

func TestService_Execute(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := auth.NewRevocationStore(client)

	tests := []struct {
		name        string
		revoker     Revoker
		input       *Input
		wantErr     bool
		wantRevoked bool
	}{
		{
			name:        "revokes until token expiry",
			revoker:     store,
			input:       &Input{UserID: "user-1", TokenID: "tok-1", ExpiresAt: fixedNow.Add(2 * time.Hour)},
			wantRevoked: true,
		},
		{
			name:        "store failure still logs the user out",
			revoker:     failingRevoker{},
			input:       &Input{UserID: "user-1", TokenID: "tok-2", ExpiresAt: fixedNow.Add(time.Hour)},
			wantRevoked: false,
		},
		{
			name:    "missing token id",
			revoker: store,
			input:   &Input{UserID: "user-1"},
			wantErr: true,
		},
		{
			name:    "missing user id",
			revoker: store,
			input:   &Input{TokenID: "tok-3"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := newTestService(t, tt.revoker).Execute(context.Background(), tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, out.Success)
			assert.Equal(t, "Logout successful", out.Message)
			assert.Equal(t, tt.wantRevoked, out.TokenRevoked)
			assert.Equal(t, fixedNow, out.LogoutAt)
		})
	}

	ttl := mr.TTL("token:revoked:tok-1")
	assert.Equal(t, 2*time.Hour, ttl)

	revoked, err := store.IsRevoked(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestService_ExecuteWithoutStore(t *testing.T) {
	_, err := newTestService(t, nil).Execute(context.Background(), &Input{UserID: "u", TokenID: "t"})
	assert.ErrorContains(t, err, "SERVICE_UNAVAILABLE")
}

// ==========================
// HTTP Tests
// ==========================

func TestHandler_ServeHTTP(t *testing.T) {
	session := &models.Session{TokenID: "tok-9", UserID: "user-9", ExpiresAt: fixedNow.Add(time.Hour)}

	t.Run("passes the session through", func(t *testing.T) {
		svc := &MockService{}
		svc.On("Execute", mock.Anything, &Input{UserID: "user-9", TokenID: "tok-9", ExpiresAt: session.ExpiresAt}).
			Return(&Output{Success: true, Message: "Logout successful", TokenRevoked: true, LogoutAt: fixedNow}, nil)

		h, err := NewHandler(HandlerOptions{CustomConfig: DefaultConfig(), Logger: logger.NewNoOpLogger()})
		require.NoError(t, err)
		h.service = svc

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req = req.WithContext(auth.WithSession(req.Context(), session))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["tokenRevoked"])
		svc.AssertExpectations(t)
	})

	t.Run("no session", func(t *testing.T) {
		h, err := NewHandler(HandlerOptions{CustomConfig: DefaultConfig(), Logger: logger.NewNoOpLogger()})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("disabled", func(t *testing.T) {
		h, err := NewHandler(HandlerOptions{CustomConfig: &Config{Enabled: false, Timeout: time.Second}})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
