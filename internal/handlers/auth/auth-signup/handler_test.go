package authsignup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"medcost-service/internal/common/auth"
	"medcost-service/internal/common/errors"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/models"
)

// ==========================
// Mocks
// ==========================

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = "0b7e2f9e-3d1c-4e55-9a57-2c1f0f0e8a11"
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg models.EmailMessage) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

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

// ==========================
// Test Helpers
// ==========================

func createValidConfig() *Config {
	cfg := DefaultConfig()
	cfg.BcryptCost = bcrypt.MinCost
	return cfg
}

func newTestService(t *testing.T, users *MockUserRepository, mailer Mailer) *Service {
	t.Helper()
	return NewService(ServiceDependencies{
		Users:  users,
		Tokens: auth.NewTokenManager("test-secret", 7*24*time.Hour),
		Mailer: mailer,
		Logger: logger.NewTestLogger(t),
	}, createValidConfig())
}

func errorCode(t *testing.T, err error) errors.ErrorCode {
	t.Helper()
	require.Error(t, err)
	return errors.Resolve(err).Code
}

// ==========================
// Configuration Tests
// ==========================

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, errMsg: "timeout must be positive"},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.BcryptCost = 2 }, errMsg: "bcrypt_cost"},
		{name: "no password length", mutate: func(c *Config) { c.MinPasswordLength = 0 }, errMsg: "min_password_length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

// ==========================
// Service Tests
// ==========================

func TestService_Execute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   *Input
		message string
	}{
		{"missing email", &Input{Password: "secret1", Name: "Asha"}, "Email, password, and name are required"},
		{"missing password", &Input{Email: "a@b.co", Name: "Asha"}, "Email, password, and name are required"},
		{"blank name", &Input{Email: "a@b.co", Password: "secret1", Name: "   "}, "Email, password, and name are required"},
		{"short password", &Input{Email: "a@b.co", Password: "12345", Name: "Asha"}, "Password must be at least 6 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &MockUserRepository{}
			_, err := newTestService(t, users, nil).Execute(context.Background(), tt.input)
			assert.Equal(t, errors.ErrCodeValidationFailed, errorCode(t, err))
			assert.Equal(t, tt.message, errors.Resolve(err).Message)
			users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Execute_Success(t *testing.T) {
	users := &MockUserRepository{}
	users.On("FindByEmail", mock.Anything, "asha@example.in").Return(nil, models.ErrUserNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		ok, _ := auth.CheckPassword(u.PasswordHash, "secret1")
		return u.Email == "asha@example.in" && u.Name == "Asha" && ok && *u.Age == 34
	})).Return(nil)

	mailer := &MockMailer{}
	mailer.On("Send", mock.Anything, mock.MatchedBy(func(m models.EmailMessage) bool {
		return len(m.To) == 1 && m.To[0] == "asha@example.in" && strings.Contains(m.Body, "Hi Asha")
	})).Return("msg-1", nil)

	age := 34
	svc := newTestService(t, users, mailer)
	out, err := svc.Execute(context.Background(), &Input{Email: " asha@example.in ", Password: "secret1", Name: "Asha", Age: &age})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, "User registered successfully", out.Message)
	assert.Equal(t, UserSummary{ID: "0b7e2f9e-3d1c-4e55-9a57-2c1f0f0e8a11", Email: "asha@example.in", Name: "Asha"}, out.User)

	claims, err := svc.tokens.Parse(out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)
	assert.Equal(t, "asha@example.in", claims.Email)

	users.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestService_Execute_MailFailureIsNotFatal(t *testing.T) {
	users := &MockUserRepository{}
	users.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, models.ErrUserNotFound)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	mailer := &MockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything).Return("", fmt.Errorf("ses throttled"))

	out, err := newTestService(t, users, mailer).Execute(context.Background(), &Input{Email: "a@b.co", Password: "secret1", Name: "A"})
	require.NoError(t, err)
	assert.True(t, out.Success)
}

func TestService_Execute_Duplicate(t *testing.T) {
	t.Run("existing account", func(t *testing.T) {
		users := &MockUserRepository{}
		users.On("FindByEmail", mock.Anything, "a@b.co").Return(&models.User{ID: "x", Email: "a@b.co"}, nil)
		_, err := newTestService(t, users, nil).Execute(context.Background(), &Input{Email: "a@b.co", Password: "secret1", Name: "A"})
		assert.Equal(t, errors.ErrCodeDuplicateUser, errorCode(t, err))
		assert.Equal(t, "User already exists", errors.Resolve(err).Message)
	})

	t.Run("lost the insert race", func(t *testing.T) {
		users := &MockUserRepository{}
		users.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, models.ErrUserNotFound)
		users.On("Create", mock.Anything, mock.Anything).Return(models.ErrDuplicateUser)
		_, err := newTestService(t, users, nil).Execute(context.Background(), &Input{Email: "a@b.co", Password: "secret1", Name: "A"})
		assert.Equal(t, errors.ErrCodeDuplicateUser, errorCode(t, err))
	})

	t.Run("lookup failure", func(t *testing.T) {
		users := &MockUserRepository{}
		users.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("connection reset"))
		_, err := newTestService(t, users, nil).Execute(context.Background(), &Input{Email: "a@b.co", Password: "secret1", Name: "A"})
		assert.Equal(t, errors.ErrCodeDatabaseQueryFailed, errorCode(t, err))
	})
}

// ==========================
// HTTP Tests
// ==========================

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		mockSetup  func(*MockService)
		wantStatus int
		wantError  string
	}{
		{
			name: "success",
			body: `{"email":"a@b.co","password":"secret1","name":"A","age":30,"gender":"Female"}`,
			mockSetup: func(m *MockService) {
				gender := "Female"
				age := 30
				m.On("Execute", mock.Anything, &Input{Email: "a@b.co", Password: "secret1", Name: "A", Age: &age, Gender: &gender}).
					Return(&Output{Success: true, Token: "t", User: UserSummary{ID: "1", Email: "a@b.co", Name: "A"}, Message: "User registered successfully"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed json",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid JSON body",
		},
		{
			name:       "wrong field type",
			body:       `{"email":42,"password":"secret1","name":"A"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Input validation failed",
		},
		{
			name: "duplicate maps to 409",
			body: `{"email":"a@b.co","password":"secret1","name":"A"}`,
			mockSetup: func(m *MockService) {
				m.On("Execute", mock.Anything, mock.Anything).Return(nil, errors.NewDuplicateUserError("a@b.co"))
			},
			wantStatus: http.StatusConflict,
			wantError:  "User already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandler(HandlerOptions{CustomConfig: createValidConfig(), Logger: logger.NewNoOpLogger()})
			require.NoError(t, err)
			svc := &MockService{}
			if tt.mockSetup != nil {
				tt.mockSetup(svc)
			}
			h.service = svc

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantError != "" {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, tt.wantError, body["error"])
			} else {
				assert.Equal(t, true, body["success"])
			}
			svc.AssertExpectations(t)
		})
	}
}
