package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medcost-service/internal/common/auth"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/common/metrics"
	"medcost-service/internal/dataset"
	"medcost-service/internal/ml"
	"medcost-service/internal/models"
)

const testSecret = "test-secret-key"

// memoryUsers is an in-memory UserRepository.
type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]*models.User{}}
}

func (m *memoryUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return models.ErrDuplicateUser
		}
	}
	user.ID = uuid.NewString()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, models.ErrUserNotFound
}

func (m *memoryUsers) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	u.LastLoginAt = &at
	return nil
}

type memoryHistory struct {
	mu      sync.Mutex
	records []models.PredictionRecord
}

func (m *memoryHistory) Save(_ context.Context, rec *models.PredictionRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = uuid.NewString()
	m.records = append([]models.PredictionRecord{*rec}, m.records...)
	return rec.ID, nil
}

func (m *memoryHistory) ListByUser(_ context.Context, email string, limit int) ([]models.PredictionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.PredictionRecord{}
	for _, r := range m.records {
		if r.UserEmail == email && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type testServer struct {
	*httptest.Server
	users   *memoryUsers
	redis   *miniredis.Miniredis
	tokens  *auth.TokenManager
	history *memoryHistory
}

func newTestServer(t *testing.T, mutate func(*Dependencies)) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	model, err := ml.Load("../ml/testdata/artifacts")
	require.NoError(t, err)
	ds, err := dataset.LoadFile("../dataset/testdata/sample.csv")
	require.NoError(t, err)

	ts := &testServer{
		users:   newMemoryUsers(),
		redis:   mr,
		tokens:  auth.NewTokenManager(testSecret, 7*24*time.Hour),
		history: &memoryHistory{},
	}
	deps := Dependencies{
		Logger:   logger.NewTestLogger(t),
		Users:    ts.users,
		Tokens:   ts.tokens,
		Sessions: auth.NewRevocationStore(client),
		Cache:    client,
		History:  ts.history,
		Model:    model,
		Dataset:  ds,
		ReadyChecks: map[string]Pinger{
			"redis": pingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() }),
		},
	}
	if mutate != nil {
		mutate(&deps)
	}
	router, err := NewRouter(deps)
	require.NoError(t, err)

	ts.Server = httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &out), string(data))
	}
	return resp.StatusCode, out
}

func TestNewRouter_RequiresAuthCollaborators(t *testing.T) {
	_, err := NewRouter(Dependencies{Logger: logger.NewNoOpLogger()})
	assert.EqualError(t, err, "users and tokens are required")
}

func TestRouter_Index(t *testing.T) {
	ts := newTestServer(t, nil)

	status, body := ts.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Cost Prediction Treatment API", body["message"])
	assert.Equal(t, "1.0", body["version"])
	assert.Len(t, body["endpoints"], len(fallbackPaths))
}

func TestRouter_AccountLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)

	status, body := ts.do(t, http.MethodPost, "/api/auth/signup", "",
		`{"email":"meera@example.in","password":"secret123","name":"Meera","age":41,"gender":"Female"}`)
	require.Equal(t, http.StatusOK, status, body)
	signupToken := body["token"].(string)
	assert.Equal(t, "User registered successfully", body["message"])

	status, body = ts.do(t, http.MethodPost, "/api/auth/signup", "",
		`{"email":"MEERA@example.in","password":"secret123","name":"Meera"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "User already exists", body["error"])

	status, body = ts.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"meera@example.in","password":"secret123"}`)
	require.Equal(t, http.StatusOK, status, body)
	token := body["token"].(string)
	assert.NotEqual(t, signupToken, token)

	status, body = ts.do(t, http.MethodGet, "/api/auth/me", token, "")
	require.Equal(t, http.StatusOK, status, body)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "meera@example.in", user["email"])
	assert.Equal(t, 41.0, user["age"])

	// A prediction tagged with the user's email lands in their history.
	status, _ = ts.do(t, http.MethodPost, "/api/predict", "", `{"age":70,"smoker":"Yes","user_email":"meera@example.in"}`)
	require.Equal(t, http.StatusOK, status)

	status, body = ts.do(t, http.MethodGet, "/api/users/predictions?limit=5", token, "")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, 1.0, body["count"])

	status, body = ts.do(t, http.MethodPost, "/api/auth/logout", token, "")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["tokenRevoked"])

	status, body = ts.do(t, http.MethodGet, "/api/auth/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "TOKEN_REVOKED", body["code"])

	// Other tokens for the same user stay valid.
	status, _ = ts.do(t, http.MethodGet, "/api/auth/me", signupToken, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestRouter_PredictOwnership(t *testing.T) {
	ts := newTestServer(t, nil)

	status, body := ts.do(t, http.MethodPost, "/api/auth/signup", "",
		`{"email":"ravi@example.in","password":"secret123","name":"Ravi"}`)
	require.Equal(t, http.StatusOK, status, body)
	token := body["token"].(string)

	// A signed-in caller cannot file predictions under someone else's email.
	status, body = ts.do(t, http.MethodPost, "/api/predict", token, `{"age":52,"user_email":"meera@example.in"}`)
	require.Equal(t, http.StatusOK, status, body)

	status, body = ts.do(t, http.MethodGet, "/api/users/predictions", token, "")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, 1.0, body["count"])
	for _, rec := range ts.history.records {
		assert.Equal(t, "ravi@example.in", rec.UserEmail)
	}

	status, body = ts.do(t, http.MethodPost, "/api/predict", "not.a.jwt", `{"age":52}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "TOKEN_INVALID", body["code"])

	status, _ = ts.do(t, http.MethodPost, "/api/predict", "", `{"age":52}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, ts.history.records, 1)
}

func TestRouter_AuthFailures(t *testing.T) {
	ts := newTestServer(t, nil)

	ghost, _, err := ts.tokens.Issue(uuid.NewString(), "ghost@example.in")
	require.NoError(t, err)

	past := time.Now().Add(-8 * 24 * time.Hour)
	expired, _, err := auth.NewTokenManager(testSecret, 7*24*time.Hour).WithClock(func() time.Time { return past }).Issue(uuid.NewString(), "old@example.in")
	require.NoError(t, err)

	forged, _, err := auth.NewTokenManager("another-secret", time.Hour).Issue(uuid.NewString(), "x@example.in")
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		message string
		code    string
	}{
		{name: "missing", header: "", message: "Token is missing", code: "TOKEN_MISSING"},
		{name: "malformed header", header: "Token abc", message: "Invalid token format", code: "TOKEN_INVALID"},
		{name: "garbage token", header: "Bearer not.a.jwt", message: "Invalid token", code: "TOKEN_INVALID"},
		{name: "wrong signature", header: "Bearer " + forged, message: "Invalid token", code: "TOKEN_INVALID"},
		{name: "expired", header: "Bearer " + expired, message: "Token has expired", code: "TOKEN_EXPIRED"},
		{name: "unknown user", header: "Bearer " + ghost, message: "User not found", code: "AUTHENTICATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/auth/me", nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["error"])
			assert.Equal(t, tt.code, body["code"])
		})
	}
}

func TestRouter_RevocationStoreDown(t *testing.T) {
	ts := newTestServer(t, nil)
	status, body := ts.do(t, http.MethodPost, "/api/auth/signup", "", `{"email":"a@example.in","password":"secret123","name":"A"}`)
	require.Equal(t, http.StatusOK, status, body)

	ts.redis.Close()
	status, body = ts.do(t, http.MethodGet, "/api/auth/me", body["token"].(string), "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Session store unavailable", body["error"])
}

func TestRouter_PublicEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		method string
		path   string
		body   string
		status int
		key    string
	}{
		{method: http.MethodPost, path: "/api/predict", body: `{}`, status: http.StatusOK, key: "cost_explanation"},
		{method: http.MethodGet, path: "/api/statistics", status: http.StatusOK, key: "cost_statistics"},
		{method: http.MethodGet, path: "/api/visualizations", status: http.StatusOK, key: "polar_chart"},
		{method: http.MethodGet, path: "/api/feature-importance", status: http.StatusOK, key: "top_5_features"},
		{method: http.MethodPost, path: "/api/chat", body: `{"message":"hi"}`, status: http.StatusServiceUnavailable, key: "error"},
		{method: http.MethodPost, path: "/api/profile-disease", body: `{"disease_description":"asthma"}`, status: http.StatusServiceUnavailable, key: "error"},
		{method: http.MethodGet, path: "/health", status: http.StatusOK, key: "status"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			status, body := ts.do(t, tt.method, tt.path, "", tt.body)
			assert.Equal(t, tt.status, status, body)
			assert.Contains(t, body, tt.key)
		})
	}
}

func TestRouter_WithoutModelOrDataset(t *testing.T) {
	ts := newTestServer(t, func(d *Dependencies) {
		d.Model = nil
		d.Dataset = nil
	})

	status, body := ts.do(t, http.MethodPost, "/api/predict", "", `{}`)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "MODEL_NOT_LOADED", body["code"])

	status, body = ts.do(t, http.MethodGet, "/api/statistics", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "DATASET_UNAVAILABLE", body["code"])
}

func TestRouter_Ready(t *testing.T) {
	ts := newTestServer(t, func(d *Dependencies) {
		d.ReadyChecks["postgres"] = pingFunc(func(context.Context) error { return fmt.Errorf("connection refused") })
	})

	status, body := ts.do(t, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "not ready", body["status"])
	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "ok", checks["redis"])
	assert.Equal(t, "connection refused", checks["postgres"])
}

func TestRouter_CORSPreflight(t *testing.T) {
	ts := newTestServer(t, func(d *Dependencies) {
		d.Config = nil
	})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/predict", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, Authorization")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
}

func TestRouter_RecordsMetrics(t *testing.T) {
	ts := newTestServer(t, nil)

	counter := metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/api/statistics", "200")
	before := testutil.ToFloat64(counter)
	ts.do(t, http.MethodGet, "/api/statistics", "", "")
	assert.Equal(t, before+1, testutil.ToFloat64(counter))

	unmatched := metrics.HTTPRequests.WithLabelValues(http.MethodGet, "unmatched", "404")
	before = testutil.ToFloat64(unmatched)
	resp, err := http.Get(ts.URL + "/does-not-exist")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, before+1, testutil.ToFloat64(unmatched))

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(data), "http_requests_total")
}
