package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
app:
  name: medcost-service
auth:
  jwt_secret: ${TEST_JWT_SECRET}
database:
  postgres:
    host: localhost
    database: medcost
    user: medcost
  elasticsearch:
    addresses: ["http://localhost:9200"]
  redis:
    address: localhost:6379
handlers:
  predict-cost:
    enabled: true
  chat-assistant:
    enabled: false
    timeout: 5000
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_DefaultsAndExpansion(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "s3cret")
	t.Setenv("GROQ_API_KEY", "gsk-test")

	cfg, err := LoadFromFile(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 168, cfg.Auth.TokenTTLHours)
	assert.Equal(t, 6, cfg.Auth.MinPasswordLength)
	assert.Equal(t, "gsk-test", cfg.APIs.LLM.APIKey)
	assert.True(t, cfg.APIs.LLM.Enabled())
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.APIs.LLM.ChatModel)
	assert.Equal(t, "http://localhost:9200", cfg.Database.Elasticsearch.URL)
	assert.Equal(t, "predictions", cfg.Database.Elasticsearch.PredictionsIndex)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, ":5000", cfg.Server.Address)
	assert.NotEmpty(t, cfg.Alerts.Expression)

	assert.Equal(t, 30000, cfg.Handlers["predict-cost"].Timeout)
	assert.Equal(t, 5000, cfg.Handlers["chat-assistant"].Timeout)
	assert.False(t, IsHandlerEnabled(cfg, "chat-assistant"))
	assert.True(t, IsHandlerEnabled(cfg, "not-configured"))
	assert.Equal(t, 2, GetHandlerConfig(cfg, "not-configured").MaxRetries)
}

func TestLoadFromFile_MissingSecret(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := LoadFromFile(writeConfig(t, minimalYAML))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestLoadFromFile_SNSRequiresTopic(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "s3cret")
	t.Setenv("SNS_TOPIC_ARN", "")

	body := minimalYAML + `
integrations:
  aws:
    sns:
      enabled: true
`
	_, err := LoadFromFile(writeConfig(t, body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "topic_arn")
}

func TestPostgresConfig_Strings(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=disable", p.GetDSN())
	assert.Equal(t, "postgres://u:p@db:5432/d?sslmode=disable", p.GetURL())
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}
