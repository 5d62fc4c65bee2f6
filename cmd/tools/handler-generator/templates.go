package main

const configTemplate = `package {{ .PackageName }}

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled bool          ` + "`mapstructure:\"enabled\"`" + `
	Timeout time.Duration ` + "`mapstructure:\"timeout\"`" + `
}

func DefaultConfig() *Config {
	return &Config{Enabled: true, Timeout: 10 * time.Second}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
`

const modelsTemplate = `package {{ .PackageName }}

import "medcost-service/internal/common/logger"

type Input struct {
{{- range .Fields }}
	{{ .GoName }} {{ .GoType }}
{{- end }}
}

type Output struct {
	Success bool ` + "`json:\"success\"`" + `
}

type ServiceDependencies struct {
	Logger logger.Logger
}
`

const serviceTemplate = `// Package {{ .PackageName }} implements {{ .Method }} {{ .Path }}.
package {{ .PackageName }}

import (
	"context"

	"medcost-service/internal/common/logger"
)

type Service struct {
	config *Config
	logger logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{config: config, logger: deps.Logger}
}

// Execute {{ .Description }}
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	return &Output{Success: true}, nil
}
`

const validationTemplate = `package {{ .PackageName }}

import "medcost-service/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		"type": "object",
		"properties": map[string]interface{}{
{{- range .Fields }}
			"{{ .JSONName }}": map[string]interface{}{"type": "{{ .JSONType }}"},
{{- end }}
		},
	}
}
`

const handlerTemplate = `package {{ .PackageName }}

import (
	"context"
	"fmt"
	"net/http"

	"medcost-service/internal/common/config"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/handlers"
)

const Name = "{{ .Name }}"

type Executor interface {
	Execute(ctx context.Context, input *Input) (*Output, error)
}

type Handler struct {
	handlers.Base
	config  *Config
	service Executor
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", Name, err)
	}
	h := &Handler{Base: handlers.NewBase(Name, cfg.Enabled, cfg.Timeout, opts.Logger), config: cfg}
	h.service = NewService(ServiceDependencies{Logger: h.Logger}, cfg)
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, ok := h.Begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	body, err := handlers.DecodeAndValidate(r, GetInputSchema())
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	output, err := h.service.Execute(ctx, parseInput(body))
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, output)
}

func parseInput(body map[string]interface{}) *Input {
	input := &Input{}
{{- range .Fields }}
	input.{{ .GoName }}, _ = body["{{ .JSONName }}"].({{ .GoType }})
{{- end }}
	return input
}

func createConfigFromAppConfig(appCfg *config.Config, custom *Config) *Config {
	if custom != nil {
		return custom
	}
	cfg := DefaultConfig()
	if appCfg != nil {
		hc := config.GetHandlerConfig(appCfg, Name)
		cfg.Enabled = hc.Enabled
		cfg.Timeout = config.GetDuration(hc.Timeout)
	}
	return cfg
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medcost-service/internal/common/logger"
)

func TestHandler_ServeHTTP(t *testing.T) {
	h, err := NewHandler(HandlerOptions{Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.{{ .MethodConst }}, "{{ .Path }}", strings.NewReader("{}")))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	cfg.Timeout = 0
	assert.Error(t, cfg.Validate())
}
`
