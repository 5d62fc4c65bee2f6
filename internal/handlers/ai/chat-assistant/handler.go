package chatassistant

import (
	"context"
	"fmt"
	"net/http"

	"medcost-service/internal/common/config"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/handlers"
)

const Name = "chat-assistant"

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
	LLM          Completer
	CustomConfig *Config
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", Name, err)
	}

	h := &Handler{
		Base:   handlers.NewBase(Name, cfg.Enabled, cfg.Timeout, opts.Logger),
		config: cfg,
	}
	h.service = NewService(ServiceDependencies{LLM: opts.LLM, Logger: h.Logger}, cfg)
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

	output, err := h.service.Execute(ctx, &Input{
		Message: handlers.String(body, "message"),
		Type:    handlers.String(body, "type"),
	})
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, output)
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
		if appCfg.APIs.LLM.ChatModel != "" {
			cfg.Model = appCfg.APIs.LLM.ChatModel
		}
	}
	return cfg
}
