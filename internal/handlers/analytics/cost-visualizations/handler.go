package costvisualizations

import (
	"context"
	"fmt"
	"net/http"

	"medcost-service/internal/common/config"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/dataset"
	"medcost-service/internal/handlers"
)

const Name = "cost-visualizations"

type Executor interface {
	Execute(ctx context.Context) (*dataset.Visualizations, error)
}

type Handler struct {
	handlers.Base
	service Executor
}

type HandlerOptions struct {
	AppConfig    *config.Config
	Dataset      Source
	CustomConfig *Config
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", Name, err)
	}
	h := &Handler{Base: handlers.NewBase(Name, cfg.Enabled, cfg.Timeout, opts.Logger)}
	h.service = NewService(ServiceDependencies{Dataset: opts.Dataset, Logger: h.Logger}, cfg)
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, ok := h.Begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	charts, err := h.service.Execute(ctx)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, charts)
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
