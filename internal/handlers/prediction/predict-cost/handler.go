package predictcost

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"medcost-service/internal/alerts"
	"medcost-service/internal/common/auth"
	"medcost-service/internal/common/config"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/handlers"
	"medcost-service/internal/models"
)

const Name = "predict-cost"

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
	Model        Predictor
	History      models.PredictionRepository
	AlertRule    *alerts.Rule
	Alerts       AlertPublisher
	Tracer       Tracer
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
	h.service = NewService(ServiceDependencies{
		Model:     opts.Model,
		History:   opts.History,
		AlertRule: opts.AlertRule,
		Alerts:    opts.Alerts,
		Tracer:    opts.Tracer,
		Logger:    h.Logger,
	}, cfg)
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, ok := h.Begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	input, err := h.parseInput(r)
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	output, err := h.service.Execute(ctx, input)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, output)
}

func (h *Handler) parseInput(r *http.Request) (*Input, error) {
	body, err := handlers.DecodeAndValidate(r, GetInputSchema())
	if err != nil {
		return nil, err
	}
	features, err := ParseFeatures(body)
	if err != nil {
		return nil, err
	}
	// An authenticated caller owns the record; user_email only tags anonymous requests.
	email := strings.TrimSpace(handlers.String(body, "user_email"))
	if session, ok := auth.SessionFromContext(r.Context()); ok {
		email = session.Email
	}
	return &Input{
		Features:  features,
		UserEmail: email,
	}, nil
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
		cfg.AlertsEnabled = appCfg.Alerts.Enabled
	}
	return cfg
}
