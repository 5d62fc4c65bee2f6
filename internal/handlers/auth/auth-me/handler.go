package authme

import (
	"context"
	"fmt"
	"net/http"

	"medcost-service/internal/common/auth"
	"medcost-service/internal/common/config"
	"medcost-service/internal/common/errors"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/handlers"
	"medcost-service/internal/models"
)

const Name = "auth-me"

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
	Users        models.UserRepository
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
	h.service = NewService(ServiceDependencies{Users: opts.Users, Logger: h.Logger}, cfg)
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, ok := h.Begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		h.Fail(w, r, errors.NewTokenMissingError())
		return
	}

	output, err := h.service.Execute(ctx, &Input{UserID: session.UserID, User: session.User})
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
	}
	return cfg
}
