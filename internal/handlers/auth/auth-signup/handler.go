package authsignup

import (
	"context"
	"fmt"
	"net/http"

	"medcost-service/internal/common/auth"
	"medcost-service/internal/common/config"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/handlers"
	"medcost-service/internal/models"
)

const Name = "auth-signup"

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
	Tokens       *auth.TokenManager
	Mailer       Mailer
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
		Users:  opts.Users,
		Tokens: opts.Tokens,
		Mailer: opts.Mailer,
		Logger: h.Logger,
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

	input := &Input{
		Email:    handlers.String(body, "email"),
		Password: handlers.String(body, "password"),
		Name:     handlers.String(body, "name"),
	}
	if age, ok := body["age"].(float64); ok {
		v := int(age)
		input.Age = &v
	}
	if gender, ok := body["gender"].(string); ok && gender != "" {
		input.Gender = &gender
	}
	return input, nil
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
		cfg.BcryptCost = appCfg.Auth.BcryptCost
		cfg.MinPasswordLength = appCfg.Auth.MinPasswordLength
		cfg.SendWelcomeEmail = appCfg.Integrations.AWS.SES.Enabled
	}
	return cfg
}
