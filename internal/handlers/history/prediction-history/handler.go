package predictionhistory

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"medcost-service/internal/common/auth"
	"medcost-service/internal/common/config"
	"medcost-service/internal/common/errors"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/handlers"
	"medcost-service/internal/models"
	"medcost-service/internal/store/predictions"
)

const (
	Name       = "prediction-history"
	ExportName = "prediction-history-export"
)

type Executor interface {
	Execute(ctx context.Context, input *Input) (*Output, error)
	Export(ctx context.Context, input *Input) ([]byte, error)
}

// Handler serves the JSON listing.
type Handler struct {
	handlers.Base
	config  *Config
	service Executor
	parent  logger.Logger
}

// ExportHandler serves the XLSX download. It shares the listing's service.
type ExportHandler struct {
	handlers.Base
	service Executor
}

type HandlerOptions struct {
	AppConfig    *config.Config
	History      models.PredictionRepository
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
		parent: opts.Logger,
	}
	h.service = NewService(ServiceDependencies{History: opts.History, Logger: h.Logger}, cfg)
	return h, nil
}

// Export returns the download handler backed by the same configuration.
func (h *Handler) Export() *ExportHandler {
	return &ExportHandler{
		Base:    handlers.NewBase(ExportName, h.Enabled, h.Timeout, h.parent),
		service: h.service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, ok := h.Begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	input, err := parseInput(r, h.config.DefaultLimit)
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

func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel, ok := h.Begin(w, r)
	if !ok {
		return
	}
	defer cancel()

	input, err := parseInput(r, predictions.MaxLimit)
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	data, err := h.service.Export(ctx, input)
	if err != nil {
		h.Fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", ContentTypeXLSX)
	w.Header().Set("Content-Disposition", "attachment; filename=prediction-history.xlsx")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func parseInput(r *http.Request, defaultLimit int) (*Input, error) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		return nil, errors.NewTokenMissingError()
	}

	input := &Input{UserEmail: session.Email, Limit: defaultLimit}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.NewValidationError("Invalid limit", fmt.Sprintf("limit must be an integer, got %q", raw))
		}
		input.Limit = limit
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
	}
	return cfg
}
