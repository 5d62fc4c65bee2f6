// Package api assembles the HTTP surface: routing, CORS, authentication,
// request instrumentation and the operational endpoints.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"medcost-service/internal/alerts"
	"medcost-service/internal/common/auth"
	"medcost-service/internal/common/config"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/dataset"
	chatassistant "medcost-service/internal/handlers/ai/chat-assistant"
	profiledisease "medcost-service/internal/handlers/ai/profile-disease"
	costvisualizations "medcost-service/internal/handlers/analytics/cost-visualizations"
	datasetstatistics "medcost-service/internal/handlers/analytics/dataset-statistics"
	featureimportance "medcost-service/internal/handlers/analytics/feature-importance"
	authlogin "medcost-service/internal/handlers/auth/auth-login"
	authlogout "medcost-service/internal/handlers/auth/auth-logout"
	authme "medcost-service/internal/handlers/auth/auth-me"
	authsignup "medcost-service/internal/handlers/auth/auth-signup"
	predictionhistory "medcost-service/internal/handlers/history/prediction-history"
	predictcost "medcost-service/internal/handlers/prediction/predict-cost"
	"medcost-service/internal/models"
	"medcost-service/pkg/registry"
)

// Model is the loaded ensemble.
type Model interface {
	predictcost.Predictor
	featureimportance.Source
}

// Dataset is the loaded training dataset.
type Dataset interface {
	Statistics() dataset.Statistics
	Visualizations() dataset.Visualizations
}

// SessionStore revokes tokens at logout and checks them on every
// authenticated request.
type SessionStore interface {
	authlogout.Revoker
	RevocationChecker
}

// Dependencies are the collaborators wired into the handlers. Optional ones
// are left nil: the affected endpoints then answer 503.
type Dependencies struct {
	Config   *config.Config
	Logger   logger.Logger
	Users    models.UserRepository
	Tokens   *auth.TokenManager
	Sessions SessionStore
	Cache    redis.Cmdable
	History  models.PredictionRepository
	Model    Model
	Dataset  Dataset
	LLM      chatassistant.Completer
	Mailer   authsignup.Mailer
	Alerts   predictcost.AlertPublisher

	AlertRule     *alerts.Rule
	Tracer        predictcost.Tracer
	Recorder      RequestRecorder
	Registry      *registry.EndpointRegistry
	ReadyChecks   map[string]Pinger
	ReadyTimeout  time.Duration
	MetricsHandle http.Handler
}

func (d *Dependencies) requestTimeout() time.Duration {
	if d.Config != nil && d.Config.Server.RequestTimeout > 0 {
		return config.GetDuration(d.Config.Server.RequestTimeout)
	}
	return 60 * time.Second
}

func (d *Dependencies) allowedOrigins() []string {
	if d.Config != nil && len(d.Config.Server.AllowedOrigins) > 0 {
		return d.Config.Server.AllowedOrigins
	}
	return []string{"*"}
}

type routes struct {
	signup         *authsignup.Handler
	login          *authlogin.Handler
	me             *authme.Handler
	logout         *authlogout.Handler
	history        *predictionhistory.Handler
	chat           *chatassistant.Handler
	profile        *profiledisease.Handler
	predict        *predictcost.Handler
	statistics     *datasetstatistics.Handler
	visualizations *costvisualizations.Handler
	importance     *featureimportance.Handler
}

func buildRoutes(d *Dependencies) (*routes, error) {
	var (
		rt  routes
		err error
	)
	cfg, log := d.Config, d.Logger

	signupOpts := authsignup.HandlerOptions{AppConfig: cfg, Users: d.Users, Tokens: d.Tokens, Logger: log}
	if d.Mailer != nil {
		signupOpts.Mailer = d.Mailer
	}
	if rt.signup, err = authsignup.NewHandler(signupOpts); err != nil {
		return nil, err
	}
	if rt.login, err = authlogin.NewHandler(authlogin.HandlerOptions{AppConfig: cfg, Users: d.Users, Tokens: d.Tokens, Logger: log}); err != nil {
		return nil, err
	}
	if rt.me, err = authme.NewHandler(authme.HandlerOptions{AppConfig: cfg, Users: d.Users, Logger: log}); err != nil {
		return nil, err
	}

	logoutOpts := authlogout.HandlerOptions{AppConfig: cfg, Logger: log}
	if d.Sessions != nil {
		logoutOpts.Revocations = d.Sessions
	}
	if rt.logout, err = authlogout.NewHandler(logoutOpts); err != nil {
		return nil, err
	}

	if rt.history, err = predictionhistory.NewHandler(predictionhistory.HandlerOptions{AppConfig: cfg, History: d.History, Logger: log}); err != nil {
		return nil, err
	}

	chatOpts := chatassistant.HandlerOptions{AppConfig: cfg, Logger: log}
	profileOpts := profiledisease.HandlerOptions{AppConfig: cfg, Cache: d.Cache, Logger: log}
	if d.LLM != nil {
		chatOpts.LLM = d.LLM
		profileOpts.LLM = d.LLM
	}
	if rt.chat, err = chatassistant.NewHandler(chatOpts); err != nil {
		return nil, err
	}
	if rt.profile, err = profiledisease.NewHandler(profileOpts); err != nil {
		return nil, err
	}

	predictOpts := predictcost.HandlerOptions{
		AppConfig: cfg,
		History:   d.History,
		AlertRule: d.AlertRule,
		Alerts:    d.Alerts,
		Tracer:    d.Tracer,
		Logger:    log,
	}
	importanceOpts := featureimportance.HandlerOptions{AppConfig: cfg, Logger: log}
	if d.Model != nil {
		predictOpts.Model = d.Model
		importanceOpts.Model = d.Model
	}
	if rt.predict, err = predictcost.NewHandler(predictOpts); err != nil {
		return nil, err
	}
	if rt.importance, err = featureimportance.NewHandler(importanceOpts); err != nil {
		return nil, err
	}

	statsOpts := datasetstatistics.HandlerOptions{AppConfig: cfg, Logger: log}
	vizOpts := costvisualizations.HandlerOptions{AppConfig: cfg, Logger: log}
	if d.Dataset != nil {
		statsOpts.Dataset = d.Dataset
		vizOpts.Dataset = d.Dataset
	}
	if rt.statistics, err = datasetstatistics.NewHandler(statsOpts); err != nil {
		return nil, err
	}
	if rt.visualizations, err = costvisualizations.NewHandler(vizOpts); err != nil {
		return nil, err
	}
	return &rt, nil
}

// NewRouter builds the service router.
func NewRouter(d Dependencies) (http.Handler, error) {
	if d.Logger == nil {
		d.Logger = logger.NewStructured("info", "json")
	}
	if d.Users == nil || d.Tokens == nil {
		return nil, fmt.Errorf("users and tokens are required")
	}
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	if d.MetricsHandle == nil {
		d.MetricsHandle = promhttp.Handler()
	}

	rt, err := buildRoutes(&d)
	if err != nil {
		return nil, err
	}

	var revocations RevocationChecker
	if d.Sessions != nil {
		revocations = d.Sessions
	}
	authn := NewAuthenticator(d.Tokens, revocations, d.Users, d.Logger.With(map[string]interface{}{"component": "auth"}))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(instrument(d.Logger, d.Recorder))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.allowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", indexHandler(d.Registry))
	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(d.ReadyChecks, d.ReadyTimeout))
	r.Method(http.MethodGet, "/metrics", d.MetricsHandle)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(d.requestTimeout()))

		r.With(authn.Optional).Method(http.MethodPost, "/predict", rt.predict)
		r.Method(http.MethodPost, "/chat", rt.chat)
		r.Method(http.MethodPost, "/profile-disease", rt.profile)
		r.Method(http.MethodGet, "/statistics", rt.statistics)
		r.Method(http.MethodGet, "/visualizations", rt.visualizations)
		r.Method(http.MethodGet, "/feature-importance", rt.importance)

		r.Method(http.MethodPost, "/auth/signup", rt.signup)
		r.Method(http.MethodPost, "/auth/login", rt.login)

		r.Group(func(r chi.Router) {
			r.Use(authn.Middleware)
			r.Method(http.MethodGet, "/auth/me", rt.me)
			r.Method(http.MethodPost, "/auth/logout", rt.logout)
			r.Method(http.MethodGet, "/users/predictions", rt.history)
			r.Method(http.MethodGet, "/users/predictions/export", rt.history.Export())
		})
	})

	return r, nil
}
