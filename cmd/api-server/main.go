// cmd/api-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"medcost-service/internal/alerts"
	"medcost-service/internal/api"
	"medcost-service/internal/common/auth"
	"medcost-service/internal/common/aws"
	"medcost-service/internal/common/config"
	"medcost-service/internal/common/database"
	httpclient "medcost-service/internal/common/http"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/common/observability"
	"medcost-service/internal/dataset"
	"medcost-service/internal/ml"
	"medcost-service/internal/store/predictions"
	"medcost-service/internal/store/users"
	"medcost-service/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting medical cost API server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs, err := observability.New(observability.Options{
		ServiceName:    cfg.App.Name,
		TracingEnabled: cfg.Tracing.Enabled,
		JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
	})
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	if cfg.Database.Postgres.RunMigrations {
		if err := pg.Migrate(); err != nil {
			zapLog.Fatal("migrations failed", zap.Error(err))
		}
		zapLog.Info("Database migrations applied")
	}

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	index := cfg.Database.Elasticsearch.PredictionsIndex
	if err := esClient.EnsureIndex(ctx, index, predictions.Mapping); err != nil {
		zapLog.Fatal("predictions index setup failed", zap.String("index", index), zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully", zap.String("index", index))

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Model artifacts and dataset ---
	// Either may be missing; the endpoints depending on them answer 503.
	deps := api.Dependencies{
		Config:   cfg,
		Logger:   log,
		Users:    users.NewStore(pg.DB),
		Tokens:   auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour),
		Sessions: auth.NewRevocationStore(rdb.Client),
		Cache:    rdb.Client,
		History:  predictions.NewStore(esClient.Client, index),
		Tracer:   obs,
		Recorder: obs,
		ReadyChecks: map[string]api.Pinger{
			"postgres":      pg,
			"redis":         rdb,
			"elasticsearch": esClient,
		},
	}

	if model, err := ml.Load(cfg.Model.ArtifactDir); err != nil {
		zapLog.Warn("model artifacts not loaded", zap.String("dir", cfg.Model.ArtifactDir), zap.Error(err))
	} else {
		deps.Model = model
		zapLog.Info("Model loaded", zap.Strings("members", model.MemberNames()))
	}

	if ds, err := dataset.LoadFile(cfg.Model.DatasetPath); err != nil {
		zapLog.Warn("dataset not loaded", zap.String("path", cfg.Model.DatasetPath), zap.Error(err))
	} else {
		deps.Dataset = ds
		zapLog.Info("Dataset loaded", zap.Int("records", ds.Len()))
	}

	// --- Init External Service Clients ---
	if cfg.APIs.LLM.Enabled() {
		deps.LLM = httpclient.NewLLMClient(httpclient.LLMOptions{
			BaseURL:    cfg.APIs.LLM.BaseURL,
			APIKey:     cfg.APIs.LLM.APIKey,
			Timeout:    config.GetDuration(cfg.APIs.LLM.Timeout),
			MaxRetries: cfg.APIs.LLM.MaxRetries,
		})
	} else {
		zapLog.Warn("GROQ_API_KEY not set; chat and disease profiling are disabled")
	}

	awsCfg := cfg.Integrations.AWS
	if awsCfg.SES.Enabled {
		mailer, err := aws.NewSESClient(ctx, awsCfg.Region, awsCfg.SES.FromEmail)
		if err != nil {
			zapLog.Warn("SES client init failed; welcome emails disabled", zap.Error(err))
		} else {
			deps.Mailer = mailer
		}
	}
	if awsCfg.SNS.Enabled {
		publisher, err := aws.NewSNSClient(ctx, awsCfg.Region, awsCfg.SNS.TopicARN)
		if err != nil {
			zapLog.Warn("SNS client init failed; cost alerts disabled", zap.Error(err))
		} else {
			deps.Alerts = publisher
		}
	}
	if cfg.Alerts.Enabled {
		rule, err := alerts.NewRule(cfg.Alerts.Expression)
		if err != nil {
			zapLog.Fatal("alert rule invalid", zap.String("expression", cfg.Alerts.Expression), zap.Error(err))
		}
		deps.AlertRule = rule
	}

	if reg, err := registry.LoadRegistry(cfg.Registry.Path); err != nil {
		zapLog.Warn("endpoint registry not loaded", zap.String("path", cfg.Registry.Path), zap.Error(err))
	} else {
		deps.Registry = reg
	}

	router, err := api.NewRouter(deps)
	if err != nil {
		zapLog.Fatal("router setup failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		IdleTimeout:  config.GetDuration(cfg.Server.IdleTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down telemetry", zap.Error(err))
	}

	zapLog.Info("API server stopped gracefully")
}
