// Package predictcost serves ensemble cost predictions with an explanation,
// optional history persistence and high-cost alerting.
package predictcost

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"medcost-service/internal/alerts"
	"medcost-service/internal/common/errors"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/common/metrics"
	explaincost "medcost-service/internal/handlers/estimation/explain-cost"
	"medcost-service/internal/models"
)

type Service struct {
	config    *Config
	logger    logger.Logger
	model     Predictor
	history   models.PredictionRepository
	alertRule *alerts.Rule
	alerts    AlertPublisher
	tracer    Tracer
	now       func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	tracer := deps.Tracer
	if tracer == nil {
		tracer = noopTracer{}
	}
	return &Service{
		config:    config,
		logger:    deps.Logger,
		model:     deps.Model,
		history:   deps.History,
		alertRule: deps.AlertRule,
		alerts:    deps.Alerts,
		tracer:    tracer,
		now:       time.Now,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if s.model == nil {
		return nil, errors.NewModelNotLoadedError("no model artifacts were loaded at startup")
	}

	ctx, span := s.tracer.StartSpan(ctx, "predict_cost",
		attribute.Bool("history.requested", input.UserEmail != ""))
	defer span.End()

	f := input.Features
	prediction, err := s.model.Predict(f.Values())
	if err != nil {
		metrics.Predictions.WithLabelValues("failure").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "prediction failed")
		return nil, errors.NewPredictionFailedError(err)
	}
	metrics.Predictions.WithLabelValues("success").Inc()
	span.SetAttributes(attribute.Float64("prediction.value", prediction.Value))

	explanation := explaincost.Explain(f.HealthProfile(), prediction.Value)

	s.logger.Info("Prediction computed", map[string]interface{}{
		"prediction": prediction.Value,
		"models":     len(prediction.Individual),
	})

	predictionID := ""
	if input.UserEmail != "" && s.config.HistoryEnabled && s.history != nil {
		predictionID = s.saveHistory(ctx, input, prediction.Value, prediction.Individual, explanation)
	}

	if s.config.AlertsEnabled {
		s.evaluateAlert(ctx, input, prediction.Value, predictionID)
	}

	return &Output{
		Success:               true,
		Prediction:            prediction.Value,
		PredictionINR:         prediction.Value,
		IndividualPredictions: prediction.Individual,
		CostExplanation:       explanation,
		InputSummary: InputSummary{
			Age:                  f.Age,
			BMI:                  f.BMI,
			HasChronicConditions: f.HasChronicConditions(),
			InsuranceType:        f.InsuranceType,
		},
	}, nil
}

// saveHistory stores the prediction and returns its id. Failures are logged
// and yield "".
func (s *Service) saveHistory(ctx context.Context, input *Input, value float64, individual map[string]float64, explanation explaincost.CostExplanation) string {
	explained, err := json.Marshal(explanation)
	if err != nil {
		s.logger.Warn("Failed to encode cost explanation", map[string]interface{}{"error": err.Error()})
		return ""
	}

	record := &models.PredictionRecord{
		UserEmail:             input.UserEmail,
		Prediction:            value,
		PredictionINR:         value,
		InputData:             input.Features.Values(),
		CostExplanation:       explained,
		IndividualPredictions: individual,
	}
	id, err := s.history.Save(ctx, record)
	if err != nil {
		s.logger.Warn("Failed to save prediction history", map[string]interface{}{
			"userEmail": input.UserEmail,
			"error":     err.Error(),
		})
		return ""
	}
	return id
}

func (s *Service) evaluateAlert(ctx context.Context, input *Input, value float64, predictionID string) {
	if s.alertRule == nil {
		return
	}
	f := input.Features
	profile := f.HealthProfile()

	matched, err := s.alertRule.Matches(alerts.Facts{
		Prediction:    value,
		Age:           f.Age,
		BMI:           f.BMI,
		Smoker:        profile.Smoker,
		ChronicCount:  profile.ChronicCount(),
		InsuranceType: f.InsuranceType,
		CoveragePct:   f.InsuranceCoveragePct,
	})
	if err != nil {
		s.logger.Warn("Alert rule evaluation failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if !matched {
		return
	}
	if s.alerts == nil {
		s.logger.Info("High-cost prediction matched alert rule", map[string]interface{}{
			"prediction": value,
		})
		return
	}

	if predictionID == "" {
		predictionID = uuid.NewString()
	}
	messageID, err := s.alerts.PublishCostAlert(ctx, models.CostAlert{
		PredictionID:  predictionID,
		UserEmail:     input.UserEmail,
		Prediction:    value,
		Age:           f.Age,
		Smoker:        profile.Smoker,
		ChronicCount:  profile.ChronicCount(),
		InsuranceType: f.InsuranceType,
		Rule:          s.alertRule.Expression(),
		CreatedAt:     s.now().UTC(),
	})
	if err != nil {
		metrics.CostAlerts.WithLabelValues("failed").Inc()
		s.logger.Warn("Failed to publish cost alert", map[string]interface{}{
			"predictionId": predictionID,
			"error":        err.Error(),
		})
		return
	}
	metrics.CostAlerts.WithLabelValues("published").Inc()
	s.logger.Info("Cost alert published", map[string]interface{}{
		"predictionId": predictionID,
		"messageId":    messageID,
	})
}

type noopTracer struct{}

func (noopTracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return noop.NewTracerProvider().Tracer("").Start(ctx, name, trace.WithAttributes(attrs...))
}
