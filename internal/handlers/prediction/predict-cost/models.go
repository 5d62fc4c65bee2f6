package predictcost

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"medcost-service/internal/alerts"
	"medcost-service/internal/common/logger"
	explaincost "medcost-service/internal/handlers/estimation/explain-cost"
	"medcost-service/internal/ml"
	"medcost-service/internal/models"
)

type Input struct {
	Features  Features
	UserEmail string
}

type InputSummary struct {
	Age                  float64 `json:"age"`
	BMI                  float64 `json:"bmi"`
	HasChronicConditions bool    `json:"has_chronic_conditions"`
	InsuranceType        string  `json:"insurance_type"`
}

type Output struct {
	Success               bool                        `json:"success"`
	Prediction            float64                     `json:"prediction"`
	PredictionINR         float64                     `json:"prediction_inr"`
	IndividualPredictions map[string]float64          `json:"individual_predictions"`
	CostExplanation       explaincost.CostExplanation `json:"cost_explanation"`
	InputSummary          InputSummary                `json:"input_summary"`
}

// Predictor evaluates the cost model for one set of feature values.
type Predictor interface {
	Predict(values map[string]interface{}) (*ml.Prediction, error)
}

type AlertPublisher interface {
	PublishCostAlert(ctx context.Context, alert models.CostAlert) (string, error)
}

type Tracer interface {
	StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span)
}

type ServiceDependencies struct {
	Model     Predictor
	History   models.PredictionRepository
	AlertRule *alerts.Rule
	Alerts    AlertPublisher
	Tracer    Tracer
	Logger    logger.Logger
}
