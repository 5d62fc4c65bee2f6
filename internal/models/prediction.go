package models

import (
	"context"
	"encoding/json"
	"time"
)

// PredictionRecord is one saved prediction in a user's history.
type PredictionRecord struct {
	ID                    string                 `json:"_id,omitempty"`
	UserEmail             string                 `json:"user_email"`
	Prediction            float64                `json:"prediction"`
	PredictionINR         float64                `json:"prediction_inr"`
	InputData             map[string]interface{} `json:"input_data"`
	CostExplanation       json.RawMessage        `json:"cost_explanation,omitempty"`
	IndividualPredictions map[string]float64     `json:"individual_predictions"`
	Timestamp             time.Time              `json:"timestamp"`
}

// PredictionRepository stores and lists prediction history.
type PredictionRepository interface {
	Save(ctx context.Context, record *PredictionRecord) (string, error)
	ListByUser(ctx context.Context, email string, limit int) ([]PredictionRecord, error)
}
