package models

import "time"

// EmailMessage represents an email to be sent
type EmailMessage struct {
	To       []string `json:"to"`
	Subject  string   `json:"subject"`
	Body     string   `json:"body"`
	HTMLBody string   `json:"htmlBody,omitempty"`
	From     string   `json:"from"`
}

// CostAlert is published when a prediction matches the alert rule.
type CostAlert struct {
	PredictionID  string    `json:"predictionId,omitempty"`
	UserEmail     string    `json:"userEmail,omitempty"`
	Prediction    float64   `json:"prediction"`
	Age           float64   `json:"age"`
	Smoker        bool      `json:"smoker"`
	ChronicCount  int       `json:"chronicCount"`
	InsuranceType string    `json:"insuranceType"`
	Rule          string    `json:"rule"`
	CreatedAt     time.Time `json:"createdAt"`
}
