package profiledisease

import (
	"context"

	"github.com/redis/go-redis/v9"

	httpclient "medcost-service/internal/common/http"
	"medcost-service/internal/common/logger"
	estimateprofilecost "medcost-service/internal/handlers/estimation/estimate-profile-cost"
)

const (
	PredictionType = "estimated_range"
	Disclaimer     = "This is an estimated cost range based on similar medical conditions and treatment complexity. Actual costs may vary significantly based on individual circumstances, location, and healthcare provider. This is NOT a medical diagnosis or treatment recommendation."
)

type Input struct {
	DiseaseDescription string   `json:"disease_description"`
	ExistingConditions []string `json:"existing_conditions"`
}

type Output struct {
	Success        bool                          `json:"success"`
	PredictionType string                        `json:"prediction_type"`
	CostRange      estimateprofilecost.CostRange `json:"cost_range"`
	DiseaseProfile interface{}                   `json:"disease_profile"`
	Confidence     string                        `json:"confidence"`
	Basis          string                        `json:"basis"`
	Disclaimer     string                        `json:"disclaimer"`
}

type Completer interface {
	Complete(ctx context.Context, req httpclient.ChatRequest) (string, error)
}

// ServiceDependencies holds the collaborators. Cache is optional.
type ServiceDependencies struct {
	LLM    Completer
	Cache  redis.Cmdable
	Logger logger.Logger
}
