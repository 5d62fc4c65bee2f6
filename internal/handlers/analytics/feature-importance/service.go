// Package featureimportance reports the model's averaged feature importances.
package featureimportance

import (
	"context"

	"medcost-service/internal/common/errors"
	"medcost-service/internal/common/logger"
)

type Service struct {
	config *Config
	logger logger.Logger
	model  Source
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{config: config, logger: deps.Logger, model: deps.Model}
}

func (s *Service) Execute(ctx context.Context) (*Output, error) {
	if s.model == nil {
		return nil, errors.NewModelNotLoadedError("feature importance requires the model artifacts")
	}

	weights := s.model.FeatureImportance()
	top := make([]string, 0, topN)
	for i := 0; i < len(weights) && i < topN; i++ {
		top = append(top, weights[i].Feature)
	}
	return &Output{FeatureImportance: Ranking(weights), TopFeatures: top}, nil
}
