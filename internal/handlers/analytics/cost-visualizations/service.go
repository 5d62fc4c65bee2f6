// Package costvisualizations builds the dashboard chart series from the
// training dataset.
package costvisualizations

import (
	"context"
	"fmt"

	"medcost-service/internal/common/errors"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/dataset"
)

type Source interface {
	Visualizations() dataset.Visualizations
}

type ServiceDependencies struct {
	Dataset Source
	Logger  logger.Logger
}

type Service struct {
	config  *Config
	logger  logger.Logger
	dataset Source
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{config: config, logger: deps.Logger, dataset: deps.Dataset}
}

func (s *Service) Execute(ctx context.Context) (*dataset.Visualizations, error) {
	if s.dataset == nil {
		return nil, errors.NewDatasetUnavailableError(fmt.Errorf("dataset not loaded"))
	}
	charts := s.dataset.Visualizations()
	return &charts, nil
}
