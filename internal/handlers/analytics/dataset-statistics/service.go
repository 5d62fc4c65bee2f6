// Package datasetstatistics summarizes the training dataset.
package datasetstatistics

import (
	"context"
	"fmt"

	"medcost-service/internal/common/errors"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/dataset"
)

type Source interface {
	Statistics() dataset.Statistics
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

func (s *Service) Execute(ctx context.Context) (*dataset.Statistics, error) {
	if s.dataset == nil {
		return nil, errors.NewDatasetUnavailableError(fmt.Errorf("dataset not loaded"))
	}
	stats := s.dataset.Statistics()
	s.logger.Debug("Computed dataset statistics", map[string]interface{}{
		"totalRecords": stats.TotalRecords,
	})
	return &stats, nil
}
