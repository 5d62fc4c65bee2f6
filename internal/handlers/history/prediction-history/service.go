// Package predictionhistory lists a user's saved predictions and exports them
// as a spreadsheet.
package predictionhistory

import (
	"context"

	"medcost-service/internal/common/errors"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/models"
	"medcost-service/internal/store/predictions"
)

type Service struct {
	config  *Config
	logger  logger.Logger
	history models.PredictionRepository
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{config: config, logger: deps.Logger, history: deps.History}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	records, err := s.list(ctx, input)
	if err != nil {
		return nil, err
	}
	return &Output{Success: true, Predictions: records, Count: len(records)}, nil
}

// Export renders the same page of history that Execute returns as an XLSX
// workbook.
func (s *Service) Export(ctx context.Context, input *Input) ([]byte, error) {
	records, err := s.list(ctx, input)
	if err != nil {
		return nil, err
	}
	data, err := renderWorkbook(s.config.SheetName, records)
	if err != nil {
		s.logger.Error("Failed to render history workbook", map[string]interface{}{
			"error": err.Error(),
			"rows":  len(records),
		})
		return nil, errors.NewExportFailedError(err)
	}
	return data, nil
}

func (s *Service) list(ctx context.Context, input *Input) ([]models.PredictionRecord, error) {
	if input.UserEmail == "" {
		return nil, errors.NewTokenMissingError()
	}
	if s.history == nil {
		return nil, errors.NewServiceUnavailableError("Prediction history not configured")
	}

	limit := predictions.ClampLimit(input.Limit)

	records, err := s.history.ListByUser(ctx, input.UserEmail, limit)
	if err != nil {
		s.logger.Error("Failed to list prediction history", map[string]interface{}{
			"error": err.Error(),
			"limit": limit,
		})
		return nil, errors.NewSearchQueryFailedError("predictions", err)
	}
	if records == nil {
		records = []models.PredictionRecord{}
	}

	s.logger.Debug("Listed prediction history", map[string]interface{}{
		"count": len(records),
		"limit": limit,
	})
	return records, nil
}
