package predictionhistory

import (
	"medcost-service/internal/common/logger"
	"medcost-service/internal/models"
)

type Input struct {
	UserEmail string
	Limit     int
}

type Output struct {
	Success     bool                      `json:"success"`
	Predictions []models.PredictionRecord `json:"predictions"`
	Count       int                       `json:"count"`
}

type ServiceDependencies struct {
	History models.PredictionRepository
	Logger  logger.Logger
}
