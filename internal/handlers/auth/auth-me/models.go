package authme

import (
	"medcost-service/internal/common/logger"
	"medcost-service/internal/models"
)

// Input identifies the caller. User is set when the auth middleware already
// loaded the account.
type Input struct {
	UserID string
	User   *models.User
}

type Output struct {
	Success bool               `json:"success"`
	User    models.UserProfile `json:"user"`
}

type ServiceDependencies struct {
	Users  models.UserRepository
	Logger logger.Logger
}
