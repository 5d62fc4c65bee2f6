package authlogin

import (
	"medcost-service/internal/common/auth"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/models"
)

type Input struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Output struct {
	Success bool               `json:"success"`
	Token   string             `json:"token"`
	User    models.UserProfile `json:"user"`
}

type ServiceDependencies struct {
	Users  models.UserRepository
	Tokens *auth.TokenManager
	Logger logger.Logger
}
