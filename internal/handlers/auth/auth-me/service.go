// Package authme returns the authenticated caller's profile.
package authme

import (
	"context"
	goerrors "errors"

	"medcost-service/internal/common/errors"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/models"
)

type Service struct {
	config *Config
	logger logger.Logger
	users  models.UserRepository
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{config: config, logger: deps.Logger, users: deps.Users}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	user := input.User
	if user == nil {
		if input.UserID == "" {
			return nil, errors.NewTokenMissingError()
		}
		found, err := s.users.FindByID(ctx, input.UserID)
		if err != nil {
			if goerrors.Is(err, models.ErrUserNotFound) {
				return nil, errors.NewAuthenticationError("User not found", "")
			}
			return nil, errors.NewDatabaseQueryFailedError("find user", err)
		}
		user = found
	}

	s.logger.Debug("Resolved current user", map[string]interface{}{
		"userId": user.ID,
	})

	return &Output{Success: true, User: user.Profile()}, nil
}
