// Package authlogin exchanges e-mail and password for a bearer token.
package authlogin

import (
	"context"
	goerrors "errors"
	"strings"
	"time"

	"medcost-service/internal/common/auth"
	"medcost-service/internal/common/errors"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/models"
)

type Service struct {
	config *Config
	logger logger.Logger
	users  models.UserRepository
	tokens *auth.TokenManager
	now    func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
		users:  deps.Users,
		tokens: deps.Tokens,
		now:    time.Now,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	email := strings.TrimSpace(input.Email)

	s.logger.Info("Executing auth login", map[string]interface{}{
		"email": email,
	})

	if email == "" || input.Password == "" {
		return nil, errors.NewValidationError("Email and password are required", "")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if goerrors.Is(err, models.ErrUserNotFound) {
			return nil, errors.NewInvalidCredentialsError()
		}
		return nil, errors.NewDatabaseQueryFailedError("find user", err)
	}

	match, err := auth.CheckPassword(user.PasswordHash, input.Password)
	if err != nil {
		s.logger.Error("Stored password hash is unreadable", map[string]interface{}{
			"userId": user.ID,
			"error":  err.Error(),
		})
		return nil, errors.NewInvalidCredentialsError()
	}
	if !match {
		return nil, errors.NewInvalidCredentialsError()
	}

	token, _, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn("Failed to record last login", map[string]interface{}{
			"userId": user.ID,
			"error":  err.Error(),
		})
	}

	s.logger.Info("Auth login completed successfully", map[string]interface{}{
		"userId": user.ID,
	})

	return &Output{
		Success: true,
		Token:   token,
		User:    user.Profile(),
	}, nil
}
