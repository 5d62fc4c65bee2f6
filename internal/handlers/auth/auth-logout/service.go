// Package authlogout revokes the caller's bearer token.
package authlogout

import (
	"context"
	"fmt"
	"time"

	"medcost-service/internal/common/errors"
	"medcost-service/internal/common/logger"
)

type Service struct {
	config      *Config
	logger      logger.Logger
	revocations Revoker
	now         func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:      config,
		logger:      deps.Logger,
		revocations: deps.Revocations,
		now:         time.Now,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	s.logger.Info("Executing auth logout", map[string]interface{}{
		"userId":  input.UserID,
		"tokenId": input.TokenID,
	})

	if err := validateInput(input); err != nil {
		return nil, errors.NewValidationError("Invalid logout request", err.Error())
	}

	if s.revocations == nil {
		return nil, errors.NewServiceUnavailableError("Session store not configured")
	}

	now := s.now().UTC()
	tokenRevoked := false

	// The revocation entry only has to outlive the token itself.
	if err := s.revocations.Revoke(ctx, input.TokenID, input.ExpiresAt.Sub(now)); err != nil {
		s.logger.Warn("Failed to revoke token", map[string]interface{}{
			"userId": input.UserID,
			"error":  err.Error(),
		})
	} else {
		tokenRevoked = true
	}

	s.logger.Info("Auth logout completed successfully", map[string]interface{}{
		"userId":       input.UserID,
		"tokenRevoked": tokenRevoked,
	})

	return &Output{
		Success:      true,
		Message:      "Logout successful",
		TokenRevoked: tokenRevoked,
		LogoutAt:     now,
	}, nil
}

func validateInput(input *Input) error {
	if input.UserID == "" {
		return fmt.Errorf("user ID is required")
	}
	if input.TokenID == "" {
		return fmt.Errorf("token ID is required")
	}
	return nil
}
