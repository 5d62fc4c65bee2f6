// Package authsignup registers e-mail/password accounts.
package authsignup

import (
	"context"
	goerrors "errors"
	"fmt"
	"strings"
	"unicode/utf8"

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
	mailer Mailer
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
		users:  deps.Users,
		tokens: deps.Tokens,
		mailer: deps.Mailer,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	email := strings.TrimSpace(input.Email)
	name := strings.TrimSpace(input.Name)

	s.logger.Info("Executing auth signup", map[string]interface{}{
		"email": email,
	})

	if email == "" || input.Password == "" || name == "" {
		return nil, errors.NewValidationError("Email, password, and name are required", "")
	}
	if utf8.RuneCountInString(input.Password) < s.config.MinPasswordLength {
		return nil, errors.NewValidationError(
			fmt.Sprintf("Password must be at least %d characters", s.config.MinPasswordLength), "")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, errors.NewDuplicateUserError(email)
	} else if !goerrors.Is(err, models.ErrUserNotFound) {
		return nil, errors.NewDatabaseQueryFailedError("find user", err)
	}

	hash, err := auth.HashPassword(input.Password, s.config.BcryptCost)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		Age:          input.Age,
		Gender:       input.Gender,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if goerrors.Is(err, models.ErrDuplicateUser) {
			return nil, errors.NewDuplicateUserError(email)
		}
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	token, _, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	if s.config.SendWelcomeEmail && s.mailer != nil {
		s.sendWelcome(ctx, user)
	}

	s.logger.Info("Auth signup completed successfully", map[string]interface{}{
		"userId": user.ID,
	})

	return &Output{
		Success: true,
		Token:   token,
		User:    UserSummary{ID: user.ID, Email: user.Email, Name: user.Name},
		Message: "User registered successfully",
	}, nil
}

func (s *Service) sendWelcome(ctx context.Context, user *models.User) {
	msg := models.EmailMessage{
		To:      []string{user.Email},
		Subject: "Welcome to MedCost",
		Body: fmt.Sprintf("Hi %s,\n\nYour account is ready. Sign in to estimate your annual medical costs "+
			"and keep a history of your predictions.\n\nPredictions are estimates and not medical advice.", user.Name),
	}
	if _, err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Warn("Failed to send welcome email", map[string]interface{}{
			"userId": user.ID,
			"error":  err.Error(),
		})
	}
}
