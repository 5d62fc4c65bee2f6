package authsignup

import (
	"context"

	"medcost-service/internal/common/auth"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/models"
)

type Input struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Age      *int    `json:"age,omitempty"`
	Gender   *string `json:"gender,omitempty"`
}

// UserSummary is the subset of the account echoed back on signup.
type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Output struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
	Message string      `json:"message"`
}

// Mailer delivers the welcome message. A nil Mailer disables it.
type Mailer interface {
	Send(ctx context.Context, msg models.EmailMessage) (string, error)
}

type ServiceDependencies struct {
	Users  models.UserRepository
	Tokens *auth.TokenManager
	Mailer Mailer
	Logger logger.Logger
}
