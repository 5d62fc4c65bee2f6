package authlogout

import (
	"context"
	"time"

	"medcost-service/internal/common/logger"
)

type Input struct {
	UserID    string    `json:"userId"`
	TokenID   string    `json:"tokenId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Output struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	TokenRevoked bool      `json:"tokenRevoked"`
	LogoutAt     time.Time `json:"logoutAt"`
}

// Revoker records a token id as revoked for the given duration.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

type ServiceDependencies struct {
	Revocations Revoker
	Logger      logger.Logger
}
