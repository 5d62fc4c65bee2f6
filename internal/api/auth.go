package api

import (
	"context"
	goerrors "errors"
	"net/http"

	"medcost-service/internal/common/auth"
	"medcost-service/internal/common/errors"
	"medcost-service/internal/common/logger"
	"medcost-service/internal/handlers"
	"medcost-service/internal/models"
)

// RevocationChecker reports whether a token id was revoked at logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Authenticator verifies bearer tokens and attaches the session to the
// request context.
type Authenticator struct {
	tokens      *auth.TokenManager
	revocations RevocationChecker
	users       models.UserRepository
	logger      logger.Logger
	errors      *errors.ErrorHandler
}

func NewAuthenticator(tokens *auth.TokenManager, revocations RevocationChecker, users models.UserRepository, log logger.Logger) *Authenticator {
	return &Authenticator{
		tokens:      tokens,
		revocations: revocations,
		users:       users,
		logger:      log,
		errors:      errors.NewErrorHandler(log),
	}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := a.authenticate(r)
		if err != nil {
			a.errors.HandleRequestError(w, r, handlers.RequestID(r), err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
	})
}

// Optional attaches a session when the request carries a bearer token and
// lets anonymous requests through. A token that is present but not valid is
// rejected the same way Middleware rejects it.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		a.Middleware(next).ServeHTTP(w, r)
	})
}

func (a *Authenticator) authenticate(r *http.Request) (*models.Session, error) {
	raw, err := auth.ExtractBearer(r.Header.Get("Authorization"))
	switch {
	case goerrors.Is(err, auth.ErrTokenMissing):
		return nil, errors.NewTokenMissingError()
	case err != nil:
		return nil, errors.NewTokenInvalidError("Invalid token format", err)
	}

	claims, err := a.tokens.Parse(raw)
	switch {
	case goerrors.Is(err, auth.ErrTokenExpired):
		return nil, errors.NewTokenExpiredError()
	case err != nil:
		return nil, errors.NewTokenInvalidError("Invalid token", err)
	}

	ctx := r.Context()
	if a.revocations != nil && claims.ID != "" {
		revoked, err := a.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			a.logger.Error("Token revocation check failed", map[string]interface{}{
				"error":  err.Error(),
				"userId": claims.UserID,
			})
			return nil, errors.NewServiceUnavailableError("Session store unavailable")
		}
		if revoked {
			return nil, errors.NewTokenRevokedError()
		}
	}

	user, err := a.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if goerrors.Is(err, models.ErrUserNotFound) {
			return nil, errors.NewAuthenticationError("User not found", "")
		}
		return nil, errors.NewDatabaseQueryFailedError("find user by id", err)
	}

	session := &models.Session{
		TokenID: claims.ID,
		Token:   raw,
		UserID:  user.ID,
		Email:   user.Email,
		User:    user,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
