package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/medical-records-service/internal/domain"
	"github.com/spec-kit/medical-records-service/internal/repository"
	apperrors "github.com/spec-kit/medical-records-service/pkg/util"
)

const userKey = "auth_user"

// UnauthorizedMessage is the single client-facing message for every gate
// failure. Missing cookie, bad signature, expired token and deleted user
// are indistinguishable to the caller; the real cause is only logged.
const UnauthorizedMessage = "Not authorized to access this route"

// Middleware guards protected routes: it extracts the token from the
// session cookie, verifies it, and re-resolves the user before admitting
// the request.
type Middleware struct {
	tokens *TokenManager
	cookie *SessionCookie
	users  repository.UserRepository
	logger *zap.Logger
}

// NewMiddleware constructs the gate.
func NewMiddleware(tokens *TokenManager, cookie *SessionCookie, users repository.UserRepository, logger *zap.Logger) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{tokens: tokens, cookie: cookie, users: users, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	token, ok := m.cookie.Extract(c)
	if !ok {
		m.logger.Debug("access denied: no session cookie", zap.String("path", c.Path()))
		return apperrors.NewUnauthorized(UnauthorizedMessage)
	}

	userID, err := m.tokens.Verify(token)
	if err != nil {
		m.logger.Info("access denied: token rejected", zap.String("path", c.Path()), zap.Error(err))
		return apperrors.NewUnauthorized(UnauthorizedMessage)
	}

	user, err := m.users.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			m.logger.Info("access denied: user no longer exists", zap.String("user_id", userID))
			return apperrors.NewUnauthorized(UnauthorizedMessage)
		}
		return apperrors.MapError(err)
	}

	c.Locals(userKey, user)
	return c.Next()
}

// UserFromContext retrieves the authenticated user.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(userKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
