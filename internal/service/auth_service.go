package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/medical-records-service/internal/auth"
	"github.com/spec-kit/medical-records-service/internal/config"
	"github.com/spec-kit/medical-records-service/internal/domain"
	"github.com/spec-kit/medical-records-service/internal/events"
	"github.com/spec-kit/medical-records-service/internal/repository"
)

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password. Callers must not be able to tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService coordinates the login and logout flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Login authenticates a user by email and password. On success the last
// login timestamp is persisted and a fresh token is issued.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.publish(ctx, events.New(events.EventLoginFailed, "", events.LoginFailedPayload{Email: email, Reason: "unknown email"}))
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.publish(ctx, events.New(events.EventLoginFailed, user.ID, events.LoginFailedPayload{Email: email, Reason: "password mismatch"}))
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.Issue(user.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.New(events.EventUserLoggedIn, user.ID, nil))
	return user, token, exp, nil
}

// Logout cannot fail: tokens are stateless, so the server only records the
// event. Discarding the client's cookie is the transport layer's job.
func (s *AuthService) Logout(ctx context.Context, userID string) {
	s.publish(ctx, events.New(events.EventUserLoggedOut, userID, nil))
}

// Register creates a new account with a hashed credential.
func (s *AuthService) Register(ctx context.Context, email, password string, role domain.UserRole, firstName, lastName string) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, errors.New("email already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if !domain.ValidRole(role) {
		role = domain.RolePatient
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		FirstName:    firstName,
		LastName:     lastName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
