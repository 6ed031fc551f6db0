package service

import (
	"context"

	"github.com/spec-kit/medical-records-service/internal/domain"
	"github.com/spec-kit/medical-records-service/internal/repository"
)

// UserService exposes read access to user profiles.
type UserService struct {
	users repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetProfile returns the sanitized view for a user id.
func (s *UserService) GetProfile(ctx context.Context, id string) (domain.UserProfile, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.UserProfile{}, err
	}
	return user.Profile(), nil
}

// ListProfiles returns a page of sanitized user views.
func (s *UserService) ListProfiles(ctx context.Context, limit, offset int) ([]domain.UserProfile, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	profiles := make([]domain.UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Profile())
	}
	return profiles, nil
}
