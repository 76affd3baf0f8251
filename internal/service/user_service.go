package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/asleulv/vervekart/internal/domain"
	"github.com/asleulv/vervekart/internal/repository"

	"go.uber.org/zap"
)

// UserService handles volunteer registration.
type UserService struct {
	users  repository.UsersRepository
	logger *zap.Logger
}

func NewUserService(users repository.UsersRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// RegisterUser registers a volunteer by name. Calling it again with the same
// name returns the existing user.
func (s *UserService) RegisterUser(ctx context.Context, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("name is required")
	}

	user, err := s.users.RegisterUser(ctx, name, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("name", user.Name),
	)
	return user, nil
}
