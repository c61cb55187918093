package service

import (
	"alcyxob/exercise-tracker/internal/domain"
	"alcyxob/exercise-tracker/internal/repository"
	"context"
	"errors"
	"fmt"
)

// UserService creates and lists users.
type UserService interface {
	// CreateUser returns the user with the given username, creating it when
	// it does not exist yet. created reports whether a new record was stored.
	CreateUser(ctx context.Context, username string) (user *domain.User, created bool, err error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(ctx context.Context, username string) (*domain.User, bool, error) {
	user, err := domain.NewUser(username)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("find user %q: %w", username, err)
	}

	// The lookup is only an optimization: a concurrent request may still win
	// the insert, in which case the unique index rejects ours.
	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, false, fmt.Errorf("create user %q: %w", username, err)
	}
	user.ID = id

	return user, true, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}
