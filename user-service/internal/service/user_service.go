// Package service implements registration, login and profile reads for the
// user service, the dashboard's profile source.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/farahsharshar/v-banking-system/shared/errs"
	"github.com/farahsharshar/v-banking-system/shared/middleware"
	"github.com/farahsharshar/v-banking-system/shared/models"
	"github.com/farahsharshar/v-banking-system/shared/utils"
)

// Store is the persistence contract for users.
type Store interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error)
}

type UserService struct {
	store Store
}

func NewUserService(store Store) *UserService {
	return &UserService{store: store}
}

type Registration struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

func (s *UserService) Register(ctx context.Context, reg Registration) (*models.User, error) {
	taken, err := s.store.UsernameOrEmailTaken(ctx, reg.Username, reg.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("username or email: %w", errs.ErrConflict)
	}

	hash, err := utils.HashPassword(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Username:     reg.Username,
		PasswordHash: hash,
		Email:        reg.Email,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and issues a bearer token. Wrong username
// and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", errs.ErrInvalidCredentials)
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return "", nil, fmt.Errorf("login: %w", errs.ErrInvalidCredentials)
	}

	token, err := middleware.IssueToken(user.ID.String(), user.Username)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, user, nil
}

// GetProfile serves the identity fields the dashboard needs.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfileView, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.UserProfileView{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}
