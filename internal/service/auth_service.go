package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/qalamart/storeapi/internal/repository"
	"github.com/qalamart/storeapi/pkg/errors"
)

type authService struct {
	repos    *repository.Repositories
	sessions repository.Sessions
	logger   *zap.Logger
}

// NewAuthService creates a new admin authentication service
func NewAuthService(repos *repository.Repositories, sessions repository.Sessions, logger *zap.Logger) *authService {
	return &authService{
		repos:    repos,
		sessions: sessions,
		logger:   logger,
	}
}

// Login verifies credentials and issues an opaque session token
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repos.AdminUsers.GetByUsername(ctx, username)
	if err != nil {
		if _, ok := err.(*errors.ErrNotFound); ok {
			return "", &errors.ErrUnauthorized{Message: "invalid credentials"}
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", &errors.ErrUnauthorized{Message: "invalid credentials"}
	}

	token, err := s.sessions.Create(ctx, user.Username)
	if err != nil {
		return "", err
	}

	s.logger.Info("Admin logged in", zap.String("username", user.Username))

	return token, nil
}

// Verify resolves a session token to its username
func (s *authService) Verify(ctx context.Context, token string) (string, error) {
	return s.sessions.Lookup(ctx, token)
}

// Logout invalidates a session token
func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}
