package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/microfeed/core/internal/domain/entities"
	"github.com/microfeed/core/internal/infrastructure/logger"
	"github.com/microfeed/core/internal/ports"
)

// AuthService handles registration and credential verification.
type AuthService struct {
	userRepo   ports.UserRepository
	bcryptCost int
	logger     *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo ports.UserRepository, bcryptCost int, logger *logger.Logger) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a new user account. Username uniqueness is checked
// inside the repository's critical section, so concurrent registrations
// of the same name cannot both succeed.
func (s *AuthService) Register(ctx context.Context, req ports.RegisterRequest) (*entities.User, error) {
	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)

	if username == "" || password == "" {
		return nil, entities.ErrValidation
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.CreateUnique(ctx, user); err != nil {
		if errors.Is(err, entities.ErrUsernameTaken) {
			s.logger.Warn("Registration with taken username", "username", username)
		}
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)

	return user.Sanitized(), nil
}

// Authenticate verifies a username/password pair. An unknown username
// and a wrong password produce the same error so callers cannot
// enumerate accounts.
func (s *AuthService) Authenticate(ctx context.Context, req ports.LoginRequest) (*entities.User, error) {
	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)

	if username == "" || password == "" {
		return nil, entities.ErrValidation
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			s.logger.Warn("Login attempt with unknown username", "username", username)
			return nil, entities.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Login attempt with invalid password", "username", username, "user_id", user.ID)
		return nil, entities.ErrInvalidCredentials
	}

	s.logger.Info("User logged in", "user_id", user.ID, "username", user.Username)

	return user.Sanitized(), nil
}
