package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/parsfiltration/site-backend/internal/auth"
	"github.com/parsfiltration/site-backend/internal/models"
	"github.com/parsfiltration/site-backend/internal/repository"
)

// AuthService issues staff session tokens
type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
	// UserFromClaims resolves token claims to an active staff user
	UserFromClaims(ctx context.Context, claims *auth.Claims) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	logger   *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, logger *slog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login verifies credentials and issues a session token. Unknown users and
// wrong passwords produce the same response.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorizedWithMsg("invalid credentials")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, models.ErrUnauthorizedWithMsg("account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrUnauthorizedWithMsg("invalid credentials")
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		s.logger.Error("failed to generate token",
			slog.String("username", user.Username),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("user logged in",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return &LoginResult{Token: token, User: user}, nil
}

// UserFromClaims loads the user behind validated claims and checks it is
// still active.
func (s *authService) UserFromClaims(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorizedWithMsg("user not found")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, models.ErrUnauthorizedWithMsg("account is inactive")
	}

	return user, nil
}
