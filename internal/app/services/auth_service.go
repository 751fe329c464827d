package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/emre/learnportal/internal/app/models"
	"github.com/emre/learnportal/internal/app/models/dto"
	"github.com/emre/learnportal/internal/pkg/apperrors"
	"github.com/emre/learnportal/internal/pkg/auth"
)

// AuthService handles administrator authentication
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type authServiceImpl struct {
	users      UserStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		users:      users,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login verifies admin credentials and returns a signed session. Unknown
// email and wrong password collapse into the same error so the endpoint
// does not leak which admins exist.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	session := models.Session{
		ID:    user.ID,
		Name:  user.FullName,
		Email: user.Email,
		Role:  models.RoleAdmin,
	}

	signed, expiresIn, err := s.jwtService.GenerateToken(session.ID, session.Name, session.Email, string(session.Role))
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("Admin logged in")

	return &dto.AuthResponse{
		Session: session,
		Token: dto.TokenResponse{
			AccessToken: signed,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
	}, nil
}
