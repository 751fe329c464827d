package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/emre/learnportal/internal/app/models"
	"github.com/emre/learnportal/internal/app/repositories"
	"github.com/emre/learnportal/internal/pkg/apperrors"
	"github.com/emre/learnportal/internal/pkg/auth"
)

const (
	defaultAdminEmail    = "admin@learnportal.app"
	defaultAdminPassword = "admin123"
	defaultAdminName     = "Portal Admin"
)

// CreateDefaultData seeds the default admin account on first boot so the
// portal is usable immediately. An existing account is left untouched.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(dbPool)

	exists, err := userRepo.EmailExists(ctx, defaultAdminEmail)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:    defaultAdminEmail,
		Password: hash,
		FullName: defaultAdminName,
	}

	if _, err := userRepo.Create(ctx, admin); err != nil {
		// A concurrent boot may have won the race; that is fine.
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return err
	}

	lgr.Info().Str("email", defaultAdminEmail).Msg("Default admin account created")
	lgr.Warn().Msg("Default admin credentials are in use, change the password")
	return nil
}
