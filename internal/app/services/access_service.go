package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/emre/learnportal/internal/app/models"
	"github.com/emre/learnportal/internal/app/models/dto"
	"github.com/emre/learnportal/internal/pkg/apperrors"
	"github.com/emre/learnportal/internal/pkg/auth"
)

// mockable in tests
var nowFunc = time.Now

// AccessService implements the one-time access-token protocol: a student
// reaches authenticated content via a mailed link instead of a password,
// exactly once per issued token.
//
// Validate and Redeem are deliberately separate operations: validation
// renders a personalized verification prompt without consuming the token,
// so a student who closes the tab has not burned their link. Only a
// successful email match consumes it.
type AccessService interface {
	Issue(ctx context.Context, studentID int64) (string, error)
	Validate(ctx context.Context, token string) (*models.AccessInfo, error)
	Redeem(ctx context.Context, token, suppliedEmail string) (*dto.RedeemAccessResponse, error)
	Reset(ctx context.Context, studentID int64) (*models.Student, error)
	EnsureFreshToken(ctx context.Context, studentID int64) (*models.Student, bool, error)
}

type accessServiceImpl struct {
	students   StudentStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAccessService creates a new access-token service
func NewAccessService(students StudentStore, jwtService *auth.JWTService, logger zerolog.Logger) AccessService {
	return &accessServiceImpl{
		students:   students,
		jwtService: jwtService,
		logger:     logger,
	}
}

// newAccessToken generates an opaque capability secret. A v4 uuid string is
// unguessable enough for a link-borne credential and matches what the
// roster stores.
func newAccessToken() string {
	return uuid.NewString()
}

// Issue generates a fresh token for the student, overwriting any previous
// value and clearing the consumed flag. The old link stops working the
// moment this returns.
func (s *accessServiceImpl) Issue(ctx context.Context, studentID int64) (string, error) {
	student, err := s.students.SetToken(ctx, studentID, newAccessToken())
	if err != nil {
		return "", fmt.Errorf("error issuing access token: %w", err)
	}

	s.logger.Info().Int64("studentID", studentID).Msg("Access token issued")
	return student.AccessToken, nil
}

// Validate looks up the student by exact token match and returns enough
// identity to render a verification prompt. The token is not consumed.
func (s *accessServiceImpl) Validate(ctx context.Context, token string) (*models.AccessInfo, error) {
	if token == "" {
		return nil, apperrors.ErrInvalidAccessToken
	}

	student, err := s.students.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if student.IsAccessUsed {
		return nil, apperrors.ErrAccessTokenUsed
	}

	return &models.AccessInfo{
		StudentID: student.ID,
		Name:      student.Name,
		Email:     student.Email,
	}, nil
}

// Redeem converts a token plus a matching email into an authenticated
// student session and marks the token consumed.
//
// An email mismatch leaves the token unused and redeemable: the token
// itself is the secret, the email check only guards against pasted-wrong
// links. The consuming write is conditional on the token still being
// unused, so two concurrent redeems produce exactly one session.
func (s *accessServiceImpl) Redeem(ctx context.Context, token, suppliedEmail string) (*dto.RedeemAccessResponse, error) {
	info, err := s.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(strings.TrimSpace(suppliedEmail), info.Email) {
		return nil, apperrors.ErrEmailMismatch
	}

	student, err := s.students.ConsumeToken(ctx, token, nowFunc())
	if err != nil {
		return nil, err
	}

	session := models.Session{
		ID:    student.ID,
		Name:  student.Name,
		Email: student.Email,
		Role:  models.RoleStudent,
	}

	signed, expiresIn, err := s.jwtService.GenerateToken(session.ID, session.Name, session.Email, string(session.Role))
	if err != nil {
		return nil, fmt.Errorf("error signing student session: %w", err)
	}

	s.logger.Info().Int64("studentID", student.ID).Msg("Access token redeemed")

	return &dto.RedeemAccessResponse{
		Session: session,
		Token: dto.TokenResponse{
			AccessToken: signed,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
	}, nil
}

// Reset is the administrator action: issue a fresh token, clear the
// consumed flag, and return the updated record so the admin UI can display
// the new link. Last write wins against any redemption in flight.
func (s *accessServiceImpl) Reset(ctx context.Context, studentID int64) (*models.Student, error) {
	student, err := s.students.SetToken(ctx, studentID, newAccessToken())
	if err != nil {
		return nil, fmt.Errorf("error resetting access token: %w", err)
	}

	s.logger.Info().Int64("studentID", studentID).Msg("Access token reset")
	return student, nil
}

// EnsureFreshToken issues a new token only when the current one is missing
// or already consumed, and reports whether a refresh happened. Used by the
// send-access-email flow so an unused link is re-sent rather than rotated.
func (s *accessServiceImpl) EnsureFreshToken(ctx context.Context, studentID int64) (*models.Student, bool, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, false, err
	}

	if student.AccessToken != "" && !student.IsAccessUsed {
		return student, false, nil
	}

	refreshed, err := s.students.SetToken(ctx, studentID, newAccessToken())
	if err != nil {
		return nil, false, fmt.Errorf("error refreshing access token: %w", err)
	}

	return refreshed, true, nil
}
