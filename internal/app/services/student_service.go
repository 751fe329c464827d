package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/emre/learnportal/internal/app/models"
	"github.com/emre/learnportal/internal/app/models/dto"
	"github.com/emre/learnportal/internal/pkg/apperrors"
	"github.com/emre/learnportal/internal/pkg/email"
)

// StudentService manages the roster and the delivery of access links.
type StudentService interface {
	List(ctx context.Context) ([]*models.Student, error)
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
	SendAccessEmail(ctx context.Context, id int64) (*dto.SendAccessEmailResponse, error)
}

type studentServiceImpl struct {
	students     StudentStore
	accessSvc    AccessService
	emailService email.Service
	baseURL      string
	logger       zerolog.Logger
}

// NewStudentService creates a new StudentService. baseURL is the public
// origin the portal is served from; access links are built against it.
func NewStudentService(students StudentStore, accessSvc AccessService, emailService email.Service, baseURL string, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{
		students:     students,
		accessSvc:    accessSvc,
		emailService: emailService,
		baseURL:      strings.TrimRight(baseURL, "/"),
		logger:       logger,
	}
}

// List returns the whole roster, newest first
func (s *studentServiceImpl) List(ctx context.Context) ([]*models.Student, error) {
	return s.students.List(ctx)
}

// Create registers a new student. Every student is born with a fresh unused
// access token so the admin can mail a link immediately.
func (s *studentServiceImpl) Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	name := strings.TrimSpace(req.Name)
	mail := strings.TrimSpace(req.Email)
	if name == "" || mail == "" {
		return nil, apperrors.NewValidationError("name and email are required")
	}

	student, err := s.students.Create(ctx, name, mail, newAccessToken())
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", student.ID).Str("email", student.Email).Msg("Student created")
	return student, nil
}

// Update replaces a student's name and email. The access token is not
// touched; a rename does not invalidate an outstanding link.
func (s *studentServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	name := strings.TrimSpace(req.Name)
	mail := strings.TrimSpace(req.Email)
	if name == "" || mail == "" {
		return nil, apperrors.NewValidationError("name and email are required")
	}

	return s.students.UpdateProfile(ctx, id, name, mail)
}

// Delete removes a student from the roster. Their access link dies with the
// row.
func (s *studentServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.students.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}

// AccessURL builds the public link a given token resolves to.
func (s *studentServiceImpl) accessURL(token string) string {
	return fmt.Sprintf("%s/access/%s", s.baseURL, token)
}

// SendAccessEmail mails the student their access link, refreshing the token
// first if it is missing or already consumed.
//
// A token refresh is never undone when the mail fails: the new link is
// valid regardless, and the response carries it so the admin can deliver
// it by hand. Mail failure is therefore reported as Sent=false, not as an
// error.
func (s *studentServiceImpl) SendAccessEmail(ctx context.Context, id int64) (*dto.SendAccessEmailResponse, error) {
	student, refreshed, err := s.accessSvc.EnsureFreshToken(ctx, id)
	if err != nil {
		return nil, err
	}
	if refreshed {
		s.logger.Info().Int64("studentID", id).Msg("Access token refreshed before mailing")
	}

	url := s.accessURL(student.AccessToken)

	if err := s.emailService.SendAccessEmail(student.Email, student.Name, url); err != nil {
		s.logger.Warn().Err(err).Int64("studentID", id).Msg("Failed to send access email")
		return &dto.SendAccessEmailResponse{Sent: false, AccessURL: url}, nil
	}

	s.logger.Info().Int64("studentID", id).Str("email", student.Email).Msg("Access email sent")
	return &dto.SendAccessEmailResponse{Sent: true, AccessURL: url}, nil
}
