package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/learnportal/internal/app/models"
	"github.com/emre/learnportal/internal/pkg/apperrors"
	"github.com/emre/learnportal/internal/pkg/logger"
)

var studentColumns = []string{
	"id", "name", "email", "progress", "last_active",
	"access_token", "is_access_used", "created_at",
}

// StudentRepository handles student roster database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(
		&s.ID, &s.Name, &s.Email, &s.Progress, &s.LastActive,
		&s.AccessToken, &s.IsAccessUsed, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new student with a freshly issued access token
func (r *StudentRepository) Create(ctx context.Context, name, email, accessToken string) (*models.Student, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("name", "email", "access_token", "is_access_used").
		Values(name, email, accessToken, false).
		Suffix("RETURNING " + strings.Join(studentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create student query")
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	return student, nil
}

// GetByID retrieves a student by id
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by id: %w", err)
	}

	return student, nil
}

// GetByToken retrieves a student by exact access-token match. The unique
// index on access_token makes the lookup unambiguous.
func (r *StudentRepository) GetByToken(ctx context.Context, token string) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"access_token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student by token query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidAccessToken
		}
		logger.Error().Err(err).Msg("Error scanning student row by token")
		return nil, fmt.Errorf("error getting student by token: %w", err)
	}

	return student, nil
}

// List retrieves the whole roster, newest-created first
func (r *StudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// UpdateProfile replaces a student's display fields, leaving the access
// token and consumed flag untouched.
func (r *StudentRepository) UpdateProfile(ctx context.Context, id int64, name, email string) (*models.Student, error) {
	sql, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"name":  name,
			"email": email,
		}).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(studentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing update student query")
		return nil, fmt.Errorf("error updating student: %w", err)
	}

	return student, nil
}

// Delete removes a student unconditionally. No other table references
// students, so there is no dependent cleanup.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// SetToken stores a freshly issued token on the student and clears the
// consumed flag. The previous token value is overwritten, which is what
// invalidates older links.
func (r *StudentRepository) SetToken(ctx context.Context, id int64, token string) (*models.Student, error) {
	sql, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"access_token":   token,
			"is_access_used": false,
		}).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(studentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build set token query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing set token query")
		return nil, fmt.Errorf("error setting access token: %w", err)
	}

	return student, nil
}

// ConsumeToken marks a token as used and stamps last_active, but only if it
// is still unused. The conditional write is what makes redemption single-use
// under concurrency: of two racing redeemers exactly one update lands, and
// the loser is told the token was already consumed.
func (r *StudentRepository) ConsumeToken(ctx context.Context, token string, when time.Time) (*models.Student, error) {
	sql, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"is_access_used": true,
			"last_active":    when,
		}).
		Where(squirrel.Eq{"access_token": token, "is_access_used": false}).
		Suffix("RETURNING " + strings.Join(studentColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build consume token query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err == nil {
		return student, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Msg("Error executing consume token query")
		return nil, fmt.Errorf("error consuming access token: %w", err)
	}

	// No row matched: either the token is unknown or it was already
	// consumed. Distinguish so the caller can report AlreadyUsed.
	existing, lookupErr := r.GetByToken(ctx, token)
	if lookupErr != nil {
		return nil, lookupErr
	}
	if existing.IsAccessUsed {
		return nil, apperrors.ErrAccessTokenUsed
	}
	return nil, apperrors.ErrInvalidAccessToken
}
