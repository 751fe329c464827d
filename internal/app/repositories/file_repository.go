package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/learnportal/internal/app/models"
	"github.com/emre/learnportal/internal/pkg/apperrors"
	"github.com/emre/learnportal/internal/pkg/dberrors"
	"github.com/emre/learnportal/internal/pkg/logger"
)

var fileColumns = []string{
	"id", "name", "type", "size", "size_formatted", "url",
	"storage_path", "uploaded_by", "description", "folder_id", "created_at",
}

// FileRepository handles file metadata database operations
type FileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *pgxpool.Pool) *FileRepository {
	return &FileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanFile(row pgx.Row) (*models.File, error) {
	f := &models.File{}
	err := row.Scan(
		&f.ID, &f.Name, &f.Type, &f.Size, &f.SizeFormatted, &f.URL,
		&f.StoragePath, &f.UploadedBy, &f.Description, &f.FolderID, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Create inserts a file metadata row. The owning folder must exist; the
// foreign key enforces it.
func (r *FileRepository) Create(ctx context.Context, file *models.File) (int64, error) {
	sql, args, err := r.sb.Insert("files").
		Columns("name", "type", "size", "size_formatted", "url",
			"storage_path", "uploaded_by", "description", "folder_id").
		Values(file.Name, file.Type, file.Size, file.SizeFormatted, file.URL,
			file.StoragePath, file.UploadedBy, file.Description, file.FolderID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create file query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&file.ID, &file.CreatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrFolderNotFound
		}
		logger.Error().Err(err).Msg("Error executing create file query")
		return 0, fmt.Errorf("error creating file record: %w", err)
	}

	return file.ID, nil
}

// GetByID retrieves a file metadata row by id
func (r *FileRepository) GetByID(ctx context.Context, id int64) (*models.File, error) {
	sql, args, err := r.sb.Select(fileColumns...).
		From("files").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get file query: %w", err)
	}

	file, err := scanFile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFileNotFound
		}
		logger.Error().Err(err).Int64("fileID", id).Msg("Error scanning file row")
		return nil, fmt.Errorf("error getting file by id: %w", err)
	}

	return file, nil
}

// ListByFolder retrieves a folder's files, newest first. An unknown folder
// yields an empty slice, not an error; callers check folder existence
// separately when they care.
func (r *FileRepository) ListByFolder(ctx context.Context, folderID int64) ([]*models.File, error) {
	sql, args, err := r.sb.Select(fileColumns...).
		From("files").
		Where(squirrel.Eq{"folder_id": folderID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list files query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("folderID", folderID).Msg("Error executing list files query")
		return nil, fmt.Errorf("error querying files: %w", err)
	}
	defer rows.Close()

	files := []*models.File{}
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning file row: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file rows: %w", err)
	}

	return files, nil
}

// Delete removes a file metadata row
func (r *FileRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("files").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete file query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("fileID", id).Msg("Error executing delete file query")
		return fmt.Errorf("error deleting file record: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrFileNotFound
	}

	return nil
}
