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
	"github.com/emre/learnportal/internal/pkg/logger"
)

// FolderRepository handles folder database operations
type FolderRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFolderRepository creates a new FolderRepository
func NewFolderRepository(db *pgxpool.Pool) *FolderRepository {
	return &FolderRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new folder
func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) (int64, error) {
	sql, args, err := r.sb.Insert("folders").
		Columns("name", "description", "owner", "owner_email", "owner_avatar").
		Values(folder.Name, folder.Description, folder.Owner, folder.OwnerEmail, folder.OwnerAvatar).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create folder query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&folder.ID, &folder.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create folder query")
		return 0, fmt.Errorf("error creating folder: %w", err)
	}

	return folder.ID, nil
}

// GetByID retrieves a folder by id
func (r *FolderRepository) GetByID(ctx context.Context, id int64) (*models.Folder, error) {
	sql, args, err := r.sb.Select("id", "name", "description", "owner", "owner_email", "owner_avatar", "created_at").
		From("folders").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get folder query: %w", err)
	}

	folder := &models.Folder{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&folder.ID, &folder.Name, &folder.Description,
		&folder.Owner, &folder.OwnerEmail, &folder.OwnerAvatar, &folder.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFolderNotFound
		}
		logger.Error().Err(err).Int64("folderID", id).Msg("Error scanning folder row")
		return nil, fmt.Errorf("error getting folder by id: %w", err)
	}

	return folder, nil
}

// List retrieves all folders, newest first
func (r *FolderRepository) List(ctx context.Context) ([]*models.Folder, error) {
	sql, args, err := r.sb.Select("id", "name", "description", "owner", "owner_email", "owner_avatar", "created_at").
		From("folders").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list folders query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list folders query")
		return nil, fmt.Errorf("error querying folders: %w", err)
	}
	defer rows.Close()

	folders := []*models.Folder{}
	for rows.Next() {
		folder := &models.Folder{}
		if err := rows.Scan(
			&folder.ID, &folder.Name, &folder.Description,
			&folder.Owner, &folder.OwnerEmail, &folder.OwnerAvatar, &folder.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning folder row: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating folder rows: %w", err)
	}

	return folders, nil
}
