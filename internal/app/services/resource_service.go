package services

import (
	"context"
	"mime/multipart"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/emre/learnportal/internal/app/models"
	"github.com/emre/learnportal/internal/app/models/dto"
	"github.com/emre/learnportal/internal/pkg/apperrors"
	"github.com/emre/learnportal/internal/pkg/filestorage"
	"github.com/emre/learnportal/internal/pkg/helpers"
)

// ResourceService manages the folder/file catalog and the stored objects
// behind it.
type ResourceService interface {
	ListFolders(ctx context.Context) ([]*models.Folder, error)
	CreateFolder(ctx context.Context, req *dto.CreateFolderRequest, owner, ownerEmail string) (*models.Folder, error)
	GetFolder(ctx context.Context, id int64) (*models.Folder, error)
	ListFiles(ctx context.Context, folderID int64) ([]*models.File, error)
	UploadFile(ctx context.Context, folderID int64, fileHeader *multipart.FileHeader, description, uploadedBy string) (*models.File, error)
	DeleteFile(ctx context.Context, id int64) error
}

type resourceServiceImpl struct {
	folders FolderStore
	files   FileStore
	storage filestorage.ObjectStorage
	logger  zerolog.Logger
}

// NewResourceService creates a new ResourceService
func NewResourceService(folders FolderStore, files FileStore, storage filestorage.ObjectStorage, logger zerolog.Logger) ResourceService {
	return &resourceServiceImpl{
		folders: folders,
		files:   files,
		storage: storage,
		logger:  logger,
	}
}

// ListFolders returns every folder, newest first
func (s *resourceServiceImpl) ListFolders(ctx context.Context) ([]*models.Folder, error) {
	return s.folders.List(ctx)
}

// CreateFolder creates a folder owned by the given admin identity
func (s *resourceServiceImpl) CreateFolder(ctx context.Context, req *dto.CreateFolderRequest, owner, ownerEmail string) (*models.Folder, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("folder name is required")
	}

	folder := &models.Folder{
		Name:       name,
		Owner:      owner,
		OwnerEmail: ownerEmail,
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		folder.Description = &desc
	}

	if _, err := s.folders.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("folderID", folder.ID).Str("name", folder.Name).Msg("Folder created")
	return folder, nil
}

// GetFolder retrieves a single folder by id
func (s *resourceServiceImpl) GetFolder(ctx context.Context, id int64) (*models.Folder, error) {
	return s.folders.GetByID(ctx, id)
}

// ListFiles returns a folder's files, newest first. An unknown folder yields
// an empty slice, not an error; callers that care whether the folder exists
// ask GetFolder.
func (s *resourceServiceImpl) ListFiles(ctx context.Context, folderID int64) ([]*models.File, error) {
	return s.files.ListByFolder(ctx, folderID)
}

// deriveFileKind classifies an upload by its declared content type, falling
// back to the filename extension when the browser sent none.
func deriveFileKind(contentType, filename string) models.FileKind {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(ct, "video/"):
		return models.FileKindVideo
	case strings.HasPrefix(ct, "image/"):
		return models.FileKindImage
	case strings.Contains(ct, "pdf"), strings.Contains(ct, "doc"), strings.Contains(ct, "text"):
		return models.FileKindDocument
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp4", ".mov", ".avi", ".mkv", ".webm":
		return models.FileKindVideo
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg":
		return models.FileKindImage
	case ".pdf", ".doc", ".docx", ".txt", ".md":
		return models.FileKindDocument
	}
	return models.FileKindOther
}

// UploadFile stores the object and records its metadata under the folder.
// The object is written first; if the metadata insert fails the orphaned
// object is removed so storage and catalog stay consistent.
func (s *resourceServiceImpl) UploadFile(ctx context.Context, folderID int64, fileHeader *multipart.FileHeader, description, uploadedBy string) (*models.File, error) {
	if fileHeader == nil {
		return nil, apperrors.NewValidationError("file is required")
	}

	if _, err := s.folders.GetByID(ctx, folderID); err != nil {
		return nil, err
	}

	// Objects are scoped per folder so names generated for one folder can
	// never collide with another's.
	stored, err := s.storage.SaveFile(fileHeader, path.Join("resources", strconv.FormatInt(folderID, 10)))
	if err != nil {
		s.logger.Error().Err(err).Int64("folderID", folderID).Msg("Failed to store uploaded file")
		return nil, err
	}

	file := &models.File{
		Name:          fileHeader.Filename,
		Type:          deriveFileKind(fileHeader.Header.Get("Content-Type"), fileHeader.Filename),
		Size:          stored.Size,
		SizeFormatted: helpers.FormatFileSize(stored.Size),
		URL:           stored.URL,
		StoragePath:   stored.StoragePath,
		UploadedBy:    uploadedBy,
		FolderID:      folderID,
	}
	if desc := strings.TrimSpace(description); desc != "" {
		file.Description = &desc
	}

	if _, err := s.files.Create(ctx, file); err != nil {
		if delErr := s.storage.DeleteFile(stored.StoragePath); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", stored.StoragePath).Msg("Failed to clean up orphaned object")
		}
		return nil, err
	}

	s.logger.Info().Int64("fileID", file.ID).Int64("folderID", folderID).Str("name", file.Name).Msg("File uploaded")
	return file, nil
}

// DeleteFile removes the stored object and then the metadata row. A missing
// object is tolerated; a stale catalog row is worse than a leaked blob.
func (s *resourceServiceImpl) DeleteFile(ctx context.Context, id int64) error {
	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteFile(file.StoragePath); err != nil {
		s.logger.Warn().Err(err).Str("path", file.StoragePath).Msg("Failed to delete stored object")
	}

	if err := s.files.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("fileID", id).Msg("File deleted")
	return nil
}
