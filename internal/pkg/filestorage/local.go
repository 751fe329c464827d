package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/emre/learnportal/internal/pkg/logger"
)

// LocalStorage stores objects on the local filesystem and serves them
// through the application's static /uploads route.
type LocalStorage struct {
	basePath string // root directory where objects are written
	baseURL  string // URL prefix under which objects are reachable
}

// NewLocalStorage creates a new LocalStorage instance. basePath is created
// if it does not exist.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// SaveFile stores an uploaded file under a uuid-based name inside subPath.
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader, subPath string) (*StoredObject, error) {
	if fileHeader == nil {
		return nil, fmt.Errorf("no file provided")
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	fullDirPath := ls.basePath
	if subPath != "" {
		fullDirPath = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
			logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
			return nil, fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	// uuid name prevents collisions between uploads with the same filename
	ext := filepath.Ext(fileHeader.Filename)
	uniqueName := uuid.New().String() + ext

	dstPath := filepath.Join(fullDirPath, uniqueName)
	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	storagePath := uniqueName
	if subPath != "" {
		storagePath = path.Join(subPath, uniqueName)
	}

	obj := &StoredObject{
		URL:         ls.baseURL + "/" + storagePath,
		StoragePath: storagePath,
		Size:        written,
	}

	logger.Info().
		Str("filename", fileHeader.Filename).
		Str("storagePath", obj.StoragePath).
		Int64("size", obj.Size).
		Msg("File saved")
	return obj, nil
}

// DeleteFile removes a stored object by its storage path. Returns nil if the
// object does not exist (idempotent delete).
func (ls *LocalStorage) DeleteFile(storagePath string) error {
	if storagePath == "" {
		return nil
	}

	// The storage path is always relative to the base directory; reject
	// anything that tries to escape it.
	cleaned := filepath.Clean(filepath.FromSlash(storagePath))
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return fmt.Errorf("invalid storage path: %s", storagePath)
	}

	physicalPath := filepath.Join(ls.basePath, cleaned)
	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted")
	return nil
}
