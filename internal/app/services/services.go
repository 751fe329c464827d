package services

import (
	"context"
	"time"

	"github.com/emre/learnportal/internal/app/models"
	"github.com/emre/learnportal/internal/app/repositories"
)

// Store interfaces narrow the repositories to what the services actually
// use, which keeps the token protocol testable without a database.

// StudentStore is the persistence surface for the roster and token protocol.
type StudentStore interface {
	Create(ctx context.Context, name, email, accessToken string) (*models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByToken(ctx context.Context, token string) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	UpdateProfile(ctx context.Context, id int64, name, email string) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
	SetToken(ctx context.Context, id int64, token string) (*models.Student, error)
	ConsumeToken(ctx context.Context, token string, when time.Time) (*models.Student, error)
}

// FolderStore is the persistence surface for folders.
type FolderStore interface {
	Create(ctx context.Context, folder *models.Folder) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Folder, error)
	List(ctx context.Context) ([]*models.Folder, error)
}

// FileStore is the persistence surface for file metadata.
type FileStore interface {
	Create(ctx context.Context, file *models.File) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.File, error)
	ListByFolder(ctx context.Context, folderID int64) ([]*models.File, error)
	Delete(ctx context.Context, id int64) error
}

// UserStore is the persistence surface for admin accounts.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

var (
	_ StudentStore = (*repositories.StudentRepository)(nil)
	_ FolderStore  = (*repositories.FolderRepository)(nil)
	_ FileStore    = (*repositories.FileRepository)(nil)
	_ UserStore    = (*repositories.UserRepository)(nil)
)
