package models

import "time"

// FileKind classifies a stored file by its upload MIME type
type FileKind string

const (
	FileKindVideo    FileKind = "video"
	FileKindDocument FileKind = "document"
	FileKindImage    FileKind = "image"
	FileKindOther    FileKind = "other"
)

// File defines a stored object based on the 'files' table. A file belongs to
// exactly one folder for its whole lifetime.
type File struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Type          FileKind  `json:"type" db:"type"`
	Size          int64     `json:"size" db:"size"`
	SizeFormatted string    `json:"sizeFormatted" db:"size_formatted"`
	URL           string    `json:"url" db:"url"`
	StoragePath   string    `json:"-" db:"storage_path"`
	UploadedBy    string    `json:"uploadedBy" db:"uploaded_by"`
	Description   *string   `json:"description,omitempty" db:"description"`
	FolderID      int64     `json:"folderId" db:"folder_id"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
