package filestorage

import (
	"mime/multipart"
)

// StoredObject describes a successfully stored binary.
type StoredObject struct {
	// URL is the publicly resolvable location of the object.
	URL string
	// StoragePath is the path relative to the storage root, kept on the
	// metadata row so deletion can find the object again.
	StoragePath string
	// Size in bytes.
	Size int64
}

// ObjectStorage defines the interface for binary object storage.
type ObjectStorage interface {
	// SaveFile stores an uploaded file under a collision-free generated name
	// inside the given subdirectory (typically the owning folder id).
	SaveFile(fileHeader *multipart.FileHeader, subPath string) (*StoredObject, error)

	// DeleteFile removes a stored object by its storage path. Deleting a
	// missing object is not an error.
	DeleteFile(storagePath string) error
}
