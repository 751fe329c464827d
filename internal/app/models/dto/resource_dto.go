package dto

// CreateFolderRequest represents an admin creating a study-material folder
type CreateFolderRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UploadFileForm is the multipart form accompanying a file upload. The
// binary itself arrives as the "file" form field.
type UploadFileForm struct {
	Description string `form:"description"`
}
