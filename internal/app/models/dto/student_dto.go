package dto

// CreateStudentRequest represents an admin adding a student to the roster
type CreateStudentRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// UpdateStudentRequest replaces a student's display fields. The access token
// and consumed flag are never touched through this path.
type UpdateStudentRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// SendAccessEmailResponse reports the outcome of a send-access request.
// AccessURL is always populated so the admin can hand the link out manually
// when delivery failed.
type SendAccessEmailResponse struct {
	Sent      bool   `json:"sent"`
	AccessURL string `json:"accessUrl"`
}
