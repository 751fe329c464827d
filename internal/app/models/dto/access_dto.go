package dto

import "github.com/emre/learnportal/internal/app/models"

// RedeemAccessRequest carries the email check for token redemption
type RedeemAccessRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// AccessValidationResponse is returned by token validation so the caller can
// render a personalized verification prompt before the token is consumed.
type AccessValidationResponse struct {
	StudentID int64  `json:"studentId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// RedeemAccessResponse is returned on successful redemption
type RedeemAccessResponse struct {
	Session models.Session `json:"session"`
	Token   TokenResponse  `json:"token"`
}
