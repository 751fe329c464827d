package dto

import "github.com/emre/learnportal/internal/app/models"

// LoginRequest represents admin login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT session token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int    `json:"expiresIn"`
}

// AuthResponse represents a successful authentication response
type AuthResponse struct {
	Token   TokenResponse  `json:"token"`
	Session models.Session `json:"session"`
}
