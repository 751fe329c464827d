// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emre/learnportal/internal/app/models"
	"github.com/emre/learnportal/internal/app/models/dto"
	"github.com/emre/learnportal/internal/app/services"
	"github.com/emre/learnportal/internal/middleware"
)

// AuthController handles administrator authentication and session identity
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Login authenticates an admin and returns a signed session
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Me returns the identity behind the presented session token
func (c *AuthController) Me(ctx *gin.Context) {
	session := models.Session{
		ID:    ctx.GetInt64(middleware.ContextSubjectID),
		Name:  ctx.GetString(middleware.ContextName),
		Email: ctx.GetString(middleware.ContextEmail),
		Role:  models.RoleType(ctx.GetString(middleware.ContextRole)),
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(session))
}
