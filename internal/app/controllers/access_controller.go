package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emre/learnportal/internal/app/models/dto"
	"github.com/emre/learnportal/internal/app/services"
	"github.com/emre/learnportal/internal/middleware"
)

// AccessController exposes the public access-link endpoints. Both routes
// are unauthenticated; the token in the path is the credential.
type AccessController struct {
	accessService services.AccessService
	logger        zerolog.Logger
}

// NewAccessController creates a new AccessController
func NewAccessController(accessService services.AccessService, logger zerolog.Logger) *AccessController {
	return &AccessController{
		accessService: accessService,
		logger:        logger,
	}
}

// Validate checks the token and returns the student identity for the
// verification prompt. The token is not consumed.
func (c *AccessController) Validate(ctx *gin.Context) {
	token := ctx.Param("token")

	info, err := c.accessService.Validate(ctx.Request.Context(), token)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AccessValidationResponse{
		StudentID: info.StudentID,
		Name:      info.Name,
		Email:     info.Email,
	}))
}

// Redeem consumes the token against the supplied email and opens a student
// session.
func (c *AccessController) Redeem(ctx *gin.Context) {
	token := ctx.Param("token")

	var req dto.RedeemAccessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid redeem request payload")
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	resp, err := c.accessService.Redeem(ctx.Request.Context(), token, req.Email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
