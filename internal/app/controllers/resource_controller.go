package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emre/learnportal/internal/app/models/dto"
	"github.com/emre/learnportal/internal/app/services"
	"github.com/emre/learnportal/internal/middleware"
)

// ResourceController handles the folder and file catalog endpoints
type ResourceController struct {
	resourceService services.ResourceService
	logger          zerolog.Logger
}

// NewResourceController creates a new ResourceController
func NewResourceController(resourceService services.ResourceService, logger zerolog.Logger) *ResourceController {
	return &ResourceController{
		resourceService: resourceService,
		logger:          logger,
	}
}

// ListFolders returns every folder
func (c *ResourceController) ListFolders(ctx *gin.Context) {
	folders, err := c.resourceService.ListFolders(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(folders))
}

// CreateFolder creates a folder owned by the calling admin
func (c *ResourceController) CreateFolder(ctx *gin.Context) {
	var req dto.CreateFolderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid create folder payload")
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	owner := ctx.GetString(middleware.ContextName)
	ownerEmail := ctx.GetString(middleware.ContextEmail)

	folder, err := c.resourceService.CreateFolder(ctx.Request.Context(), &req, owner, ownerEmail)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(folder))
}

// GetFolder returns a single folder
func (c *ResourceController) GetFolder(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	folder, err := c.resourceService.GetFolder(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(folder))
}

// ListFiles returns a folder's files
func (c *ResourceController) ListFiles(ctx *gin.Context) {
	folderID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	files, err := c.resourceService.ListFiles(ctx.Request.Context(), folderID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(files))
}

// UploadFile stores an uploaded object under the folder and records its
// metadata.
func (c *ResourceController) UploadFile(ctx *gin.Context) {
	folderID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		c.logger.Warn().Err(err).Msg("Upload request missing file field")
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File is required").WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	var form dto.UploadFileForm
	if err := ctx.ShouldBind(&form); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	uploadedBy := ctx.GetString(middleware.ContextName)

	file, err := c.resourceService.UploadFile(ctx.Request.Context(), folderID, fileHeader, form.Description, uploadedBy)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(file))
}

// DeleteFile removes a file and its stored object
func (c *ResourceController) DeleteFile(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.resourceService.DeleteFile(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "File deleted"}))
}
