package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/learnportal/internal/app/controllers"
	"github.com/emre/learnportal/internal/app/models"
	"github.com/emre/learnportal/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	accessController *controllers.AccessController,
	studentController *controllers.StudentController,
	resourceController *controllers.ResourceController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// Access links are their own credential; no session required.
	access := v1.Group("/access")
	{
		access.GET("/:token", accessController.Validate)
		access.POST("/:token", accessController.Redeem)
	}

	// --- Authenticated routes (admin or student session) ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/me", authController.Me)
		authenticated.GET("/folders", resourceController.ListFolders)
		authenticated.GET("/folders/:id", resourceController.GetFolder)
		authenticated.GET("/folders/:id/files", resourceController.ListFiles)
	}

	// --- Admin-only routes ---
	admin := authenticated.Group("")
	admin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
	{
		students := admin.Group("/students")
		{
			students.GET("", studentController.List)
			students.POST("", studentController.Create)
			students.PUT("/:id", studentController.Update)
			students.DELETE("/:id", studentController.Delete)
			students.POST("/:id/reset-access", studentController.ResetAccess)
			students.POST("/:id/send-access", studentController.SendAccess)
		}

		admin.POST("/folders", resourceController.CreateFolder)
		admin.POST("/folders/:id/files", resourceController.UploadFile)
		admin.DELETE("/files/:id", resourceController.DeleteFile)
	}
}
