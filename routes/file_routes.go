package routes

import (
	"galleryshare/controllers"
	"galleryshare/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterFileRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	fileController := controllers.NewFileController(container.FileService, container.ZipService)

	files := rg.Group("/files")
	files.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		files.POST("/upload", fileController.UploadFiles)
		files.POST("/download-zip", fileController.DownloadZip)
		files.GET("", fileController.ListFiles)
		files.DELETE("/:id", fileController.DeleteFile)
		files.GET("/:id/download", fileController.Download)
		files.GET("/:id/stream", fileController.Stream)
		files.GET("/:id/thumbnail", fileController.Thumbnail)
		files.GET("/:id/preview", fileController.Preview)
	}
}
