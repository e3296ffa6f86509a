package routes

import (
	"galleryshare/controllers"
	"galleryshare/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterFolderRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	folderController := controllers.NewFolderController(container.FolderService, container.ZipService)

	folders := rg.Group("/folders")
	folders.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		folders.POST("", folderController.CreateFolder)
		folders.GET("", folderController.ListFolders)
		folders.GET("/:id", folderController.GetFolder)
		folders.GET("/:id/path", folderController.Path)
		folders.GET("/:id/download-zip", folderController.DownloadZip)
		folders.PUT("/:id", folderController.UpdateFolder)
		folders.DELETE("/:id", folderController.DeleteFolder)
	}
}
