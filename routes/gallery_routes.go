package routes

import (
	"galleryshare/controllers"
	"galleryshare/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterGalleryRoutes mounts the public tokenized surface. Every route
// resolves the token first; tier checks sit on the mutating ones.
func RegisterGalleryRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	galleryController := controllers.NewGalleryController(
		container.FolderService,
		container.FileService,
		container.ZipService,
		container.ActivityService,
	)

	gallery := rg.Group("/gallery/:token")
	gallery.Use(middleware.ShareMiddleware(container.ShareService))
	{
		gallery.GET("", galleryController.Info)
		gallery.GET("/folders", galleryController.ListFolders)
		gallery.GET("/files", galleryController.ListFiles)
		gallery.GET("/path", galleryController.Path)

		gallery.GET("/files/:id/download", galleryController.Download)
		gallery.GET("/files/:id/stream", galleryController.Stream)
		gallery.GET("/files/:id/thumbnail", galleryController.Thumbnail)
		gallery.GET("/files/:id/preview", galleryController.Preview)

		gallery.GET("/download-zip", galleryController.Zip)
		gallery.POST("/download-zip", galleryController.Zip)
		gallery.POST("/favourites", middleware.RequireUploadTier(), galleryController.Favourites)

		gallery.POST("/upload", middleware.RequireUploadTier(), galleryController.Upload)
		gallery.DELETE("/files/:id", middleware.RequireDeleteTier(), galleryController.DeleteFile)
	}
}
