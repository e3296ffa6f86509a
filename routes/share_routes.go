package routes

import (
	"galleryshare/controllers"
	"galleryshare/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterShareRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	shareController := controllers.NewShareController(container.ShareService)

	shares := rg.Group("/shares")
	shares.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		shares.POST("", shareController.CreateShare)
		shares.GET("", shareController.ListShares)
		shares.PUT("/:id", shareController.UpdateShare)
		shares.DELETE("/:id", shareController.DeleteShare)
		shares.GET("/:id/qrcode", shareController.QRCode)
	}
}
