package routes

import (
	"galleryshare/controllers"
	"galleryshare/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	authController := controllers.NewAuthController(container.AuthService)

	// First-run setup lives outside /auth: the frontend polls it before any
	// account exists.
	rg.GET("/setup/status", authController.SetupStatus)
	rg.POST("/setup/admin", authController.SetupAdmin)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.GET("/me", middleware.AuthMiddleware(container.JWTSecret), authController.Me)
	}
}
