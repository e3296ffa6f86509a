package routes

import (
	"galleryshare/controllers"
	"galleryshare/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterOrderRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	orderController := controllers.NewOrderController(container.OrderService)

	// Public checkout; the share token inside the body is the credential.
	rg.POST("/orders", orderController.SubmitOrder)

	auth := middleware.AuthMiddleware(container.JWTSecret)
	rg.GET("/orders", auth, orderController.ListOrders)
	rg.GET("/orders/:id", auth, orderController.GetOrder)
	rg.PUT("/orders/:id/status", auth, orderController.UpdateStatus)
}
