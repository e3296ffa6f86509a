package routes

import (
	"galleryshare/controllers"
	"galleryshare/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterProductRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	productController := controllers.NewProductController(container.ProductService)

	// Checkout needs the catalog without credentials.
	rg.GET("/catalog", productController.PublicCatalog)

	products := rg.Group("/products")
	products.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		products.POST("", productController.CreateProduct)
		products.GET("", productController.ListProducts)
		products.PUT("/:id", productController.UpdateProduct)
		products.DELETE("/:id", productController.DeleteProduct)
	}
}
