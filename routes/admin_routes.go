package routes

import (
	"galleryshare/controllers"
	"galleryshare/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes covers the dashboard extras: activity log and stats.
func RegisterAdminRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	activityController := controllers.NewActivityController(container.ActivityService)
	statsController := controllers.NewStatsController(container.StatsService)

	auth := middleware.AuthMiddleware(container.JWTSecret)
	rg.GET("/activity-logs", auth, activityController.List)
	rg.DELETE("/activity-logs", auth, activityController.Clear)
	rg.GET("/stats", auth, statsController.Dashboard)
}
