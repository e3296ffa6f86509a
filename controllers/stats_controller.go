package controllers

import (
	"galleryshare/services"
	"galleryshare/utils"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	statsService *services.StatsService
}

func NewStatsController(statsService *services.StatsService) *StatsController {
	return &StatsController{statsService: statsService}
}

func (sc *StatsController) Dashboard(c *gin.Context) {
	stats, err := sc.statsService.Collect(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, "Stats", stats)
}
