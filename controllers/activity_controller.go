package controllers

import (
	"strconv"

	"galleryshare/services"
	"galleryshare/utils"

	"github.com/gin-gonic/gin"
)

type ActivityController struct {
	activityService *services.ActivityService
}

func NewActivityController(activityService *services.ActivityService) *ActivityController {
	return &ActivityController{activityService: activityService}
}

// List pages through the audit log, optionally filtered by ?search across
// share token, folder name and file name.
func (ac *ActivityController) List(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	skip, _ := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)

	page, err := ac.activityService.List(c.Request.Context(), c.Query("search"), limit, skip)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Activity", page)
}

func (ac *ActivityController) Clear(c *gin.Context) {
	deleted, err := ac.activityService.ClearAll(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Activity cleared", gin.H{"deleted": deleted})
}
