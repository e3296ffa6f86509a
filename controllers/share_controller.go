package controllers

import (
	"net/http"

	"galleryshare/services"
	"galleryshare/utils"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

type ShareController struct {
	shareService *services.ShareService
}

func NewShareController(shareService *services.ShareService) *ShareController {
	return &ShareController{shareService: shareService}
}

func (sc *ShareController) CreateShare(c *gin.Context) {
	var req struct {
		FolderID   string `json:"folder_id" binding:"required"`
		Token      string `json:"token"`
		Permission string `json:"permission" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	folderID, err := parseObjectID(req.FolderID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	share, err := sc.shareService.CreateShare(c.Request.Context(), folderID, req.Token, req.Permission)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Share created", share)
}

func (sc *ShareController) ListShares(c *gin.Context) {
	shares, err := sc.shareService.ListShares(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, "Shares listed", shares)
}

// UpdateShare changes the permission tier. The token itself is immutable:
// clients may have printed or bookmarked it.
func (sc *ShareController) UpdateShare(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	var req struct {
		Permission string `json:"permission" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	share, err := sc.shareService.UpdateShare(c.Request.Context(), id, req.Permission)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Share updated", share)
}

func (sc *ShareController) DeleteShare(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if err := sc.shareService.DeleteShare(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Share revoked", nil)
}

// QRCode renders the share URL as a PNG for printing on gallery cards.
func (sc *ShareController) QRCode(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	share, err := sc.shareService.GetShare(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	png, err := qrcode.Encode(sc.shareService.ShareURL(share.Token), qrcode.Medium, 512)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to render QR code", nil)
		utils.LogError("qr code generation failed", err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
