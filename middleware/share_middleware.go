package middleware

import (
	"errors"

	"galleryshare/models"
	"galleryshare/services"
	"galleryshare/utils"

	"github.com/gin-gonic/gin"
)

const (
	ContextShare      = "share"
	ContextShareRoot  = "shareRoot"
	ContextShareToken = "shareToken"
)

// ShareMiddleware resolves the :token path parameter into a share and its
// root folder. A dead token, a dangling share and a malformed token all look
// the same to the caller: not found.
func ShareMiddleware(shares *services.ShareService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")

		share, root, err := shares.ResolveShare(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				utils.NotFoundResponse(c, "Gallery not found")
			} else {
				utils.InternalServerErrorResponse(c, "Failed to resolve gallery", nil)
				utils.LogError("share resolution failed", err)
			}
			c.Abort()
			return
		}

		c.Set(ContextShare, share)
		c.Set(ContextShareRoot, root)
		c.Set(ContextShareToken, share.Token)
		c.Next()
	}
}

// RequireUploadTier rejects galleries opened through a read-only share.
func RequireUploadTier() gin.HandlerFunc {
	return func(c *gin.Context) {
		share := ShareFromContext(c)
		if share == nil || !services.TierAllowsUpload(share.Permission) {
			utils.ForbiddenResponse(c, "This gallery link does not allow uploads")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireDeleteTier rejects everything below full access.
func RequireDeleteTier() gin.HandlerFunc {
	return func(c *gin.Context) {
		share := ShareFromContext(c)
		if share == nil || !services.TierAllowsDelete(share.Permission) {
			utils.ForbiddenResponse(c, "This gallery link does not allow deletion")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ShareFromContext returns the share resolved by ShareMiddleware, or nil.
func ShareFromContext(c *gin.Context) *models.Share {
	value, ok := c.Get(ContextShare)
	if !ok {
		return nil
	}
	share, _ := value.(*models.Share)
	return share
}

// ShareTokenFromContext returns the normalized token of the resolved share,
// or "" outside a gallery request.
func ShareTokenFromContext(c *gin.Context) string {
	value, ok := c.Get(ContextShareToken)
	if !ok {
		return ""
	}
	token, _ := value.(string)
	return token
}

// ShareRootFromContext returns the share's root folder, or nil.
func ShareRootFromContext(c *gin.Context) *models.Folder {
	value, ok := c.Get(ContextShareRoot)
	if !ok {
		return nil
	}
	folder, _ := value.(*models.Folder)
	return folder
}
