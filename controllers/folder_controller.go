package controllers

import (
	"fmt"
	"net/http"
	"time"

	"galleryshare/services"
	"galleryshare/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FolderController struct {
	folderService *services.FolderService
	zipService    *services.ZipService
}

func NewFolderController(folderService *services.FolderService, zipService *services.ZipService) *FolderController {
	return &FolderController{folderService: folderService, zipService: zipService}
}

func (fc *FolderController) CreateFolder(c *gin.Context) {
	var req struct {
		Name     string  `json:"name" binding:"required"`
		ParentID *string `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	var parentID *primitive.ObjectID
	if req.ParentID != nil && *req.ParentID != "" {
		id, err := parseObjectID(*req.ParentID)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		parentID = &id
	}

	folder, err := fc.folderService.CreateFolder(c.Request.Context(), req.Name, parentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Folder created", folder)
}

// ListFolders returns the children of ?parent_id, or the top level when the
// parameter is absent.
func (fc *FolderController) ListFolders(c *gin.Context) {
	var parentID *primitive.ObjectID
	if raw := c.Query("parent_id"); raw != "" {
		id, err := parseObjectID(raw)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		parentID = &id
	}

	folders, err := fc.folderService.ListChildren(c.Request.Context(), parentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Folders listed", folders)
}

func (fc *FolderController) GetFolder(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	folder, err := fc.folderService.GetFolder(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	path, err := fc.folderService.BreadcrumbPath(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Folder", gin.H{"folder": folder, "path": path})
}

// UpdateFolder renames and, when parent_id is present in the body, re-parents.
// The two are distinguished so a client can rename without knowing the parent.
func (fc *FolderController) UpdateFolder(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	var req struct {
		Name     string  `json:"name" binding:"required"`
		ParentID *string `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	reparent := false
	var newParent *primitive.ObjectID
	if req.ParentID != nil {
		reparent = true
		if *req.ParentID != "" {
			pid, err := parseObjectID(*req.ParentID)
			if err != nil {
				handleServiceError(c, err)
				return
			}
			newParent = &pid
		}
	}

	folder, err := fc.folderService.UpdateFolder(c.Request.Context(), id, req.Name, newParent, reparent)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Folder updated", folder)
}

// Path returns the breadcrumb from the root ancestor down to :id.
func (fc *FolderController) Path(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	path, err := fc.folderService.BreadcrumbPath(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Path", path)
}

// DownloadZip streams every file directly inside :id as a ZIP archive.
func (fc *FolderController) DownloadZip(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	folder, err := fc.folderService.GetFolder(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", folder.Name+"-"+time.Now().Format("20060102")+".zip"))
	c.Status(http.StatusOK)
	if err := fc.zipService.BundleFolder(c.Request.Context(), c.Writer, id); err != nil {
		utils.LogWarning("zip stream ended early: " + err.Error())
	}
}

func (fc *FolderController) DeleteFolder(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if err := fc.folderService.DeleteFolder(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Folder deleted", nil)
}
