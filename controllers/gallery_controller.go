package controllers

import (
	"fmt"
	"net/http"
	"time"

	"galleryshare/middleware"
	"galleryshare/models"
	"galleryshare/services"
	"galleryshare/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GalleryController serves the tokenized client surface. Every handler runs
// behind ShareMiddleware, so the share and its root folder are always set.
type GalleryController struct {
	folderService   *services.FolderService
	fileService     *services.FileService
	zipService      *services.ZipService
	activityService *services.ActivityService
}

func NewGalleryController(folders *services.FolderService, files *services.FileService, zips *services.ZipService, activity *services.ActivityService) *GalleryController {
	return &GalleryController{
		folderService:   folders,
		fileService:     files,
		zipService:      zips,
		activityService: activity,
	}
}

// scopedFolder resolves an optional folder_id query parameter to a folder
// inside the share's subtree, defaulting to the root. Anything outside the
// subtree reads as not found, never forbidden.
func (gc *GalleryController) scopedFolder(c *gin.Context) (*models.Folder, *primitive.ObjectID, error) {
	root := middleware.ShareRootFromContext(c)
	if root == nil {
		return nil, nil, fmt.Errorf("gallery: %w", services.ErrNotFound)
	}

	raw := c.Query("folder_id")
	if raw == "" {
		return root, &root.ID, nil
	}

	id, err := parseObjectID(raw)
	if err != nil {
		return nil, nil, err
	}
	if err := gc.folderService.EnsureInScope(c.Request.Context(), id, root.ID); err != nil {
		return nil, nil, err
	}

	summary, err := gc.folderService.GetFolder(c.Request.Context(), id)
	if err != nil {
		return nil, nil, err
	}
	folder := &models.Folder{
		ID:        summary.ID,
		Name:      summary.Name,
		ParentID:  summary.ParentID,
		CreatedAt: summary.CreatedAt,
	}
	return folder, &id, nil
}

// scopedFile loads the :id file and verifies its folder sits inside the
// share's subtree.
func (gc *GalleryController) scopedFile(c *gin.Context) (*models.File, error) {
	root := middleware.ShareRootFromContext(c)
	if root == nil {
		return nil, fmt.Errorf("gallery: %w", services.ErrNotFound)
	}

	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		return nil, err
	}

	file, err := gc.fileService.GetFile(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if err := gc.folderService.EnsureInScope(c.Request.Context(), file.FolderID, root.ID); err != nil {
		return nil, err
	}
	return file, nil
}

func (gc *GalleryController) record(c *gin.Context, action string, entry services.ActivityEntry) {
	share := middleware.ShareFromContext(c)
	if share != nil {
		entry.ShareToken = share.Token
	}
	entry.IPAddress = c.ClientIP()
	gc.activityService.Record(c.Request.Context(), action, entry)
}

// Info is the gallery landing payload: root folder, permission tier and what
// the tier allows. Records a gallery view.
func (gc *GalleryController) Info(c *gin.Context) {
	share := middleware.ShareFromContext(c)
	root := middleware.ShareRootFromContext(c)
	if share == nil || root == nil {
		utils.NotFoundResponse(c, "Gallery not found")
		return
	}

	gc.record(c, models.ActionGalleryView, services.ActivityEntry{FolderName: root.Name})

	utils.SuccessResponse(c, "Gallery", gin.H{
		"folder_id":    root.ID,
		"folder_name":  root.Name,
		"permission":   share.Permission,
		"can_upload":   services.TierAllowsUpload(share.Permission),
		"can_delete":   services.TierAllowsDelete(share.Permission),
	})
}

func (gc *GalleryController) ListFolders(c *gin.Context) {
	_, parentID, err := gc.scopedFolder(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	folders, err := gc.folderService.ListChildren(c.Request.Context(), parentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Folders listed", folders)
}

func (gc *GalleryController) ListFiles(c *gin.Context) {
	_, folderID, err := gc.scopedFolder(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	base := services.GalleryContentBase(middleware.ShareTokenFromContext(c))
	files, err := gc.fileService.ListFiles(c.Request.Context(), *folderID, base)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Files listed", files)
}

// Path returns the breadcrumb from the share root down to ?folder_id. The
// walk never exposes ancestors above the root.
func (gc *GalleryController) Path(c *gin.Context) {
	root := middleware.ShareRootFromContext(c)
	_, folderID, err := gc.scopedFolder(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	path, err := gc.folderService.BreadcrumbWithin(c.Request.Context(), root.ID, *folderID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Path", path)
}

func (gc *GalleryController) Download(c *gin.Context) {
	file, err := gc.scopedFile(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	gc.record(c, models.ActionFileDownload, services.ActivityEntry{FileName: file.Name})
	ServeFileContent(c, gc.fileService, file, true)
}

func (gc *GalleryController) Stream(c *gin.Context) {
	file, err := gc.scopedFile(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	ServeFileContent(c, gc.fileService, file, false)
}

func (gc *GalleryController) Thumbnail(c *gin.Context) {
	file, err := gc.scopedFile(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	ServeDerivative(c, file, gc.fileService.OpenThumbnail)
}

func (gc *GalleryController) Preview(c *gin.Context) {
	file, err := gc.scopedFile(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	ServeDerivative(c, file, gc.fileService.OpenPreview)
}

// Upload accepts a multipart batch into a scoped folder. Tier enforcement
// happens in RequireUploadTier before this runs.
func (gc *GalleryController) Upload(c *gin.Context) {
	folder, folderID, err := gc.scopedFolder(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid multipart form", err.Error())
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		utils.BadRequestResponse(c, "No files in request", nil)
		return
	}

	base := services.GalleryContentBase(middleware.ShareTokenFromContext(c))
	report, err := gc.fileService.UploadBatch(c.Request.Context(), *folderID, headers, base)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	for _, uploaded := range report.Uploaded {
		gc.record(c, models.ActionFileUpload, services.ActivityEntry{
			FolderName: folder.Name,
			FileName:   uploaded.Name,
		})
	}

	utils.CreatedResponse(c, "Upload processed", report)
}

func (gc *GalleryController) DeleteFile(c *gin.Context) {
	file, err := gc.scopedFile(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if err := gc.fileService.DeleteFile(c.Request.Context(), file.ID); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "File deleted", nil)
}

// Favourites copies the selected files into the share's Favourites folder.
// Repeat submissions of the same file are absorbed silently.
func (gc *GalleryController) Favourites(c *gin.Context) {
	root := middleware.ShareRootFromContext(c)
	if root == nil {
		utils.NotFoundResponse(c, "Gallery not found")
		return
	}

	var req struct {
		FileIDs []string `json:"file_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	fileIDs, err := parseObjectIDs(req.FileIDs)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	folder, added, err := gc.folderService.MaterializeFavourites(c.Request.Context(), root.ID, fileIDs)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Favourites saved", gin.H{
		"folder_id": folder.ID,
		"added":     added,
	})
}

// Zip streams a ZIP of either a scoped folder (?folder_id) or an explicit
// selection (file_ids body). Headers go out before the first byte, so a
// failure mid-archive truncates the download rather than producing an error
// response.
func (gc *GalleryController) Zip(c *gin.Context) {
	root := middleware.ShareRootFromContext(c)
	if root == nil {
		utils.NotFoundResponse(c, "Gallery not found")
		return
	}

	var req struct {
		FileIDs []string `json:"file_ids"`
	}
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request data", err.Error())
			return
		}
	}

	name := fmt.Sprintf("%s-%s.zip", root.Name, time.Now().Format("20060102"))
	writeHeaders := func() {
		c.Header("Content-Type", "application/zip")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		c.Status(http.StatusOK)
	}

	if len(req.FileIDs) > 0 {
		fileIDs, err := parseObjectIDs(req.FileIDs)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		for _, id := range fileIDs {
			file, err := gc.fileService.GetFile(c.Request.Context(), id)
			if err != nil {
				continue
			}
			if err := gc.folderService.EnsureInScope(c.Request.Context(), file.FolderID, root.ID); err != nil {
				handleServiceError(c, err)
				return
			}
		}

		gc.record(c, models.ActionZipDownload, services.ActivityEntry{
			Details: fmt.Sprintf("%d selected files", len(fileIDs)),
		})
		writeHeaders()
		if err := gc.zipService.BundleFiles(c.Request.Context(), c.Writer, fileIDs); err != nil {
			utils.LogWarning("zip stream ended early: " + err.Error())
		}
		return
	}

	folder, folderID, err := gc.scopedFolder(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	gc.record(c, models.ActionZipDownload, services.ActivityEntry{FolderName: folder.Name})
	writeHeaders()
	if err := gc.zipService.BundleFolder(c.Request.Context(), c.Writer, *folderID); err != nil {
		utils.LogWarning("zip stream ended early: " + err.Error())
	}
}
