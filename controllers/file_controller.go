package controllers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"galleryshare/models"
	"galleryshare/services"
	"galleryshare/utils"

	"github.com/gin-gonic/gin"
)

type FileController struct {
	fileService *services.FileService
	zipService  *services.ZipService
}

func NewFileController(fileService *services.FileService, zipService *services.ZipService) *FileController {
	return &FileController{fileService: fileService, zipService: zipService}
}

// UploadFiles handles a multipart batch. folder_id rides as a form field or
// query parameter. Individual failures are reported per file; the batch as a
// whole only fails if the folder is gone.
func (fc *FileController) UploadFiles(c *gin.Context) {
	raw := c.PostForm("folder_id")
	if raw == "" {
		raw = c.Query("folder_id")
	}
	folderID, err := parseObjectID(raw)
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

	report, err := fc.fileService.UploadBatch(c.Request.Context(), folderID, headers, services.AdminContentBase)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Upload processed", report)
}

func (fc *FileController) ListFiles(c *gin.Context) {
	folderID, err := parseObjectID(c.Query("folder_id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	files, err := fc.fileService.ListFiles(c.Request.Context(), folderID, services.AdminContentBase)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Files listed", files)
}

func (fc *FileController) DeleteFile(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if err := fc.fileService.DeleteFile(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "File deleted", nil)
}

// DownloadZip streams an explicit selection of files as a ZIP archive.
func (fc *FileController) DownloadZip(c *gin.Context) {
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
	if len(fileIDs) == 0 {
		utils.BadRequestResponse(c, "No files selected", nil)
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "files-"+time.Now().Format("20060102")+".zip"))
	c.Status(http.StatusOK)
	if err := fc.zipService.BundleFiles(c.Request.Context(), c.Writer, fileIDs); err != nil {
		utils.LogWarning("zip stream ended early: " + err.Error())
	}
}

// Download forces a save dialog by attaching a disposition header.
func (fc *FileController) Download(c *gin.Context) {
	fc.serveOriginal(c, true)
}

// Stream serves the original inline, honouring a single Range request so
// video players can seek.
func (fc *FileController) Stream(c *gin.Context) {
	fc.serveOriginal(c, false)
}

func (fc *FileController) Thumbnail(c *gin.Context) {
	fc.serveDerivative(c, fc.fileService.OpenThumbnail)
}

func (fc *FileController) Preview(c *gin.Context) {
	fc.serveDerivative(c, fc.fileService.OpenPreview)
}

func (fc *FileController) serveOriginal(c *gin.Context, attachment bool) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	file, err := fc.fileService.GetFile(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ServeFileContent(c, fc.fileService, file, attachment)
}

func (fc *FileController) serveDerivative(c *gin.Context, open func(context.Context, *models.File) (io.ReadCloser, error)) {
	id, err := parseObjectID(c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	file, err := fc.fileService.GetFile(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ServeDerivative(c, file, open)
}

// ServeFileContent writes a file's original bytes, answering a single Range
// request with 206 when one is present. Shared between the admin file routes
// and the tokenized gallery routes.
func ServeFileContent(c *gin.Context, files *services.FileService, file *models.File, attachment bool) {
	contentType := services.ContentTypeFor(file.Name)
	c.Header("Accept-Ranges", "bytes")
	c.Header("Content-Type", contentType)
	if attachment {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	} else {
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", file.Name))
	}

	rangeHeader := c.GetHeader("Range")
	if rangeHeader == "" {
		r, err := files.OpenOriginal(c.Request.Context(), file, -1, 0)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		defer r.Close()

		c.Header("Content-Length", strconv.FormatInt(file.Size, 10))
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, r); err != nil {
			utils.LogWarning("aborted mid-stream: " + err.Error())
		}
		return
	}

	offset, length, ok := parseByteRange(rangeHeader, file.Size)
	if !ok {
		c.Header("Content-Range", fmt.Sprintf("bytes */%d", file.Size))
		utils.ErrorResponse(c, http.StatusRequestedRangeNotSatisfiable, "Unsatisfiable range", nil)
		return
	}

	r, err := files.OpenOriginal(c.Request.Context(), file, offset, length)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	defer r.Close()

	c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", offset, offset+length-1, file.Size))
	c.Header("Content-Length", strconv.FormatInt(length, 10))
	c.Status(http.StatusPartialContent)
	if _, err := io.Copy(c.Writer, r); err != nil {
		utils.LogWarning("aborted mid-stream: " + err.Error())
	}
}

// ServeDerivative writes a JPEG thumbnail or preview in full; derivatives are
// small enough that range support buys nothing.
func ServeDerivative(c *gin.Context, file *models.File, open func(context.Context, *models.File) (io.ReadCloser, error)) {
	r, err := open(c.Request.Context(), file)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	defer r.Close()

	c.Header("Content-Type", "image/jpeg")
	c.Header("Cache-Control", "private, max-age=86400")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, r); err != nil {
		utils.LogWarning("aborted mid-stream: " + err.Error())
	}
}

// parseByteRange understands single ranges only: "bytes=a-b", "bytes=a-" and
// the suffix form "bytes=-n". Multipart ranges fall back to unsatisfiable.
func parseByteRange(header string, size int64) (offset, length int64, ok bool) {
	const prefix = "bytes="
	if !strings.HasPrefix(header, prefix) || size <= 0 {
		return 0, 0, false
	}
	spec := strings.TrimPrefix(header, prefix)
	if strings.Contains(spec, ",") {
		return 0, 0, false
	}

	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	startRaw, endRaw := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

	if startRaw == "" {
		// Suffix range: the last n bytes.
		n, err := strconv.ParseInt(endRaw, 10, 64)
		if err != nil || n <= 0 {
			return 0, 0, false
		}
		if n > size {
			n = size
		}
		return size - n, n, true
	}

	start, err := strconv.ParseInt(startRaw, 10, 64)
	if err != nil || start < 0 || start >= size {
		return 0, 0, false
	}

	end := size - 1
	if endRaw != "" {
		end, err = strconv.ParseInt(endRaw, 10, 64)
		if err != nil || end < start {
			return 0, 0, false
		}
		if end >= size {
			end = size - 1
		}
	}

	return start, end - start + 1, true
}
