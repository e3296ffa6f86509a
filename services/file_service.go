package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"time"

	"galleryshare/models"
	"galleryshare/services/storage"
	"galleryshare/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".heic": true, ".heif": true, ".bmp": true, ".tiff": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true,
	".webm": true, ".m4v": true,
}

var videoContentTypes = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".m4v":  "video/x-m4v",
}

// ClassifyFile buckets a filename into image, video or other by extension.
func ClassifyFile(name string) string {
	ext := extOf(name)
	switch {
	case imageExtensions[ext]:
		return models.FileTypeImage
	case videoExtensions[ext]:
		return models.FileTypeVideo
	default:
		return models.FileTypeOther
	}
}

// ContentTypeFor returns the Content-Type to serve a stored file with.
func ContentTypeFor(name string) string {
	ext := extOf(name)
	if ct, ok := videoContentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// UploadFailure describes one file of a batch that did not make it.
type UploadFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// UploadReport aggregates per-file outcomes of a batch upload. Files succeed
// or fail independently; there is no all-or-nothing semantics.
type UploadReport struct {
	Uploaded []models.FileInfo `json:"uploaded"`
	Failed   []UploadFailure   `json:"failed"`
}

type FileService struct {
	fileCollection   *mongo.Collection
	folderCollection *mongo.Collection
	store            storage.BlobStore
	images           *ImageService
	maxFileSize      int64

	// Seams over the two Mongo touches of the upload pipeline, so the
	// pipeline is testable against a bare BlobStore.
	folderExists func(ctx context.Context, id primitive.ObjectID) (bool, error)
	recordFile   func(ctx context.Context, file *models.File) error
}

func NewFileService(db *mongo.Database, store storage.BlobStore, images *ImageService, maxFileSize int64) *FileService {
	s := &FileService{
		fileCollection:   db.Collection("files"),
		folderCollection: db.Collection("folders"),
		store:            store,
		images:           images,
		maxFileSize:      maxFileSize,
	}
	s.folderExists = func(ctx context.Context, id primitive.ObjectID) (bool, error) {
		count, err := s.folderCollection.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return false, fmt.Errorf("failed to look up folder: %w", err)
		}
		return count > 0, nil
	}
	s.recordFile = func(ctx context.Context, file *models.File) error {
		_, err := s.fileCollection.InsertOne(ctx, file)
		return err
	}
	return s
}

// AdminContentBase prefixes content URLs on the authenticated admin routes.
const AdminContentBase = "/api/files"

// GalleryContentBase prefixes content URLs scoped to a share token. Listings
// handed to gallery clients must carry URLs their token can actually fetch;
// the admin routes sit behind bearer auth and would 401 on them.
func GalleryContentBase(token string) string {
	return "/api/gallery/" + token + "/files"
}

// FileInfoAt builds the API view of a file with content URLs under base.
// Derivative URLs are only set when generation actually succeeded at upload
// time.
func FileInfoAt(file *models.File, base string) models.FileInfo {
	info := models.FileInfo{
		ID:        file.ID,
		Name:      file.Name,
		FolderID:  file.FolderID,
		FileType:  file.FileType,
		Size:      file.Size,
		CreatedAt: file.CreatedAt,
	}
	if file.HasThumbnail {
		info.ThumbnailURL = base + "/" + file.ID.Hex() + "/thumbnail"
	}
	if file.HasPreview {
		info.PreviewURL = base + "/" + file.ID.Hex() + "/preview"
	}
	return info
}

// FileInfoOf is FileInfoAt on the admin routes.
func FileInfoOf(file *models.File) models.FileInfo {
	return FileInfoAt(file, AdminContentBase)
}

// UploadBatch stores every file of a multipart batch independently and
// reports per-file success or failure. Only a missing target folder aborts
// the batch as a whole.
func (s *FileService) UploadBatch(ctx context.Context, folderID primitive.ObjectID, headers []*multipart.FileHeader, base string) (*UploadReport, error) {
	exists, err := s.folderExists(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("folder %s: %w", folderID.Hex(), ErrNotFound)
	}

	report := &UploadReport{Uploaded: []models.FileInfo{}, Failed: []UploadFailure{}}
	for _, header := range headers {
		info, err := s.uploadOne(ctx, folderID, header, base)
		if err != nil {
			report.Failed = append(report.Failed, UploadFailure{Name: header.Filename, Error: err.Error()})
			continue
		}
		report.Uploaded = append(report.Uploaded, *info)
	}
	return report, nil
}

func (s *FileService) uploadOne(ctx context.Context, folderID primitive.ObjectID, header *multipart.FileHeader, base string) (*models.FileInfo, error) {
	if err := utils.ValidateFileName(header.Filename); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if header.Size > s.maxFileSize {
		return nil, fmt.Errorf("%w: file exceeds maximum size of %d bytes", ErrValidation, s.maxFileSize)
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	fileID := primitive.NewObjectID()
	storedName := fileID.Hex() + extOf(header.Filename)
	fileType := ClassifyFile(header.Filename)

	// Cap the stream one byte past the limit so a lying Content-Length
	// cannot sneak an oversized body through.
	written, err := s.store.Put(ctx, originalKey(storedName), io.LimitReader(src, s.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if written > s.maxFileSize {
		s.store.Delete(ctx, originalKey(storedName))
		return nil, fmt.Errorf("%w: file exceeds maximum size of %d bytes", ErrValidation, s.maxFileSize)
	}

	file := models.File{
		ID:         fileID,
		Name:       header.Filename,
		FolderID:   folderID,
		StoredName: storedName,
		FileType:   fileType,
		Size:       written,
		CreatedAt:  time.Now().UTC(),
	}

	if fileType == models.FileTypeImage {
		hasThumb, hasPreview, derr := s.images.GenerateDerivatives(ctx, s.store,
			originalKey(storedName), thumbnailKey(fileID), previewKey(fileID))
		if derr != nil {
			// Corrupt or unsupported image: keep the original, serve without
			// derivatives.
			utils.LogWarning("derivative generation failed for " + header.Filename + ": " + derr.Error())
		}
		file.HasThumbnail = hasThumb
		file.HasPreview = hasPreview
	}

	if err := s.recordFile(ctx, &file); err != nil {
		deleteFileBlobs(ctx, s.store, &file)
		return nil, fmt.Errorf("failed to record file: %w", err)
	}

	info := FileInfoAt(&file, base)
	return &info, nil
}

func (s *FileService) GetFile(ctx context.Context, id primitive.ObjectID) (*models.File, error) {
	var file models.File
	err := s.fileCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&file)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("file %s: %w", id.Hex(), ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("failed to look up file: %w", err)
	}
	return &file, nil
}

// ListFiles returns the files directly inside a folder. Files always belong
// to a concrete folder; there is no root-level file listing.
func (s *FileService) ListFiles(ctx context.Context, folderID primitive.ObjectID, base string) ([]models.FileInfo, error) {
	cursor, err := s.fileCollection.Find(ctx, bson.M{"folder_id": folderID}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer cursor.Close(ctx)

	result := []models.FileInfo{}
	for cursor.Next(ctx) {
		var file models.File
		if err := cursor.Decode(&file); err != nil {
			continue
		}
		result = append(result, FileInfoAt(&file, base))
	}
	return result, cursor.Err()
}

// DeleteFile removes the record and then, best effort, its blobs.
func (s *FileService) DeleteFile(ctx context.Context, id primitive.ObjectID) error {
	file, err := s.GetFile(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.fileCollection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	deleteFileBlobs(ctx, s.store, file)
	return nil
}

// OpenOriginal opens the stored bytes of a file. A negative offset means the
// whole blob; otherwise offset and length select a byte range.
func (s *FileService) OpenOriginal(ctx context.Context, file *models.File, offset, length int64) (io.ReadCloser, error) {
	key := originalKey(file.StoredName)
	if offset < 0 {
		r, err := s.store.Open(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		return r, nil
	}
	r, err := s.store.OpenRange(ctx, key, offset, length)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return r, nil
}

// OpenThumbnail opens the 300px derivative. Files uploaded without one, or
// whose generation failed, report not found rather than a storage error.
func (s *FileService) OpenThumbnail(ctx context.Context, file *models.File) (io.ReadCloser, error) {
	if !file.HasThumbnail {
		return nil, fmt.Errorf("file %s has no thumbnail: %w", file.ID.Hex(), ErrNotFound)
	}
	r, err := s.store.Open(ctx, thumbnailKey(file.ID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return r, nil
}

// OpenPreview opens the 1500px derivative under the same rules as OpenThumbnail.
func (s *FileService) OpenPreview(ctx context.Context, file *models.File) (io.ReadCloser, error) {
	if !file.HasPreview {
		return nil, fmt.Errorf("file %s has no preview: %w", file.ID.Hex(), ErrNotFound)
	}
	r, err := s.store.Open(ctx, previewKey(file.ID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return r, nil
}
