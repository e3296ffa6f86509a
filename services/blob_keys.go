package services

import (
	"context"
	"path/filepath"
	"strings"

	"galleryshare/models"
	"galleryshare/services/storage"
	"galleryshare/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blob key layout. Originals keep their extension; derivatives are always
// JPEG keyed by file id.

func originalKey(storedName string) string {
	return "files/" + storedName
}

func thumbnailKey(id primitive.ObjectID) string {
	return "thumbnails/" + id.Hex() + ".jpg"
}

func previewKey(id primitive.ObjectID) string {
	return "previews/" + id.Hex() + ".jpg"
}

func extOf(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// deleteFileBlobs removes a file's original and, for images, its
// derivatives. Best effort: a blob that fails to delete is logged and left
// for a later sweep, the metadata delete proceeds regardless.
func deleteFileBlobs(ctx context.Context, store storage.BlobStore, file *models.File) {
	if err := store.Delete(ctx, originalKey(file.StoredName)); err != nil {
		utils.LogWarning("failed to delete blob " + originalKey(file.StoredName) + ": " + err.Error())
	}
	if file.FileType == models.FileTypeImage {
		if err := store.Delete(ctx, thumbnailKey(file.ID)); err != nil {
			utils.LogWarning("failed to delete thumbnail for " + file.ID.Hex() + ": " + err.Error())
		}
		if err := store.Delete(ctx, previewKey(file.ID)); err != nil {
			utils.LogWarning("failed to delete preview for " + file.ID.Hex() + ": " + err.Error())
		}
	}
}
