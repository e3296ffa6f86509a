package services

import (
	"archive/zip"
	"context"
	"fmt"
	"io"

	"galleryshare/models"
	"galleryshare/services/storage"
	"galleryshare/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ZipService streams archives of stored files straight into the response
// writer: nothing is staged on disk or buffered in memory, so multi-gigabyte
// bundles cost a fixed amount of memory.
type ZipService struct {
	fileCollection *mongo.Collection
	store          storage.BlobStore
}

func NewZipService(db *mongo.Database, store storage.BlobStore) *ZipService {
	return &ZipService{
		fileCollection: db.Collection("files"),
		store:          store,
	}
}

// BundleFolder writes every file directly inside folderID into w as a ZIP.
func (s *ZipService) BundleFolder(ctx context.Context, w io.Writer, folderID primitive.ObjectID) error {
	cursor, err := s.fileCollection.Find(ctx, bson.M{"folder_id": folderID})
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}
	var files []models.File
	if err := cursor.All(ctx, &files); err != nil {
		return fmt.Errorf("failed to decode files: %w", err)
	}

	return s.writeArchive(ctx, w, files)
}

// BundleFiles writes the listed files into w as a ZIP, in the order given.
// Unknown ids and files missing from backing storage are skipped, not fatal.
func (s *ZipService) BundleFiles(ctx context.Context, w io.Writer, fileIDs []primitive.ObjectID) error {
	if len(fileIDs) == 0 {
		return fmt.Errorf("%w: no files selected", ErrValidation)
	}

	var files []models.File
	for _, id := range fileIDs {
		var file models.File
		err := s.fileCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&file)
		if err == mongo.ErrNoDocuments {
			continue
		} else if err != nil {
			return fmt.Errorf("failed to look up file: %w", err)
		}
		files = append(files, file)
	}

	return s.writeArchive(ctx, w, files)
}

// writeArchive appends each file under its original name. Duplicate names
// get a numeric suffix so every successfully-read input appears exactly once.
func (s *ZipService) writeArchive(ctx context.Context, w io.Writer, files []models.File) error {
	zw := zip.NewWriter(w)

	used := map[string]int{}
	for _, file := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Stat before creating the entry. Open alone cannot be trusted to
		// catch a missing blob: the B2 reader is lazy and only fails at the
		// first Read, after the entry header is already out.
		if _, err := s.store.Size(ctx, originalKey(file.StoredName)); err != nil {
			utils.LogWarning("skipping unreadable file " + file.Name + " in bundle: " + err.Error())
			continue
		}

		r, err := s.store.Open(ctx, originalKey(file.StoredName))
		if err != nil {
			utils.LogWarning("skipping unreadable file " + file.Name + " in bundle: " + err.Error())
			continue
		}

		name := file.Name
		if n := used[name]; n > 0 {
			name = fmt.Sprintf("%s (%d)", name, n)
		}
		used[file.Name]++

		entry, err := zw.Create(name)
		if err != nil {
			r.Close()
			return fmt.Errorf("failed to create archive entry for %s: %w", name, err)
		}
		if _, err := io.Copy(entry, r); err != nil {
			r.Close()
			// Mid-entry failure corrupts the stream; nothing to salvage.
			return fmt.Errorf("failed to stream %s into archive: %w", name, err)
		}
		r.Close()
	}

	return zw.Close()
}
