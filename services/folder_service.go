package services

import (
	"context"
	"fmt"
	"time"

	"galleryshare/models"
	"galleryshare/services/storage"
	"galleryshare/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FavouritesFolderName is the synthesized subfolder favourites are copied
// into. MaterializeFavourites reuses it across runs, never duplicates it.
const FavouritesFolderName = "Favourites"

// folderLookup fetches a folder by id. ErrNotFound for a missing folder.
// The hierarchy walks below are written against this so they can be
// exercised without a database.
type folderLookup func(ctx context.Context, id primitive.ObjectID) (*models.Folder, error)

// walkBreadcrumb follows parent links from id up to a root and returns the
// path root-first. A broken link anywhere in the chain fails closed with
// ErrNotFound: an orphaned folder is never treated as a root.
func walkBreadcrumb(ctx context.Context, lookup folderLookup, id primitive.ObjectID) ([]models.PathEntry, error) {
	var path []models.PathEntry
	seen := map[primitive.ObjectID]bool{}

	current := &id
	for current != nil {
		if seen[*current] {
			return nil, fmt.Errorf("%w: folder hierarchy contains a cycle", ErrValidation)
		}
		seen[*current] = true

		folder, err := lookup(ctx, *current)
		if err != nil {
			return nil, err
		}
		path = append([]models.PathEntry{{ID: folder.ID, Name: folder.Name}}, path...)
		current = folder.ParentID
	}
	return path, nil
}

// isInSubtree reports whether id equals rootID or descends from it. A broken
// parent link fails closed (false, ErrNotFound).
func isInSubtree(ctx context.Context, lookup folderLookup, id, rootID primitive.ObjectID) (bool, error) {
	seen := map[primitive.ObjectID]bool{}
	current := &id
	for current != nil {
		if *current == rootID {
			return true, nil
		}
		if seen[*current] {
			return false, fmt.Errorf("%w: folder hierarchy contains a cycle", ErrValidation)
		}
		seen[*current] = true

		folder, err := lookup(ctx, *current)
		if err != nil {
			return false, err
		}
		current = folder.ParentID
	}
	return false, nil
}

type FolderService struct {
	folderCollection *mongo.Collection
	fileCollection   *mongo.Collection
	shareCollection  *mongo.Collection
	store            storage.BlobStore
}

func NewFolderService(db *mongo.Database, store storage.BlobStore) *FolderService {
	return &FolderService{
		folderCollection: db.Collection("folders"),
		fileCollection:   db.Collection("files"),
		shareCollection:  db.Collection("shares"),
		store:            store,
	}
}

func (s *FolderService) getFolder(ctx context.Context, id primitive.ObjectID) (*models.Folder, error) {
	var folder models.Folder
	err := s.folderCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&folder)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("folder %s: %w", id.Hex(), ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("failed to look up folder: %w", err)
	}
	return &folder, nil
}

func (s *FolderService) CreateFolder(ctx context.Context, name string, parentID *primitive.ObjectID) (*models.Folder, error) {
	if err := utils.ValidateFolderName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if parentID != nil {
		if _, err := s.getFolder(ctx, *parentID); err != nil {
			return nil, err
		}
	}

	folder := models.Folder{
		ID:        primitive.NewObjectID(),
		Name:      name,
		ParentID:  parentID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.folderCollection.InsertOne(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	return &folder, nil
}

// ListChildren returns the direct subfolders of parentID (nil for top level)
// with per-call counts of their own direct children.
func (s *FolderService) ListChildren(ctx context.Context, parentID *primitive.ObjectID) ([]models.FolderSummary, error) {
	filter := bson.M{"parent_id": nil}
	if parentID != nil {
		filter["parent_id"] = *parentID
	}

	cursor, err := s.folderCollection.Find(ctx, filter, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer cursor.Close(ctx)

	result := []models.FolderSummary{}
	for cursor.Next(ctx) {
		var folder models.Folder
		if err := cursor.Decode(&folder); err != nil {
			continue
		}
		summary, err := s.summarize(ctx, &folder)
		if err != nil {
			return nil, err
		}
		result = append(result, *summary)
	}
	return result, cursor.Err()
}

func (s *FolderService) summarize(ctx context.Context, folder *models.Folder) (*models.FolderSummary, error) {
	fileCount, err := s.fileCollection.CountDocuments(ctx, bson.M{"folder_id": folder.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to count files: %w", err)
	}
	subfolderCount, err := s.folderCollection.CountDocuments(ctx, bson.M{"parent_id": folder.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to count subfolders: %w", err)
	}
	return &models.FolderSummary{
		ID:             folder.ID,
		Name:           folder.Name,
		ParentID:       folder.ParentID,
		CreatedAt:      folder.CreatedAt,
		FileCount:      int(fileCount),
		SubfolderCount: int(subfolderCount),
	}, nil
}

func (s *FolderService) GetFolder(ctx context.Context, id primitive.ObjectID) (*models.FolderSummary, error) {
	folder, err := s.getFolder(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, folder)
}

// UpdateFolder renames and/or re-parents a folder. Re-parenting into the
// folder's own subtree (itself included) is rejected.
func (s *FolderService) UpdateFolder(ctx context.Context, id primitive.ObjectID, name string, newParent *primitive.ObjectID, reparent bool) (*models.Folder, error) {
	folder, err := s.getFolder(ctx, id)
	if err != nil {
		return nil, err
	}

	update := bson.M{}
	if name != "" && name != folder.Name {
		if err := utils.ValidateFolderName(name); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		update["name"] = name
	}

	if reparent {
		if newParent != nil {
			if *newParent == id {
				return nil, fmt.Errorf("%w: folder cannot be its own parent", ErrValidation)
			}
			if _, err := s.getFolder(ctx, *newParent); err != nil {
				return nil, err
			}
			inSubtree, err := isInSubtree(ctx, s.getFolder, *newParent, id)
			if err != nil {
				return nil, err
			}
			if inSubtree {
				return nil, fmt.Errorf("%w: cannot move a folder into its own subtree", ErrValidation)
			}
		}
		update["parent_id"] = newParent
	}

	if len(update) > 0 {
		if _, err := s.folderCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update}); err != nil {
			return nil, fmt.Errorf("failed to update folder: %w", err)
		}
	}
	return s.getFolder(ctx, id)
}

// BreadcrumbPath returns the chain of ancestors from the root down to id.
func (s *FolderService) BreadcrumbPath(ctx context.Context, id primitive.ObjectID) ([]models.PathEntry, error) {
	return walkBreadcrumb(ctx, s.getFolder, id)
}

// BreadcrumbWithin returns the breadcrumb truncated at rootID, so a shared
// client never sees ancestors above its granted root. ErrNotFound when id is
// outside the root's subtree.
func (s *FolderService) BreadcrumbWithin(ctx context.Context, rootID, id primitive.ObjectID) ([]models.PathEntry, error) {
	full, err := walkBreadcrumb(ctx, s.getFolder, id)
	if err != nil {
		return nil, err
	}
	for i, entry := range full {
		if entry.ID == rootID {
			return full[i:], nil
		}
	}
	return nil, fmt.Errorf("folder outside share scope: %w", ErrNotFound)
}

// EnsureInScope verifies folderID sits inside rootID's subtree, failing with
// ErrNotFound otherwise so out-of-scope probes look like dead ids.
func (s *FolderService) EnsureInScope(ctx context.Context, folderID, rootID primitive.ObjectID) error {
	ok, err := isInSubtree(ctx, s.getFolder, folderID, rootID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("folder outside share scope: %w", ErrNotFound)
	}
	return nil
}

// collectSubtree returns id plus every descendant folder id, breadth-first.
func (s *FolderService) collectSubtree(ctx context.Context, id primitive.ObjectID) ([]primitive.ObjectID, error) {
	all := []primitive.ObjectID{id}
	frontier := []primitive.ObjectID{id}

	for len(frontier) > 0 {
		cursor, err := s.folderCollection.Find(ctx, bson.M{"parent_id": bson.M{"$in": frontier}})
		if err != nil {
			return nil, fmt.Errorf("failed to walk subtree: %w", err)
		}

		var next []primitive.ObjectID
		for cursor.Next(ctx) {
			var folder models.Folder
			if err := cursor.Decode(&folder); err != nil {
				continue
			}
			next = append(next, folder.ID)
		}
		err = cursor.Err()
		cursor.Close(ctx)
		if err != nil {
			return nil, err
		}

		all = append(all, next...)
		frontier = next
	}
	return all, nil
}

// DeleteFolder hard-deletes the folder, every descendant folder, every file
// they own (blobs and derivatives included) and every share rooted anywhere
// in the subtree.
func (s *FolderService) DeleteFolder(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.getFolder(ctx, id); err != nil {
		return err
	}

	subtree, err := s.collectSubtree(ctx, id)
	if err != nil {
		return err
	}

	cursor, err := s.fileCollection.Find(ctx, bson.M{"folder_id": bson.M{"$in": subtree}})
	if err != nil {
		return fmt.Errorf("failed to list files for deletion: %w", err)
	}
	var files []models.File
	if err := cursor.All(ctx, &files); err != nil {
		return fmt.Errorf("failed to decode files for deletion: %w", err)
	}

	for _, file := range files {
		deleteFileBlobs(ctx, s.store, &file)
	}

	if _, err := s.fileCollection.DeleteMany(ctx, bson.M{"folder_id": bson.M{"$in": subtree}}); err != nil {
		return fmt.Errorf("failed to delete files: %w", err)
	}
	if _, err := s.shareCollection.DeleteMany(ctx, bson.M{"folder_id": bson.M{"$in": subtree}}); err != nil {
		return fmt.Errorf("failed to delete shares: %w", err)
	}
	if _, err := s.folderCollection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": subtree}}); err != nil {
		return fmt.Errorf("failed to delete folders: %w", err)
	}
	return nil
}

// MaterializeFavourites copies the selected files into a "Favourites"
// subfolder of rootID, creating the subfolder on first use. Re-runs are
// idempotent: files already materialized (matched by origin id) are skipped.
// Every selected file must exist inside the root's subtree.
func (s *FolderService) MaterializeFavourites(ctx context.Context, rootID primitive.ObjectID, fileIDs []primitive.ObjectID) (*models.Folder, int, error) {
	if len(fileIDs) == 0 {
		return nil, 0, fmt.Errorf("%w: no files selected", ErrValidation)
	}

	fav, err := s.findOrCreateFavourites(ctx, rootID)
	if err != nil {
		return nil, 0, err
	}

	copied := 0
	for _, fileID := range fileIDs {
		var file models.File
		err := s.fileCollection.FindOne(ctx, bson.M{"_id": fileID}).Decode(&file)
		if err == mongo.ErrNoDocuments {
			return nil, copied, fmt.Errorf("file %s: %w", fileID.Hex(), ErrNotFound)
		} else if err != nil {
			return nil, copied, fmt.Errorf("failed to look up file: %w", err)
		}
		if err := s.EnsureInScope(ctx, file.FolderID, rootID); err != nil {
			return nil, copied, err
		}

		origin := file.ID
		if file.OriginFileID != nil {
			origin = *file.OriginFileID
		}

		count, err := s.fileCollection.CountDocuments(ctx, bson.M{"folder_id": fav.ID, "origin_file_id": origin})
		if err != nil {
			return nil, copied, fmt.Errorf("failed to check favourites: %w", err)
		}
		if count > 0 {
			continue
		}

		if err := s.copyFileInto(ctx, &file, fav.ID, origin); err != nil {
			return nil, copied, err
		}
		copied++
	}
	return fav, copied, nil
}

func (s *FolderService) findOrCreateFavourites(ctx context.Context, rootID primitive.ObjectID) (*models.Folder, error) {
	if _, err := s.getFolder(ctx, rootID); err != nil {
		return nil, err
	}

	var fav models.Folder
	err := s.folderCollection.FindOne(ctx, bson.M{"parent_id": rootID, "name": FavouritesFolderName}).Decode(&fav)
	if err == nil {
		return &fav, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to look up favourites folder: %w", err)
	}

	rootIDCopy := rootID
	fav = models.Folder{
		ID:        primitive.NewObjectID(),
		Name:      FavouritesFolderName,
		ParentID:  &rootIDCopy,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.folderCollection.InsertOne(ctx, fav); err != nil {
		return nil, fmt.Errorf("failed to create favourites folder: %w", err)
	}
	return &fav, nil
}

// copyFileInto duplicates a file record and its blobs under a new id.
// Copying rather than aliasing keeps file deletion reference-count free.
func (s *FolderService) copyFileInto(ctx context.Context, src *models.File, folderID, origin primitive.ObjectID) error {
	newID := primitive.NewObjectID()
	newStored := newID.Hex() + extOf(src.StoredName)

	if err := copyBlob(ctx, s.store, originalKey(src.StoredName), originalKey(newStored)); err != nil {
		return fmt.Errorf("%w: failed to copy blob for %s: %v", ErrStorage, src.Name, err)
	}
	if src.FileType == models.FileTypeImage {
		// Derivatives may be absent when generation failed at upload time.
		_ = copyBlob(ctx, s.store, thumbnailKey(src.ID), thumbnailKey(newID))
		_ = copyBlob(ctx, s.store, previewKey(src.ID), previewKey(newID))
	}

	copyDoc := models.File{
		ID:           newID,
		Name:         src.Name,
		FolderID:     folderID,
		StoredName:   newStored,
		FileType:     src.FileType,
		Size:         src.Size,
		HasThumbnail: src.HasThumbnail,
		HasPreview:   src.HasPreview,
		OriginFileID: &origin,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.fileCollection.InsertOne(ctx, copyDoc); err != nil {
		deleteFileBlobs(ctx, s.store, &copyDoc)
		return fmt.Errorf("failed to record favourite copy: %w", err)
	}
	return nil
}

func copyBlob(ctx context.Context, store storage.BlobStore, srcKey, dstKey string) error {
	r, err := store.Open(ctx, srcKey)
	if err != nil {
		return err
	}
	defer r.Close()
	_, err = store.Put(ctx, dstKey, r)
	return err
}
