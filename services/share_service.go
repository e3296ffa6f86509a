package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"galleryshare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NormalizeToken lowercases a submitted share token and strips everything
// that is not a-z or 0-9, so "Gina Mark 30-10-21" and "ginamark301021" are
// the same token. Applied at both creation and lookup.
func NormalizeToken(token string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(token) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPermission reports whether p is one of the three share tiers.
func ValidPermission(p string) bool {
	return p == models.PermissionRead || p == models.PermissionEdit || p == models.PermissionFull
}

// TierAllowsUpload reports whether a share tier permits uploads and
// favourite materialization.
func TierAllowsUpload(p string) bool {
	return p == models.PermissionEdit || p == models.PermissionFull
}

// TierAllowsDelete reports whether a share tier permits deleting files.
func TierAllowsDelete(p string) bool {
	return p == models.PermissionFull
}

type ShareService struct {
	shareCollection  *mongo.Collection
	folderCollection *mongo.Collection
	shareDomain      string
}

func NewShareService(db *mongo.Database, shareDomain string) *ShareService {
	return &ShareService{
		shareCollection:  db.Collection("shares"),
		folderCollection: db.Collection("folders"),
		shareDomain:      strings.TrimRight(shareDomain, "/"),
	}
}

// ShareURL builds the public gallery link for a token.
func (s *ShareService) ShareURL(token string) string {
	return s.shareDomain + "/" + token
}

// CreateShare stores a share for the folder under the normalized token.
func (s *ShareService) CreateShare(ctx context.Context, folderID primitive.ObjectID, token, permission string) (*models.ShareInfo, error) {
	if !ValidPermission(permission) {
		return nil, fmt.Errorf("%w: permission must be read, edit or full", ErrValidation)
	}

	normalized := NormalizeToken(token)
	if normalized == "" {
		return nil, fmt.Errorf("%w: token has no usable characters", ErrValidation)
	}

	var folder models.Folder
	err := s.folderCollection.FindOne(ctx, bson.M{"_id": folderID}).Decode(&folder)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("folder: %w", ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("failed to look up folder: %w", err)
	}

	count, err := s.shareCollection.CountDocuments(ctx, bson.M{"token": normalized})
	if err != nil {
		return nil, fmt.Errorf("failed to check token: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: token already in use", ErrConflict)
	}

	share := models.Share{
		ID:         primitive.NewObjectID(),
		FolderID:   folderID,
		Token:      normalized,
		Permission: permission,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.shareCollection.InsertOne(ctx, share); err != nil {
		return nil, fmt.Errorf("failed to create share: %w", err)
	}

	return &models.ShareInfo{
		ID:         share.ID,
		FolderID:   share.FolderID,
		Token:      share.Token,
		Permission: share.Permission,
		CreatedAt:  share.CreatedAt,
		ShareURL:   s.ShareURL(share.Token),
		FolderName: folder.Name,
	}, nil
}

// ResolveShare maps a submitted token to its share and scoped root folder.
// A token with no matching share and a share whose folder was deleted both
// come back as ErrNotFound: callers cannot distinguish the two cases.
func (s *ShareService) ResolveShare(ctx context.Context, token string) (*models.Share, *models.Folder, error) {
	normalized := NormalizeToken(token)
	if normalized == "" {
		return nil, nil, fmt.Errorf("share: %w", ErrNotFound)
	}

	var share models.Share
	err := s.shareCollection.FindOne(ctx, bson.M{"token": normalized}).Decode(&share)
	if err == mongo.ErrNoDocuments {
		return nil, nil, fmt.Errorf("share: %w", ErrNotFound)
	} else if err != nil {
		return nil, nil, fmt.Errorf("failed to look up share: %w", err)
	}

	var folder models.Folder
	err = s.folderCollection.FindOne(ctx, bson.M{"_id": share.FolderID}).Decode(&folder)
	if err == mongo.ErrNoDocuments {
		// Dangling share: the folder was deleted underneath it.
		return nil, nil, fmt.Errorf("share: %w", ErrNotFound)
	} else if err != nil {
		return nil, nil, fmt.Errorf("failed to look up share folder: %w", err)
	}

	return &share, &folder, nil
}

func (s *ShareService) GetShare(ctx context.Context, shareID primitive.ObjectID) (*models.Share, error) {
	var share models.Share
	err := s.shareCollection.FindOne(ctx, bson.M{"_id": shareID}).Decode(&share)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("share: %w", ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("failed to look up share: %w", err)
	}
	return &share, nil
}

func (s *ShareService) ListShares(ctx context.Context) ([]models.ShareInfo, error) {
	cursor, err := s.shareCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer cursor.Close(ctx)

	result := []models.ShareInfo{}
	for cursor.Next(ctx) {
		var share models.Share
		if err := cursor.Decode(&share); err != nil {
			continue
		}

		folderName := ""
		var folder models.Folder
		if err := s.folderCollection.FindOne(ctx, bson.M{"_id": share.FolderID}).Decode(&folder); err == nil {
			folderName = folder.Name
		}

		result = append(result, models.ShareInfo{
			ID:         share.ID,
			FolderID:   share.FolderID,
			Token:      share.Token,
			Permission: share.Permission,
			CreatedAt:  share.CreatedAt,
			ShareURL:   s.ShareURL(share.Token),
			FolderName: folderName,
		})
	}
	return result, cursor.Err()
}

func (s *ShareService) UpdateShare(ctx context.Context, shareID primitive.ObjectID, permission string) (*models.ShareInfo, error) {
	if !ValidPermission(permission) {
		return nil, fmt.Errorf("%w: permission must be read, edit or full", ErrValidation)
	}

	result, err := s.shareCollection.UpdateOne(ctx, bson.M{"_id": shareID}, bson.M{"$set": bson.M{"permission": permission}})
	if err != nil {
		return nil, fmt.Errorf("failed to update share: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("share: %w", ErrNotFound)
	}

	var share models.Share
	if err := s.shareCollection.FindOne(ctx, bson.M{"_id": shareID}).Decode(&share); err != nil {
		return nil, fmt.Errorf("failed to reload share: %w", err)
	}

	folderName := ""
	var folder models.Folder
	if err := s.folderCollection.FindOne(ctx, bson.M{"_id": share.FolderID}).Decode(&folder); err == nil {
		folderName = folder.Name
	}

	return &models.ShareInfo{
		ID:         share.ID,
		FolderID:   share.FolderID,
		Token:      share.Token,
		Permission: share.Permission,
		CreatedAt:  share.CreatedAt,
		ShareURL:   s.ShareURL(share.Token),
		FolderName: folderName,
	}, nil
}

func (s *ShareService) DeleteShare(ctx context.Context, shareID primitive.ObjectID) error {
	result, err := s.shareCollection.DeleteOne(ctx, bson.M{"_id": shareID})
	if err != nil {
		return fmt.Errorf("failed to delete share: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("share: %w", ErrNotFound)
	}
	return nil
}
