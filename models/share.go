package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Share permission tiers. read < edit < full.
const (
	PermissionRead = "read"
	PermissionEdit = "edit"
	PermissionFull = "full"
)

// Share grants token-scoped access to a folder subtree. The token is stored
// normalized: lowercase, alphanumeric only.
type Share struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FolderID   primitive.ObjectID `bson:"folder_id" json:"folder_id"`
	Token      string             `bson:"token" json:"token"`
	Permission string             `bson:"permission" json:"permission"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// ShareInfo is the admin API view of a Share, with the denormalized folder
// name and the public URL clients are handed.
type ShareInfo struct {
	ID         primitive.ObjectID `json:"id"`
	FolderID   primitive.ObjectID `json:"folder_id"`
	Token      string             `json:"token"`
	Permission string             `json:"permission"`
	CreatedAt  time.Time          `json:"created_at"`
	ShareURL   string             `json:"share_url"`
	FolderName string             `json:"folder_name"`
}
