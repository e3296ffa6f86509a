package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity actions recorded for client-facing operations.
const (
	ActionGalleryView  = "gallery_view"
	ActionFileDownload = "file_download"
	ActionZipDownload  = "zip_download"
	ActionFileUpload   = "file_upload"
)

// ActivityLog is an append-only audit record. Folder and file names are
// snapshots taken at event time; nothing references these entries.
type ActivityLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action     string             `bson:"action" json:"action"`
	ShareToken string             `bson:"share_token,omitempty" json:"share_token,omitempty"`
	FolderName string             `bson:"folder_name,omitempty" json:"folder_name,omitempty"`
	FileName   string             `bson:"file_name,omitempty" json:"file_name,omitempty"`
	Details    string             `bson:"details,omitempty" json:"details,omitempty"`
	IPAddress  string             `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
