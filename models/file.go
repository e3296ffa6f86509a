package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// File type classification, decided by extension at upload time.
const (
	FileTypeImage = "image"
	FileTypeVideo = "video"
	FileTypeOther = "other"
)

type File struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name         string              `bson:"name" json:"name"`
	FolderID     primitive.ObjectID  `bson:"folder_id" json:"folder_id"`
	StoredName   string              `bson:"stored_name" json:"-"`
	FileType     string              `bson:"file_type" json:"file_type"`
	Size         int64               `bson:"size" json:"size"`
	HasThumbnail bool                `bson:"has_thumbnail" json:"-"`
	HasPreview   bool                `bson:"has_preview" json:"-"`
	OriginFileID *primitive.ObjectID `bson:"origin_file_id,omitempty" json:"origin_file_id,omitempty"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
}

// FileInfo is the API view of a File: derivative URLs are present for images
// only, and degrade to absent when generation failed.
type FileInfo struct {
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	FolderID     primitive.ObjectID `json:"folder_id"`
	FileType     string             `json:"file_type"`
	Size         int64              `json:"size"`
	CreatedAt    time.Time          `json:"created_at"`
	ThumbnailURL string             `json:"thumbnail_url,omitempty"`
	PreviewURL   string             `json:"preview_url,omitempty"`
}
