package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Folder struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name      string              `bson:"name" json:"name"`
	ParentID  *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}

// FolderSummary is a folder plus its direct-child counts. Counts are computed
// per listing call, never stored.
type FolderSummary struct {
	ID             primitive.ObjectID  `json:"id"`
	Name           string              `json:"name"`
	ParentID       *primitive.ObjectID `json:"parent_id,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	FileCount      int                 `json:"file_count"`
	SubfolderCount int                 `json:"subfolder_count"`
}

// PathEntry is one step of a breadcrumb, root ancestor first.
type PathEntry struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
}
