package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrintProduct is a catalog entry for print orders, independent of any folder
// or file. (name, size, paper_type) identifies a product.
type PrintProduct struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Size      string             `bson:"size" json:"size"`
	PaperType string             `bson:"paper_type" json:"paper_type"`
	Price     float64            `bson:"price" json:"price"`
	Active    bool               `bson:"active" json:"active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
