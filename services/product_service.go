package services

import (
	"context"
	"fmt"
	"time"

	"galleryshare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductService struct {
	productCollection *mongo.Collection
}

func NewProductService(db *mongo.Database) *ProductService {
	return &ProductService{productCollection: db.Collection("print_products")}
}

// CreateProduct adds a catalog entry. (name, size, paper_type) is the
// product identity; duplicates conflict.
func (s *ProductService) CreateProduct(ctx context.Context, name, size, paperType string, price float64, active bool) (*models.PrintProduct, error) {
	if name == "" || size == "" {
		return nil, fmt.Errorf("%w: name and size are required", ErrValidation)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	count, err := s.productCollection.CountDocuments(ctx, bson.M{"name": name, "size": size, "paper_type": paperType})
	if err != nil {
		return nil, fmt.Errorf("failed to check product identity: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: product already exists", ErrConflict)
	}

	product := models.PrintProduct{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Size:      size,
		PaperType: paperType,
		Price:     price,
		Active:    active,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.productCollection.InsertOne(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// ListProducts returns the catalog. activeOnly limits it to orderable
// entries, which is what the public gallery sees.
func (s *ProductService) ListProducts(ctx context.Context, activeOnly bool) ([]models.PrintProduct, error) {
	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}

	cursor, err := s.productCollection.Find(ctx, filter, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.PrintProduct{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.PrintProduct, error) {
	var product models.PrintProduct
	err := s.productCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("product %s: %w", id.Hex(), ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	return &product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id primitive.ObjectID, name, size, paperType string, price float64, active bool) (*models.PrintProduct, error) {
	if name == "" || size == "" {
		return nil, fmt.Errorf("%w: name and size are required", ErrValidation)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	count, err := s.productCollection.CountDocuments(ctx, bson.M{
		"name": name, "size": size, "paper_type": paperType, "_id": bson.M{"$ne": id},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check product identity: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: another product already has this identity", ErrConflict)
	}

	result, err := s.productCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name": name, "size": size, "paper_type": paperType, "price": price, "active": active,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("product %s: %w", id.Hex(), ErrNotFound)
	}
	return s.GetProduct(ctx, id)
}

func (s *ProductService) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.productCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("product %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}
