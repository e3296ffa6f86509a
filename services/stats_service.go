package services

import (
	"context"
	"fmt"

	"galleryshare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Stats is the admin dashboard summary. Everything here is computed on
// request; nothing is cached or incrementally maintained.
type Stats struct {
	TotalFolders   int64   `json:"total_folders"`
	TotalFiles     int64   `json:"total_files"`
	TotalImages    int64   `json:"total_images"`
	TotalVideos    int64   `json:"total_videos"`
	TotalSize      int64   `json:"total_size"`
	ActiveShares   int64   `json:"active_shares"`
	TotalOrders    int64   `json:"total_orders"`
	PendingOrders  int64   `json:"pending_orders"`
	TotalRevenue   float64 `json:"total_revenue"`
	ActiveProducts int64   `json:"active_products"`
}

type StatsService struct {
	folderCollection  *mongo.Collection
	fileCollection    *mongo.Collection
	shareCollection   *mongo.Collection
	orderCollection   *mongo.Collection
	productCollection *mongo.Collection
}

func NewStatsService(db *mongo.Database) *StatsService {
	return &StatsService{
		folderCollection:  db.Collection("folders"),
		fileCollection:    db.Collection("files"),
		shareCollection:   db.Collection("shares"),
		orderCollection:   db.Collection("orders"),
		productCollection: db.Collection("print_products"),
	}
}

func (s *StatsService) Collect(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	var err error

	if stats.TotalFolders, err = s.folderCollection.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("failed to count folders: %w", err)
	}
	if stats.TotalFiles, err = s.fileCollection.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("failed to count files: %w", err)
	}
	if stats.TotalImages, err = s.fileCollection.CountDocuments(ctx, bson.M{"file_type": models.FileTypeImage}); err != nil {
		return nil, fmt.Errorf("failed to count images: %w", err)
	}
	if stats.TotalVideos, err = s.fileCollection.CountDocuments(ctx, bson.M{"file_type": models.FileTypeVideo}); err != nil {
		return nil, fmt.Errorf("failed to count videos: %w", err)
	}
	if stats.ActiveShares, err = s.shareCollection.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("failed to count shares: %w", err)
	}
	if stats.TotalOrders, err = s.orderCollection.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if stats.PendingOrders, err = s.orderCollection.CountDocuments(ctx, bson.M{"status": models.OrderStatusPending}); err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}
	if stats.ActiveProducts, err = s.productCollection.CountDocuments(ctx, bson.M{"active": true}); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	if stats.TotalSize, err = s.sumFileSizes(ctx); err != nil {
		return nil, err
	}
	if stats.TotalRevenue, err = s.sumRevenue(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *StatsService) sumFileSizes(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$size"}}}},
	}
	cursor, err := s.fileCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to sum file sizes: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("failed to decode size aggregation: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// sumRevenue totals orders that reached a paid state. Pending and cancelled
// orders carry no money.
func (s *StatsService) sumRevenue(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": bson.M{"$in": bson.A{
			models.OrderStatusPaid, models.OrderStatusProcessing,
			models.OrderStatusShipped, models.OrderStatusCompleted,
		}}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$total"}}}},
	}
	cursor, err := s.orderCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("failed to decode revenue aggregation: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
