package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"galleryshare/models"
	"galleryshare/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityService appends audit events for client-facing operations.
type ActivityService struct {
	logCollection *mongo.Collection
}

func NewActivityService(db *mongo.Database) *ActivityService {
	return &ActivityService{logCollection: db.Collection("activity_logs")}
}

// ActivityEntry carries the optional context of one recorded event.
type ActivityEntry struct {
	ShareToken string
	FolderName string
	FileName   string
	Details    string
	IPAddress  string
}

// Record appends one event. Logging failures are swallowed: the view or
// download that triggered the event must still succeed for the caller.
func (s *ActivityService) Record(ctx context.Context, action string, entry ActivityEntry) {
	doc := models.ActivityLog{
		ID:         primitive.NewObjectID(),
		Action:     action,
		ShareToken: entry.ShareToken,
		FolderName: entry.FolderName,
		FileName:   entry.FileName,
		Details:    entry.Details,
		IPAddress:  entry.IPAddress,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.logCollection.InsertOne(ctx, doc); err != nil {
		utils.LogWarning("failed to record activity " + action + ": " + err.Error())
	}
}

// ActivityPage is one page of log entries plus the filtered total, so the
// client can render page counts independent of the page requested.
type ActivityPage struct {
	Items []models.ActivityLog `json:"items"`
	Total int64                `json:"total"`
}

// List returns entries newest first. A non-empty search matches share token,
// folder name or file name, case-insensitively.
func (s *ActivityService) List(ctx context.Context, search string, limit, skip int64) (*ActivityPage, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}

	filter := bson.M{}
	if search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"share_token": pattern},
			bson.M{"folder_name": pattern},
			bson.M{"file_name": pattern},
		}
	}

	total, err := s.logCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count activity logs: %w", err)
	}

	cursor, err := s.logCollection.Find(ctx, filter,
		options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit).SetSkip(skip))
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}
	defer cursor.Close(ctx)

	items := []models.ActivityLog{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode activity logs: %w", err)
	}

	return &ActivityPage{Items: items, Total: total}, nil
}

// ClearAll irreversibly deletes every entry and returns how many went.
func (s *ActivityService) ClearAll(ctx context.Context) (int64, error) {
	result, err := s.logCollection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to clear activity logs: %w", err)
	}
	return result.DeletedCount, nil
}
