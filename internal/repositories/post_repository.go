package repositories

import (
	"context"

	"github.com/mzahan92/socialite/feed/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostSnapshotRepository defines read-only access to the post projection
// maintained by the post service's events. The pipeline never writes here.
type PostSnapshotRepository interface {
	GetByIDs(ctx context.Context, ids []string) ([]models.PostSnapshot, error)
	GetRecentPublic(ctx context.Context, excludeAuthorIDs []string, limit int64) ([]models.PostSnapshot, error)
	GetRecentPublicWithMedia(ctx context.Context, excludePostIDs, excludeAuthorIDs []string, limit int64) ([]models.PostSnapshot, error)
}

// MongoPostSnapshotRepository implements PostSnapshotRepository for MongoDB
type MongoPostSnapshotRepository struct {
	collection *mongo.Collection
}

// NewMongoPostSnapshotRepository creates a new MongoPostSnapshotRepository
func NewMongoPostSnapshotRepository(db *mongo.Database) *MongoPostSnapshotRepository {
	return &MongoPostSnapshotRepository{collection: db.Collection("posts")}
}

// GetByIDs retrieves post snapshots by post id, newest first
func (r *MongoPostSnapshotRepository) GetByIDs(ctx context.Context, ids []string) ([]models.PostSnapshot, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.PostSnapshot
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetRecentPublic retrieves the most recent public posts whose author is
// not in the exclusion list. Candidate pool for the trending aggregator.
func (r *MongoPostSnapshotRepository) GetRecentPublic(ctx context.Context, excludeAuthorIDs []string, limit int64) ([]models.PostSnapshot, error) {
	filter := bson.M{"visibility": models.VisibilityPublic}
	if len(excludeAuthorIDs) > 0 {
		filter["user_id"] = bson.M{"$nin": excludeAuthorIDs}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.PostSnapshot
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetRecentPublicWithMedia retrieves recent public, media-bearing posts for
// the trending backfill, excluding the given post ids and authors.
func (r *MongoPostSnapshotRepository) GetRecentPublicWithMedia(ctx context.Context, excludePostIDs, excludeAuthorIDs []string, limit int64) ([]models.PostSnapshot, error) {
	filter := bson.M{
		"visibility": models.VisibilityPublic,
		"media":      bson.M{"$exists": true, "$ne": bson.A{}},
	}
	if len(excludePostIDs) > 0 {
		filter["_id"] = bson.M{"$nin": excludePostIDs}
	}
	if len(excludeAuthorIDs) > 0 {
		filter["user_id"] = bson.M{"$nin": excludeAuthorIDs}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.PostSnapshot
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
