package repositories

import (
	"context"

	"github.com/mzahan92/socialite/feed/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TrendingRepository defines the interface for the trending cache
type TrendingRepository interface {
	UpsertAll(ctx context.Context, posts []models.TrendingPost) error
	GetTop(ctx context.Context, limit int64) ([]models.TrendingPost, error)
}

// MongoTrendingRepository implements TrendingRepository for MongoDB
type MongoTrendingRepository struct {
	collection *mongo.Collection
}

// NewMongoTrendingRepository creates a new MongoTrendingRepository
func NewMongoTrendingRepository(db *mongo.Database) *MongoTrendingRepository {
	return &MongoTrendingRepository{collection: db.Collection("trending_posts")}
}

// UpsertAll replaces each trending row keyed by post id in one bulk write.
// Rows not in the batch are left in place and go stale until a later cycle
// overwrites them.
func (r *MongoTrendingRepository) UpsertAll(ctx context.Context, posts []models.TrendingPost) error {
	if len(posts) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(posts))
	for _, p := range posts {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"post_id": p.PostID}).
			SetReplacement(p).
			SetUpsert(true))
	}
	_, err := r.collection.BulkWrite(ctx, writes)
	return err
}

// GetTop retrieves the highest-scored trending rows
func (r *MongoTrendingRepository) GetTop(ctx context.Context, limit int64) ([]models.TrendingPost, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "trending_score", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.TrendingPost
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
