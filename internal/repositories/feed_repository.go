package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mzahan92/socialite/feed/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FeedRepository defines the interface for feed entry data operations
type FeedRepository interface {
	BulkInsert(ctx context.Context, entries []models.FeedEntry) (*models.InsertResult, error)
	GetEntryByID(ctx context.Context, id string) (*models.FeedEntry, error)
	GetUserFeedPage(ctx context.Context, userID string, before *time.Time, limit int64) ([]models.FeedEntry, error)
	GetUserPostIDs(ctx context.Context, userID string) (map[string]struct{}, error)
	GetUnseenByUser(ctx context.Context, userID string, limit int64) ([]models.FeedEntry, error)
	MarkSeen(ctx context.Context, ids []primitive.ObjectID) error
}

// MongoFeedRepository implements FeedRepository for MongoDB
type MongoFeedRepository struct {
	collection *mongo.Collection
}

// NewMongoFeedRepository creates a new MongoFeedRepository
func NewMongoFeedRepository(db *mongo.Database) *MongoFeedRepository {
	return &MongoFeedRepository{collection: db.Collection("feeds")}
}

// BulkInsert persists one batch of feed entries in a single unordered
// insert. A failure on one document does not prevent the others from
// persisting; per-document failures are reported in the result, not as an
// error, and are never retried.
func (r *MongoFeedRepository) BulkInsert(ctx context.Context, entries []models.FeedEntry) (*models.InsertResult, error) {
	result := &models.InsertResult{}
	if len(entries) == 0 {
		return result, nil
	}

	docs := make([]interface{}, len(entries))
	for i := range entries {
		if entries[i].ID.IsZero() {
			entries[i].ID = primitive.NewObjectID()
		}
		docs[i] = entries[i]
	}

	res, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if res != nil {
		result.Inserted = len(res.InsertedIDs)
	}
	if err != nil {
		var bulkErr mongo.BulkWriteException
		if errors.As(err, &bulkErr) {
			for _, writeErr := range bulkErr.WriteErrors {
				recipient := ""
				if writeErr.Index >= 0 && writeErr.Index < len(entries) {
					recipient = entries[writeErr.Index].UserID
				}
				result.Failed = append(result.Failed, models.FailedInsert{
					Recipient: recipient,
					Reason:    writeErr.Message,
				})
			}
			return result, nil
		}
		return result, err
	}
	return result, nil
}

// GetEntryByID retrieves a single feed entry by its id
func (r *MongoFeedRepository) GetEntryByID(ctx context.Context, id string) (*models.FeedEntry, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid feed entry ID format: %w", err)
	}

	var entry models.FeedEntry
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// GetUserFeedPage retrieves one page of a user's unseen/seen feed entries,
// newest first, optionally restricted to entries created before the cursor
// entry's timestamp.
func (r *MongoFeedRepository) GetUserFeedPage(ctx context.Context, userID string, before *time.Time, limit int64) ([]models.FeedEntry, error) {
	filter := bson.M{
		"user_id": userID,
		"status":  bson.M{"$in": bson.A{models.FeedStatusUnseen, models.FeedStatusSeen}},
	}
	if before != nil {
		filter["created_at"] = bson.M{"$lt": *before}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.FeedEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetUserPostIDs returns the set of every post id ever delivered to the
// user, across all statuses. The read path uses it as the trending
// exclusion set.
func (r *MongoFeedRepository) GetUserPostIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	findOptions := options.Find().SetProjection(bson.M{"post_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	ids := make(map[string]struct{})
	for cursor.Next(ctx) {
		var row struct {
			PostID string `bson:"post_id"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		ids[row.PostID] = struct{}{}
	}
	return ids, cursor.Err()
}

// GetUnseenByUser retrieves up to limit unseen feed entries for a user,
// newest first. Used by the agent feed scanner.
func (r *MongoFeedRepository) GetUnseenByUser(ctx context.Context, userID string, limit int64) ([]models.FeedEntry, error) {
	filter := bson.M{"user_id": userID, "status": models.FeedStatusUnseen}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.FeedEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// MarkSeen advances the given entries from unseen to seen
func (r *MongoFeedRepository) MarkSeen(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "status": models.FeedStatusUnseen},
		bson.M{"$set": bson.M{"status": models.FeedStatusSeen}},
	)
	return err
}
