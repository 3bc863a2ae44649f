package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedReason explains why a post was delivered to a recipient's feed.
type FeedReason string

const (
	FeedReasonFriend         FeedReason = "friend"
	FeedReasonFollow         FeedReason = "follow"
	FeedReasonRecommendation FeedReason = "recommendation"
)

// FeedStatus tracks the lifecycle of a delivered feed entry.
type FeedStatus string

const (
	FeedStatusUnseen  FeedStatus = "unseen"
	FeedStatusSeen    FeedStatus = "seen"
	FeedStatusHidden  FeedStatus = "hidden"
	FeedStatusRemoved FeedStatus = "removed"
)

// FeedEntry is one (recipient, post) delivery row stored in MongoDB.
// No uniqueness is enforced on (user_id, post_id): a retried fan-out job
// can insert duplicate rows, and the read path deduplicates per response.
type FeedEntry struct {
	ID                   primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID               string             `json:"user_id" bson:"user_id"`
	PostID               string             `json:"post_id" bson:"post_id"`
	SourceUserID         string             `json:"source_user_id" bson:"source_user_id"`
	OriginalCreationTime string             `json:"original_creation_time" bson:"original_creation_time"`
	Reason               FeedReason         `json:"reason" bson:"reason"`
	Status               FeedStatus         `json:"status" bson:"status"`
	CreatedAt            time.Time          `json:"created_at" bson:"created_at"`
}

// FanoutJob is the inbound job contract consumed by the fan-out worker.
// It is produced once per post-creation event; delivery is at-least-once.
type FanoutJob struct {
	JobID      string `json:"jobId"`
	PostID     string `json:"postId" validate:"required"`
	AuthorID   string `json:"authorId" validate:"required"`
	Visibility string `json:"visibility" validate:"required,oneof=public friends private"`
}

// FailedInsert records one feed row that could not be persisted.
type FailedInsert struct {
	Recipient string `json:"recipient"`
	Reason    string `json:"reason"`
}

// InsertResult is the outcome of one unordered fan-out batch. Partial
// failures are reported here, never retried.
type InsertResult struct {
	Inserted int            `json:"inserted"`
	Failed   []FailedInsert `json:"failed,omitempty"`
}
