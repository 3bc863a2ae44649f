package models

import "time"

// TrendingPost is one row of the globally ranked trending cache. Exactly one
// row exists per post id; the aggregator fully replaces it each cycle.
// Rows are stale between cycles by design.
type TrendingPost struct {
	PostID        string      `json:"post_id" bson:"post_id"`
	AuthorID      string      `json:"author_id" bson:"author_id"`
	Content       string      `json:"content" bson:"content"`
	Media         []MediaItem `json:"media,omitempty" bson:"media,omitempty"`
	TrendingScore float64     `json:"trending_score" bson:"trending_score"`
	CreatedAt     time.Time   `json:"created_at" bson:"created_at"`
}
