package models

import "time"

// Visibility controls who a post is fanned out to.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityFriends Visibility = "friends"
	VisibilityPrivate Visibility = "private"
)

// MediaItem is one attachment on a post snapshot.
type MediaItem struct {
	ID   string `json:"id" bson:"id"`
	URL  string `json:"url" bson:"url"`
	Type string `json:"type" bson:"type"`
}

// ReactionSummary is an aggregated per-type reaction count.
type ReactionSummary struct {
	Type  string `json:"type" bson:"type"`
	Count int    `json:"count" bson:"count"`
}

// PostSnapshot is the read-only projection of a post owned by the post
// service. The _id carries the external post id; this service never creates
// or mutates these documents on the pipeline's write path.
type PostSnapshot struct {
	ID               string            `json:"id" bson:"_id"`
	UserID           string            `json:"user_id" bson:"user_id"`
	Content          string            `json:"content" bson:"content"`
	Media            []MediaItem       `json:"media,omitempty" bson:"media,omitempty"`
	Visibility       Visibility        `json:"visibility" bson:"visibility"`
	ReactionsSummary []ReactionSummary `json:"reactions_summary,omitempty" bson:"reactions_summary,omitempty"`
	CommentsCount    int               `json:"comments_count" bson:"comments_count"`
	OriginalCreation string            `json:"original_creation,omitempty" bson:"original_creation,omitempty"`
	CreatedAt        time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at" bson:"updated_at"`
}

// HasMedia reports whether the snapshot carries at least one attachment.
func (p *PostSnapshot) HasMedia() bool {
	return len(p.Media) > 0
}
