package models

import "time"

// FeedSource tags where a feed item came from.
const (
	FeedSourcePersonalized = "feed"
	FeedSourceTrending     = "trending"
)

// AuthorInfo is the resolved author block on a feed item.
type AuthorInfo struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// UserReaction is the viewer's own reaction on a post, when known.
type UserReaction struct {
	UserID string `json:"userId"`
	Type   string `json:"type"`
}

// FeedItem is one hydrated entry in a feed response. FeedID is null for
// trending-sourced items, which were never delivered as feed rows.
type FeedItem struct {
	FeedID              *string           `json:"feedId"`
	PostID              string            `json:"postId"`
	Author              AuthorInfo        `json:"author"`
	Content             string            `json:"content"`
	Media               []MediaItem       `json:"media,omitempty"`
	Visibility          Visibility        `json:"visibility"`
	ReactionsSummary    []ReactionSummary `json:"reactionsSummary"`
	CurrentUserReaction *UserReaction     `json:"currentUserReaction,omitempty"`
	CommentsCount       int               `json:"commentsCount"`
	CreatedAt           time.Time         `json:"createdAt"`
	Status              FeedStatus        `json:"status"`
	Source              string            `json:"source"`
}

// FeedResponse is the paginated feed read contract. NextCursor is a feed
// entry id to continue personalized paging, the literal "trending" to
// continue trending paging, or null when exhausted.
type FeedResponse struct {
	Items         []FeedItem `json:"items"`
	NextCursor    *string    `json:"nextCursor"`
	Source        string     `json:"source"`
	HasTrending   bool       `json:"hasTrending,omitempty"`
	TrendingCount int        `json:"trendingCount,omitempty"`
}
