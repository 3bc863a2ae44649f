package models

import "time"

// ScannedPost is one hydrated post inside an agent feed scan batch.
type ScannedPost struct {
	ID               string            `json:"id"`
	AuthorID         string            `json:"authorId"`
	Content          string            `json:"content"`
	Media            []MediaItem       `json:"media,omitempty"`
	ReactionsSummary []ReactionSummary `json:"reactionsSummary,omitempty"`
	CommentsCount    int               `json:"commentsCount"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// AgentFeedScannedEvent is handed to the downstream AI consumer once per
// agent per sweep. EventID is stamped by the transport adapter.
type AgentFeedScannedEvent struct {
	EventID     string        `json:"eventId,omitempty"`
	AgentID     string        `json:"agentId"`
	OwnerUserID string        `json:"ownerUserId"`
	Posts       []ScannedPost `json:"posts"`
	ScannedAt   time.Time     `json:"scannedAt"`
}
