package models

import "gorm.io/gorm"

// BlockListEntry records that user_id has blocked blocked_user_id. Pairs are
// created and removed by the friendship-state collaborator; the pipeline
// consumes them only to filter a viewer's trending results.
type BlockListEntry struct {
	gorm.Model
	UserID        string `json:"user_id" gorm:"index:idx_block_pair,unique"`
	BlockedUserID string `json:"blocked_user_id" gorm:"index:idx_block_pair,unique"`
}
