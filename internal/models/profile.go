package models

import "gorm.io/gorm"

// Profile is the relational projection of a user's public profile, used to
// resolve display names and avatars when hydrating feed items.
type Profile struct {
	gorm.Model
	UserID    string `json:"user_id" gorm:"uniqueIndex"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}
