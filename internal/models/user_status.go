package models

import "gorm.io/gorm"

// UserStatus tracks per-user visibility eligibility. Non-suggestible users
// (deleted, suspended, banned) are excluded from trending and from recent
// public backfill globally.
type UserStatus struct {
	gorm.Model
	UserID        string `json:"user_id" gorm:"uniqueIndex"`
	IsSuggestible bool   `json:"is_suggestible" gorm:"default:true"`
	Status        string `json:"status" gorm:"type:varchar(20)"`
}
