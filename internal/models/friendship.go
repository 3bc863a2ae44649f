package models

import "gorm.io/gorm"

// FriendshipAccepted is the only friendship state the pipeline acts on.
const FriendshipAccepted = "accepted"

// Friendship is the relational projection of a friendship between two
// users. The friendship-request workflow lives in a collaborator service;
// this service only reads accepted pairs for fan-out targeting.
type Friendship struct {
	gorm.Model
	RequesterID string `json:"requester_id" gorm:"index"`
	RecipientID string `json:"recipient_id" gorm:"index"`
	Status      string `json:"status" gorm:"type:varchar(20);default:'pending'"`
}
