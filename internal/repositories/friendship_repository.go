package repositories

import (
	"github.com/mzahan92/socialite/feed/internal/models"
	"gorm.io/gorm"
)

// FriendshipRepository defines the read-only friendship lookup. Friend
// request workflows are owned by a collaborator service.
type FriendshipRepository interface {
	GetAcceptedFriendIDs(userID string) ([]string, error)
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

// GetAcceptedFriendIDs returns the counterpart user id of every accepted
// friendship where userID is either side.
func (r *PostgresFriendshipRepository) GetAcceptedFriendIDs(userID string) ([]string, error) {
	var friendships []models.Friendship
	err := r.db.Where("status = ? AND (requester_id = ? OR recipient_id = ?)",
		models.FriendshipAccepted, userID, userID).Find(&friendships).Error
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(friendships))
	for _, f := range friendships {
		if f.RequesterID == userID {
			ids = append(ids, f.RecipientID)
		} else {
			ids = append(ids, f.RequesterID)
		}
	}
	return ids, nil
}
