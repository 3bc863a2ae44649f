package repositories

import (
	"github.com/mzahan92/socialite/feed/internal/models"
	"gorm.io/gorm"
)

// BlockListRepository defines read access to pairwise block relationships
type BlockListRepository interface {
	GetBlockedUserIDs(userID string) ([]string, error)
}

// PostgresBlockListRepository implements BlockListRepository for PostgreSQL
type PostgresBlockListRepository struct {
	db *gorm.DB
}

// NewPostgresBlockListRepository creates a new PostgresBlockListRepository
func NewPostgresBlockListRepository(db *gorm.DB) *PostgresBlockListRepository {
	return &PostgresBlockListRepository{db: db}
}

// GetBlockedUserIDs returns every user id the given viewer has blocked
func (r *PostgresBlockListRepository) GetBlockedUserIDs(userID string) ([]string, error) {
	var entries []models.BlockListEntry
	if err := r.db.Where("user_id = ?", userID).Find(&entries).Error; err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.BlockedUserID)
	}
	return ids, nil
}
