package repositories

import (
	"github.com/mzahan92/socialite/feed/internal/models"
	"gorm.io/gorm"
)

// UserStatusRepository defines read access to visibility eligibility
type UserStatusRepository interface {
	GetNonSuggestibleUserIDs() ([]string, error)
}

// PostgresUserStatusRepository implements UserStatusRepository for PostgreSQL
type PostgresUserStatusRepository struct {
	db *gorm.DB
}

// NewPostgresUserStatusRepository creates a new PostgresUserStatusRepository
func NewPostgresUserStatusRepository(db *gorm.DB) *PostgresUserStatusRepository {
	return &PostgresUserStatusRepository{db: db}
}

// GetNonSuggestibleUserIDs returns the global exclusion set of users that
// must not surface in trending or backfill results.
func (r *PostgresUserStatusRepository) GetNonSuggestibleUserIDs() ([]string, error) {
	var statuses []models.UserStatus
	if err := r.db.Where("is_suggestible = ?", false).Find(&statuses).Error; err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(statuses))
	for _, s := range statuses {
		ids = append(ids, s.UserID)
	}
	return ids, nil
}
