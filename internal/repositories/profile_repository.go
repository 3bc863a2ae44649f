package repositories

import (
	"github.com/mzahan92/socialite/feed/internal/models"
	"gorm.io/gorm"
)

// ProfileRepository defines read access to the profile projection
type ProfileRepository interface {
	GetByUserIDs(ids []string) ([]models.Profile, error)
}

// PostgresProfileRepository implements ProfileRepository for PostgreSQL
type PostgresProfileRepository struct {
	db *gorm.DB
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository
func NewPostgresProfileRepository(db *gorm.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// GetByUserIDs retrieves profiles for the given user ids
func (r *PostgresProfileRepository) GetByUserIDs(ids []string) ([]models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var profiles []models.Profile
	if err := r.db.Where("user_id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
