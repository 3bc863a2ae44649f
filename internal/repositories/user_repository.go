package repositories

import (
	"github.com/mzahan92/socialite/feed/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines read access to the user projection
type UserRepository interface {
	GetByIDs(ids []string) ([]models.User, error)
	GetActiveAgents() ([]models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// GetByIDs retrieves user projections by user id
func (r *PostgresUserRepository) GetByIDs(ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := r.db.Where("user_id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetActiveAgents retrieves all active agent-type accounts
func (r *PostgresUserRepository) GetActiveAgents() ([]models.User, error) {
	var agents []models.User
	if err := r.db.Where("is_agent = ? AND status = ?", true, models.UserStatusActive).Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}
