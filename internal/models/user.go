package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// UserStatusActive marks a user account that is live and eligible for
// fan-out targeting.
const UserStatusActive = "active"

// User is the relational projection of a user account, maintained by
// external user lifecycle events. Agents are machine accounts that receive
// public posts as recommendations.
type User struct {
	UserID      string    `json:"user_id" gorm:"primaryKey"`
	Email       string    `json:"email" gorm:"index"`
	IsAgent     bool      `json:"is_agent" gorm:"index"`
	OwnerUserID string    `json:"owner_user_id,omitempty"`
	Status      string    `json:"status" gorm:"type:varchar(20);default:'active'"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
