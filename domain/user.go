package domain

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"column:name;not null" json:"name"`
	Email             string         `gorm:"column:email;unique;not null" json:"email"`
	Password          string         `gorm:"column:password;not null" json:"-"`
	Role              string         `gorm:"column:role;default:customer" json:"role"`
	PreferredCategory string         `gorm:"column:preferred_category" json:"preferred_category,omitempty"`
	PreferredStyle    string         `gorm:"column:preferred_style" json:"preferred_style,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserProfile is the authenticated user's own view, including the last
// segment the recommender assigned.
type UserProfile struct {
	User
	Cluster          *int       `json:"cluster,omitempty"`
	ClusterUpdatedAt *time.Time `json:"cluster_updated_at,omitempty"`
	// newest first
	RecentPredictions []PredictionLog `json:"recent_predictions,omitempty"`
}
