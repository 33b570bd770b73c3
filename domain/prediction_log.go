package domain

import (
	"time"

	"gorm.io/datatypes"
)

// PredictionLog is the audit record written once per successful assignment.
type PredictionLog struct {
	ID               uint                                    `gorm:"primaryKey" json:"id"`
	RequestID        string                                  `gorm:"column:request_id;type:text;index" json:"request_id"`
	UserID           uint                                    `gorm:"column:user_id;index" json:"user_id"`
	PredictedCluster int                                     `gorm:"column:predicted_cluster" json:"predicted_cluster"`
	Confidence       float64                                 `gorm:"column:confidence" json:"confidence"`
	RecommendedItems datatypes.JSONSlice[RecommendationItem] `gorm:"column:recommended_items;type:jsonb" json:"recommended_items"`
	CreatedAt        time.Time                               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PredictionLog) TableName() string {
	return "prediction_logs"
}

// UserSegment holds the last cluster assigned to a user.
type UserSegment struct {
	UserID    uint      `gorm:"column:user_id;primaryKey" json:"user_id"`
	Cluster   int       `gorm:"column:cluster;not null" json:"cluster"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserSegment) TableName() string {
	return "user_segments"
}
