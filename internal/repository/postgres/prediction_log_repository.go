package postgres

import (
	"context"
	"fmt"

	"segmentReco/business/segment"
	"segmentReco/domain"

	"gorm.io/gorm"
)

// PredictionLogRepository appends audit records. Rows are never updated.
type PredictionLogRepository struct {
	DB *gorm.DB
}

var _ segment.PredictionLogRepository = (*PredictionLogRepository)(nil)

func NewPredictionLogRepository(db *gorm.DB) *PredictionLogRepository {
	return &PredictionLogRepository{DB: db}
}

func (r *PredictionLogRepository) Create(ctx context.Context, log *domain.PredictionLog) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to create prediction log: %w", err)
	}

	return nil
}

// RecentByUser returns the latest records of a user, newest first.
func (r *PredictionLogRepository) RecentByUser(ctx context.Context, userID uint, limit int) ([]domain.PredictionLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var logs []domain.PredictionLog
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list prediction logs: %w", err)
	}

	return logs, nil
}
