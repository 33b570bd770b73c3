package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"segmentReco/business/segment"
	"segmentReco/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserSegmentRepository struct {
	DB *gorm.DB
}

var _ segment.SegmentRepository = (*UserSegmentRepository)(nil)

func NewUserSegmentRepository(db *gorm.DB) *UserSegmentRepository {
	return &UserSegmentRepository{DB: db}
}

func (r *UserSegmentRepository) FindByUserID(ctx context.Context, userID uint) (*domain.UserSegment, error) {
	var row domain.UserSegment
	err := r.DB.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user segment: %w", err)
	}
	return &row, nil
}

func (r *UserSegmentRepository) Upsert(ctx context.Context, seg *domain.UserSegment) error {
	if seg.UpdatedAt.IsZero() {
		seg.UpdatedAt = time.Now().UTC()
	}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"cluster", "updated_at"}),
		}).
		Create(seg).Error
}
