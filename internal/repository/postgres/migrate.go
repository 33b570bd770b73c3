package postgres

import (
	"fmt"

	"segmentReco/domain"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the tables this service owns.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Product{},
		&domain.PredictionLog{},
		&domain.UserSegment{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
