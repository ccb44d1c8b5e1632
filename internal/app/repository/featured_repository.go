package repository

import (
	"errors"
	"time"

	"github.com/baliyoga/baliyoga-backend/internal/app/model"
	"github.com/baliyoga/baliyoga-backend/pkg/logger"
	"gorm.io/gorm"
)

type FeaturedRepository interface {
	Create(rotation *model.FeaturedRotation) error
	// FindByWeekStart returns the rotation stored for a week, or nil.
	FindByWeekStart(weekStart time.Time) (*model.FeaturedRotation, error)
	FindLatest() (*model.FeaturedRotation, error)
}

type featuredRepository struct {
	db *gorm.DB
}

func NewFeaturedRepository(db *gorm.DB) FeaturedRepository {
	return &featuredRepository{db: db}
}

func (r *featuredRepository) Create(rotation *model.FeaturedRotation) error {
	if err := r.db.Create(rotation).Error; err != nil {
		logger.Error("Failed to store featured rotation", err, map[string]interface{}{
			"week_start": rotation.WeekStart,
		})
		return err
	}
	return nil
}

func (r *featuredRepository) FindByWeekStart(weekStart time.Time) (*model.FeaturedRotation, error) {
	var rotation model.FeaturedRotation
	err := r.db.Where("week_start = ?", weekStart).First(&rotation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rotation, nil
}

func (r *featuredRepository) FindLatest() (*model.FeaturedRotation, error) {
	var rotation model.FeaturedRotation
	err := r.db.Order("week_start DESC").First(&rotation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rotation, nil
}
