package repository

import (
	"errors"

	"github.com/baliyoga/baliyoga-backend/internal/app/model"
	"github.com/baliyoga/baliyoga-backend/pkg/logger"
	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	Create(subscription *model.Subscription) error
	Update(subscription *model.Subscription) error
	// FindCurrentByListingID returns the newest active or trialing
	// subscription for a listing, or nil when there is none.
	FindCurrentByListingID(listingID string) (*model.Subscription, error)
	FindAllByListingID(listingID string) ([]model.Subscription, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(subscription *model.Subscription) error {
	if err := r.db.Create(subscription).Error; err != nil {
		logger.Error("Failed to create subscription", err, map[string]interface{}{
			"listing_id": subscription.ListingID,
			"plan_id":    subscription.PlanID,
		})
		return err
	}
	return nil
}

func (r *subscriptionRepository) Update(subscription *model.Subscription) error {
	if err := r.db.Save(subscription).Error; err != nil {
		logger.Error("Failed to update subscription", err, map[string]interface{}{
			"subscription_id": subscription.ID,
		})
		return err
	}
	return nil
}

func (r *subscriptionRepository) FindCurrentByListingID(listingID string) (*model.Subscription, error) {
	var subscription model.Subscription
	err := r.db.
		Where("listing_id = ? AND status IN ?", listingID, []string{model.SubscriptionActive, model.SubscriptionTrialing}).
		Order("starts_at DESC").
		First(&subscription).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (r *subscriptionRepository) FindAllByListingID(listingID string) ([]model.Subscription, error) {
	var subscriptions []model.Subscription
	err := r.db.Where("listing_id = ?", listingID).Order("starts_at DESC").Find(&subscriptions).Error
	if err != nil {
		return nil, err
	}
	return subscriptions, nil
}
