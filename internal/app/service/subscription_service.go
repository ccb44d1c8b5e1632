package service

import (
	"time"

	"github.com/baliyoga/baliyoga-backend/internal/app/model"
	"github.com/baliyoga/baliyoga-backend/internal/app/repository"
	"github.com/baliyoga/baliyoga-backend/pkg/cache"
	"github.com/baliyoga/baliyoga-backend/pkg/logger"
)

// premiumStatusTTL bounds how long a listing's premium flag is memoized. A
// subscription change shows up in rankings within this window at the latest.
const premiumStatusTTL = 5 * time.Minute

type SubscriptionService interface {
	// IsPremium reports whether the listing currently has premium placement.
	// Lookup failures degrade to false so ranking keeps working.
	IsPremium(listingID string) bool
	// PremiumStatuses resolves the premium flag for many listings at once.
	PremiumStatuses(listingIDs []string) map[string]bool
	Subscribe(listingID, planID string, expiresAt *time.Time) (*model.Subscription, error)
	// Cancel ends the listing's current subscription. Cancelling when none is
	// active is a no-op, not an error.
	Cancel(listingID string) error
	History(listingID string) ([]model.Subscription, error)
}

type subscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	memory           *cache.Memory
	now              func() time.Time
}

func NewSubscriptionService(subscriptionRepo repository.SubscriptionRepository, memory *cache.Memory) SubscriptionService {
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		memory:           memory,
		now:              time.Now,
	}
}

func (s *subscriptionService) IsPremium(listingID string) bool {
	cacheKey := "premium:" + listingID
	if cached := s.memory.Get(cacheKey); cached != nil {
		if premium, ok := cached.(bool); ok {
			return premium
		}
	}

	premium := s.lookupPremium(listingID)
	s.memory.Set(cacheKey, premium, premiumStatusTTL)
	return premium
}

func (s *subscriptionService) PremiumStatuses(listingIDs []string) map[string]bool {
	statuses := make(map[string]bool, len(listingIDs))
	for _, id := range listingIDs {
		statuses[id] = s.IsPremium(id)
	}
	return statuses
}

func (s *subscriptionService) Subscribe(listingID, planID string, expiresAt *time.Time) (*model.Subscription, error) {
	subscription := &model.Subscription{
		ListingID: listingID,
		PlanID:    planID,
		Status:    model.SubscriptionActive,
		StartsAt:  s.now(),
		ExpiresAt: expiresAt,
	}
	if err := s.subscriptionRepo.Create(subscription); err != nil {
		return nil, err
	}

	// The memoized flag is stale the moment a plan changes.
	s.memory.Delete("premium:" + listingID)

	logger.Info("Subscription created", map[string]interface{}{
		"listing_id": listingID,
		"plan_id":    planID,
	})
	return subscription, nil
}

func (s *subscriptionService) Cancel(listingID string) error {
	subscription, err := s.subscriptionRepo.FindCurrentByListingID(listingID)
	if err != nil {
		return err
	}
	if subscription == nil {
		return nil
	}

	subscription.Status = model.SubscriptionCancelled
	if err := s.subscriptionRepo.Update(subscription); err != nil {
		return err
	}

	s.memory.Delete("premium:" + listingID)

	logger.Info("Subscription cancelled", map[string]interface{}{
		"listing_id": listingID,
		"plan_id":    subscription.PlanID,
	})
	return nil
}

func (s *subscriptionService) History(listingID string) ([]model.Subscription, error) {
	return s.subscriptionRepo.FindAllByListingID(listingID)
}

func (s *subscriptionService) lookupPremium(listingID string) bool {
	subscription, err := s.subscriptionRepo.FindCurrentByListingID(listingID)
	if err != nil {
		logger.Error("Failed to look up subscription, treating as free tier", err, map[string]interface{}{
			"listing_id": listingID,
		})
		return false
	}
	if subscription == nil {
		return false
	}
	return subscription.IsPremiumAt(s.now())
}
