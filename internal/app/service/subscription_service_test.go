package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baliyoga/baliyoga-backend/internal/app/model"
	"github.com/baliyoga/baliyoga-backend/internal/app/repository"
	"github.com/baliyoga/baliyoga-backend/internal/db"
	"github.com/baliyoga/baliyoga-backend/pkg/cache"
)

func setupSubscriptionServiceTest(t *testing.T) (SubscriptionService, repository.SubscriptionRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	subscriptionRepo := repository.NewSubscriptionRepository(testDB)
	return NewSubscriptionService(subscriptionRepo, cache.NewMemory()), subscriptionRepo
}

func TestSubscriptionService_IsPremium(t *testing.T) {
	subscriptionService, subscriptionRepo := setupSubscriptionServiceTest(t)

	// No subscription at all
	assert.False(t, subscriptionService.IsPremium("listing-none"))

	// Active premium plan
	require.NoError(t, subscriptionRepo.Create(&model.Subscription{
		ListingID: "listing-premium",
		PlanID:    model.PlanPremiumStudio,
		Status:    model.SubscriptionActive,
		StartsAt:  time.Now(),
	}))
	assert.True(t, subscriptionService.IsPremium("listing-premium"))

	// Free plan is never premium
	require.NoError(t, subscriptionRepo.Create(&model.Subscription{
		ListingID: "listing-free",
		PlanID:    model.PlanFree,
		Status:    model.SubscriptionActive,
		StartsAt:  time.Now(),
	}))
	assert.False(t, subscriptionService.IsPremium("listing-free"))

	// Expired premium plan
	expired := time.Now().Add(-time.Hour)
	require.NoError(t, subscriptionRepo.Create(&model.Subscription{
		ListingID: "listing-expired",
		PlanID:    model.PlanPremiumRetreat,
		Status:    model.SubscriptionActive,
		StartsAt:  time.Now().Add(-48 * time.Hour),
		ExpiresAt: &expired,
	}))
	assert.False(t, subscriptionService.IsPremium("listing-expired"))
}

func TestSubscriptionService_IsPremiumMemoized(t *testing.T) {
	subscriptionService, subscriptionRepo := setupSubscriptionServiceTest(t)

	assert.False(t, subscriptionService.IsPremium("listing-1"))

	// Writing a subscription behind the service's back is not visible while
	// the memoized flag is alive.
	require.NoError(t, subscriptionRepo.Create(&model.Subscription{
		ListingID: "listing-1",
		PlanID:    model.PlanPremiumStudio,
		Status:    model.SubscriptionActive,
		StartsAt:  time.Now(),
	}))
	assert.False(t, subscriptionService.IsPremium("listing-1"))
}

func TestSubscriptionService_SubscribeInvalidatesMemo(t *testing.T) {
	subscriptionService, _ := setupSubscriptionServiceTest(t)

	// Prime the memo with the free answer.
	assert.False(t, subscriptionService.IsPremium("listing-1"))

	_, err := subscriptionService.Subscribe("listing-1", model.PlanPremiumStudio, nil)
	require.NoError(t, err)

	// Subscribe dropped the memoized flag, so the change is visible at once.
	assert.True(t, subscriptionService.IsPremium("listing-1"))
}

func TestSubscriptionService_PremiumStatuses(t *testing.T) {
	subscriptionService, subscriptionRepo := setupSubscriptionServiceTest(t)

	require.NoError(t, subscriptionRepo.Create(&model.Subscription{
		ListingID: "premium-1",
		PlanID:    model.PlanPremiumStudio,
		Status:    model.SubscriptionTrialing,
		StartsAt:  time.Now(),
	}))

	statuses := subscriptionService.PremiumStatuses([]string{"premium-1", "free-1"})
	assert.True(t, statuses["premium-1"])
	assert.False(t, statuses["free-1"])
}

func TestSubscriptionService_Cancel(t *testing.T) {
	subscriptionService, _ := setupSubscriptionServiceTest(t)

	_, err := subscriptionService.Subscribe("listing-1", model.PlanPremiumStudio, nil)
	require.NoError(t, err)
	require.True(t, subscriptionService.IsPremium("listing-1"))

	require.NoError(t, subscriptionService.Cancel("listing-1"))
	assert.False(t, subscriptionService.IsPremium("listing-1"))

	// Cancelling again, with nothing active, is a no-op.
	assert.NoError(t, subscriptionService.Cancel("listing-1"))
}

func TestSubscriptionService_History(t *testing.T) {
	subscriptionService, _ := setupSubscriptionServiceTest(t)

	_, err := subscriptionService.Subscribe("listing-1", model.PlanPremiumStudio, nil)
	require.NoError(t, err)
	require.NoError(t, subscriptionService.Cancel("listing-1"))
	_, err = subscriptionService.Subscribe("listing-1", model.PlanPremiumStudio, nil)
	require.NoError(t, err)

	history, err := subscriptionService.History("listing-1")
	require.NoError(t, err)
	assert.Len(t, history, 2)

	history, err = subscriptionService.History("listing-other")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSubscriptionService_NewestSubscriptionWins(t *testing.T) {
	subscriptionService, subscriptionRepo := setupSubscriptionServiceTest(t)

	require.NoError(t, subscriptionRepo.Create(&model.Subscription{
		ListingID: "listing-1",
		PlanID:    model.PlanPremiumStudio,
		Status:    model.SubscriptionActive,
		StartsAt:  time.Now().Add(-72 * time.Hour),
	}))
	require.NoError(t, subscriptionRepo.Create(&model.Subscription{
		ListingID: "listing-1",
		PlanID:    model.PlanFree,
		Status:    model.SubscriptionActive,
		StartsAt:  time.Now(),
	}))

	// The downgrade is the current subscription.
	assert.False(t, subscriptionService.IsPremium("listing-1"))
}
