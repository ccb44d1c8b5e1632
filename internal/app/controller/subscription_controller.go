package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/baliyoga/baliyoga-backend/internal/app/model"
	"github.com/baliyoga/baliyoga-backend/internal/app/service"
	apperrors "github.com/baliyoga/baliyoga-backend/internal/errors"
	"github.com/baliyoga/baliyoga-backend/internal/middleware"
)

// SubscriptionController handles premium subscription requests
type SubscriptionController struct {
	subscriptionService service.SubscriptionService
}

// NewSubscriptionController creates a new subscription controller
func NewSubscriptionController(subscriptionService service.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
	}
}

// SubscribeRequest represents the subscription payload
type SubscribeRequest struct {
	ListingID string     `json:"listing_id" binding:"required"`
	PlanID    string     `json:"plan_id" binding:"required"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Subscribe activates a premium plan for a listing.
// POST /api/v1/subscriptions
func (ctrl *SubscriptionController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid subscription request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	switch req.PlanID {
	case model.PlanPremiumStudio, model.PlanPremiumRetreat:
	default:
		apperrors.BadRequest(c, apperrors.SubscriptionInvalidPlan, "Unknown subscription plan")
		return
	}

	subscription, err := ctrl.subscriptionService.Subscribe(req.ListingID, req.PlanID, req.ExpiresAt)
	if err != nil {
		log.Error("Failed to create subscription", err, map[string]interface{}{
			"listing_id": req.ListingID,
			"plan_id":    req.PlanID,
		})
		apperrors.InternalError(c, "Failed to create subscription")
		return
	}

	log.Info("Subscription created", map[string]interface{}{
		"listing_id": req.ListingID,
		"plan_id":    req.PlanID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"subscription": subscription,
	})
}

// Cancel ends a listing's current subscription.
// DELETE /api/v1/subscriptions/:listingId
func (ctrl *SubscriptionController) Cancel(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	listingID := c.Param("listingId")
	if listingID == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Listing ID is required")
		return
	}

	if err := ctrl.subscriptionService.Cancel(listingID); err != nil {
		log.Error("Failed to cancel subscription", err, map[string]interface{}{
			"listing_id": listingID,
		})
		apperrors.InternalError(c, "Failed to cancel subscription")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listing_id": listingID,
		"cancelled":  true,
	})
}

// GetHistory returns every subscription a listing has had.
// GET /api/v1/subscriptions/:listingId
func (ctrl *SubscriptionController) GetHistory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	listingID := c.Param("listingId")
	if listingID == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Listing ID is required")
		return
	}

	subscriptions, err := ctrl.subscriptionService.History(listingID)
	if err != nil {
		log.Error("Failed to fetch subscription history", err, map[string]interface{}{
			"listing_id": listingID,
		})
		apperrors.InternalError(c, "Failed to fetch subscription history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscriptions": subscriptions,
		"count":         len(subscriptions),
	})
}

// GetPremiumStatus reports whether a listing has premium placement.
// GET /api/v1/subscriptions/:listingId/status
func (ctrl *SubscriptionController) GetPremiumStatus(c *gin.Context) {
	listingID := c.Param("listingId")
	if listingID == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Listing ID is required")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listing_id": listingID,
		"is_premium": ctrl.subscriptionService.IsPremium(listingID),
	})
}
