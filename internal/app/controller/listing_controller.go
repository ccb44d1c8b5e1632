package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/baliyoga/baliyoga-backend/internal/app/model"
	"github.com/baliyoga/baliyoga-backend/internal/app/service"
	apperrors "github.com/baliyoga/baliyoga-backend/internal/errors"
	"github.com/baliyoga/baliyoga-backend/internal/middleware"
	"github.com/baliyoga/baliyoga-backend/pkg/slug"
)

// ListingController handles listing HTTP requests
type ListingController struct {
	listingService service.ListingService
}

// NewListingController creates a new listing controller
func NewListingController(listingService service.ListingService) *ListingController {
	return &ListingController{
		listingService: listingService,
	}
}

// CreateListingRequest represents the listing creation payload
type CreateListingRequest struct {
	ID                  string   `json:"id" binding:"required"`
	Name                string   `json:"name" binding:"required"`
	Category            string   `json:"category" binding:"required"`
	City                string   `json:"city"`
	Address             string   `json:"address"`
	Rating              float64  `json:"rating"`
	ReviewCount         int      `json:"review_count"`
	PhoneNumber         string   `json:"phone_number"`
	Website             string   `json:"website"`
	Email               string   `json:"email"`
	BusinessDescription string   `json:"business_description"`
	InstagramURL        string   `json:"instagram_url"`
	FacebookURL         string   `json:"facebook_url"`
	WhatsappNumber      string   `json:"whatsapp_number"`
	Images              []string `json:"images"`
}

// ListingCard is the compact listing shape used by list views.
type ListingCard struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Category    slug.Category `json:"category"`
	Location    string        `json:"location"`
	Image       string        `json:"image,omitempty"`
	Rating      float64       `json:"rating"`
	ReviewCount int           `json:"review_count"`
}

func newListingCard(listing model.Listing) ListingCard {
	return ListingCard{
		ID:          listing.ID,
		Name:        listing.Name,
		Slug:        listing.Slug,
		Category:    listing.Category,
		Location:    slug.LocationDisplayName(listing.LocationSlug),
		Image:       listing.PrimaryImage(),
		Rating:      listing.Rating,
		ReviewCount: listing.ReviewCount,
	}
}

// parseCategory maps the :category path segment to a listing category.
func parseCategory(c *gin.Context) (slug.Category, bool) {
	switch c.Param("category") {
	case "studios":
		return slug.CategoryStudio, true
	case "retreats":
		return slug.CategoryRetreat, true
	default:
		apperrors.BadRequest(c, apperrors.ValidationInvalidCategory, "Category must be studios or retreats")
		return "", false
	}
}

// GetListings returns all listings of a category, ranked.
// GET /api/v1/listings/:category?tier=premium|free
func (ctrl *ListingController) GetListings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	category, ok := parseCategory(c)
	if !ok {
		return
	}

	listings, err := ctrl.listingService.GetAllListings(c.Request.Context(), category)
	if err != nil {
		log.Error("Failed to fetch listings", err, map[string]interface{}{
			"category": category,
		})
		apperrors.InternalError(c, "Failed to fetch listings")
		return
	}

	if tier := c.Query("tier"); tier != "" {
		if tier != string(service.TierPremium) && tier != string(service.TierFree) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Tier must be premium or free")
			return
		}
		listings = service.FilterByTier(listings, service.Tier(tier))
	}

	log.Debug("Listings fetched", map[string]interface{}{
		"category": category,
		"count":    len(listings),
	})

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"count":    len(listings),
	})
}

// GetListingBySlug returns a single listing by its slug.
// GET /api/v1/listings/:category/:slug
func (ctrl *ListingController) GetListingBySlug(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	category, ok := parseCategory(c)
	if !ok {
		return
	}

	listingSlug := c.Param("slug")
	if !slug.IsValid(listingSlug) {
		log.Warn("Invalid listing slug", map[string]interface{}{
			"slug": listingSlug,
		})
		apperrors.BadRequest(c, apperrors.ListingInvalidSlug, "Invalid listing slug")
		return
	}

	listing, err := ctrl.listingService.GetListingBySlug(c.Request.Context(), category, listingSlug)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			apperrors.NotFound(c, apperrors.ListingNotFound, "Listing not found")
			return
		}
		log.Error("Failed to fetch listing", err, map[string]interface{}{
			"slug": listingSlug,
		})
		apperrors.InternalError(c, "Failed to fetch listing")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listing": listing,
	})
}

// SearchListings matches listings against a free-text query.
// GET /api/v1/listings/:category/search?q=...
func (ctrl *ListingController) SearchListings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	category, ok := parseCategory(c)
	if !ok {
		return
	}

	query := c.Query("q")
	if query == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Search query is required")
		return
	}

	listings, err := ctrl.listingService.SearchListings(c.Request.Context(), category, query)
	if err != nil {
		log.Error("Failed to search listings", err, map[string]interface{}{
			"category": category,
			"query":    query,
		})
		apperrors.InternalError(c, "Failed to search listings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"count":    len(listings),
	})
}

// GetTopListings returns the highest-rated listings of a category.
// GET /api/v1/listings/:category/top?limit=N
func (ctrl *ListingController) GetTopListings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	category, ok := parseCategory(c)
	if !ok {
		return
	}

	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > 100 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	listings, err := ctrl.listingService.GetTopListings(c.Request.Context(), category, limit)
	if err != nil {
		log.Error("Failed to fetch top listings", err, map[string]interface{}{
			"category": category,
		})
		apperrors.InternalError(c, "Failed to fetch top listings")
		return
	}

	cards := make([]ListingCard, len(listings))
	for i, listing := range listings {
		cards[i] = newListingCard(listing.Listing)
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": cards,
		"count":    len(cards),
	})
}

// CreateListing creates a new listing with a generated slug.
// POST /api/v1/listings
func (ctrl *ListingController) CreateListing(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid listing creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	category := slug.Category(req.Category)
	if category != slug.CategoryStudio && category != slug.CategoryRetreat {
		apperrors.BadRequest(c, apperrors.ValidationInvalidCategory, "Category must be studio or retreat")
		return
	}

	listing := &model.Listing{
		ID:                  req.ID,
		Name:                req.Name,
		Category:            category,
		City:                req.City,
		Address:             req.Address,
		Rating:              req.Rating,
		ReviewCount:         req.ReviewCount,
		PhoneNumber:         req.PhoneNumber,
		Website:             req.Website,
		Email:               req.Email,
		BusinessDescription: req.BusinessDescription,
		InstagramURL:        req.InstagramURL,
		FacebookURL:         req.FacebookURL,
		WhatsappNumber:      req.WhatsappNumber,
		Images:              model.StringArray(req.Images),
	}

	if err := ctrl.listingService.CreateListing(listing); err != nil {
		log.Error("Failed to create listing", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.InternalError(c, "Failed to create listing")
		return
	}

	log.Info("Listing created", map[string]interface{}{
		"listing_id": listing.ID,
		"slug":       listing.Slug,
	})

	c.JSON(http.StatusCreated, gin.H{
		"listing": listing,
	})
}
